package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/yeremiapane/foodcart-app/config"
	"github.com/yeremiapane/foodcart-app/database"
	"github.com/yeremiapane/foodcart-app/dispatch"
	"github.com/yeremiapane/foodcart-app/middlewares"
	"github.com/yeremiapane/foodcart-app/router"
	"github.com/yeremiapane/foodcart-app/services"
	"github.com/yeremiapane/foodcart-app/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	utils.InitLogger(cfg.LogLevel)

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate database: %v", err)
	}

	var geocoder services.Geocoder
	if cfg.YandexAPIKey != "" {
		geocoder = services.NewYandexGeocoder(cfg.YandexAPIKey, cfg.GeocoderURL, cfg.GeocoderTimeout)
	}

	hub := dispatch.NewHub()
	addresses := services.NewAddressCache(db, geocoder)
	index := services.NewMenuIndex(db)
	resolver := services.NewRestaurantResolver(db, index, addresses)

	r := router.SetupRouter(router.Dependencies{
		Orders:      services.NewOrderService(db, addresses, resolver, hub),
		Restaurants: services.NewRestaurantService(db, addresses),
		Products:    services.NewProductService(db, index),
		Hub:         hub,
		RateLimiter: middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		utils.InfoLogger.Println("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
	utils.InfoLogger.Println("Server stopped")
}
