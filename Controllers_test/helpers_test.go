package Controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/foodcart-app/database"
	"github.com/yeremiapane/foodcart-app/models"
	"github.com/yeremiapane/foodcart-app/router"
	"github.com/yeremiapane/foodcart-app/services"
)

type stubGeocoder map[string]models.Coordinates

func (g stubGeocoder) Geocode(_ context.Context, address string) (*models.Coordinates, error) {
	c, ok := g[address]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func setupRouter(t *testing.T, db *gorm.DB, geocoder services.Geocoder) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	addresses := services.NewAddressCache(db, geocoder)
	index := services.NewMenuIndex(db)
	resolver := services.NewRestaurantResolver(db, index, addresses)
	return router.SetupRouter(router.Dependencies{
		Orders:      services.NewOrderService(db, addresses, resolver, nil),
		Restaurants: services.NewRestaurantService(db, addresses),
		Products:    services.NewProductService(db, index),
	})
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) (int, apiResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func decodeData(t *testing.T, resp apiResponse, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Data, v), string(resp.Data))
}

// seedMenu creates two products and a restaurant selling both.
func seedMenu(t *testing.T, r http.Handler) (pizzaID, soupID, restaurantID uint) {
	t.Helper()
	var product struct {
		ID uint `json:"id"`
	}

	code, resp := doJSON(t, r, http.MethodPost, "/manager/products", map[string]interface{}{"name": "Pizza", "price": "10.50"})
	require.Equal(t, http.StatusCreated, code, resp.Message)
	decodeData(t, resp, &product)
	pizzaID = product.ID

	code, resp = doJSON(t, r, http.MethodPost, "/manager/products", map[string]interface{}{"name": "Soup", "price": 4.25})
	require.Equal(t, http.StatusCreated, code, resp.Message)
	decodeData(t, resp, &product)
	soupID = product.ID

	var restaurant struct {
		ID uint `json:"id"`
	}
	code, resp = doJSON(t, r, http.MethodPost, "/manager/restaurants", map[string]interface{}{"name": "North", "address": "North 1"})
	require.Equal(t, http.StatusCreated, code, resp.Message)
	decodeData(t, resp, &restaurant)
	restaurantID = restaurant.ID

	for _, id := range []uint{pizzaID, soupID} {
		code, resp = doJSON(t, r, http.MethodPut, fmt.Sprintf("/manager/restaurants/%d/menu/%d", restaurantID, id), nil)
		require.Equal(t, http.StatusOK, code, resp.Message)
	}
	return pizzaID, soupID, restaurantID
}
