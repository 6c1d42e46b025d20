package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/foodcart-app/controllers"
	"github.com/yeremiapane/foodcart-app/dispatch"
	"github.com/yeremiapane/foodcart-app/middlewares"
	"github.com/yeremiapane/foodcart-app/services"
)

// Dependencies holds everything the HTTP layer needs.
type Dependencies struct {
	Orders      *services.OrderService
	Restaurants *services.RestaurantService
	Products    *services.ProductService
	Hub         *dispatch.Hub
	RateLimiter *middlewares.RateLimiter
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.RateLimit())
	}

	orderController := controllers.NewOrderController(deps.Orders)
	restaurantController := controllers.NewRestaurantController(deps.Restaurants)
	productController := controllers.NewProductController(deps.Products)
	categoryController := controllers.NewMenuCategoryController(deps.Products)
	adminController := controllers.NewAdminController(deps.Orders)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Public API, used by the storefront
	api := r.Group("/api")
	{
		api.GET("/products", productController.GetAvailableProducts)
		api.GET("/products/:product_id", productController.GetProductByID)
		api.GET("/categories", categoryController.GetAllCategories)
		api.POST("/order", orderController.RegisterOrder)
		api.GET("/orders/:order_id", orderController.GetOrderByID)
	}

	manager := r.Group("/manager")
	{
		manager.GET("/stats", adminController.GetDashboardStats)

		orders := manager.Group("/orders")
		{
			orders.GET("", orderController.GetAllOrders)
			orders.GET("/:order_id", orderController.GetOrderByID)
			orders.GET("/:order_id/restaurants", orderController.GetAvailableRestaurants)
			orders.PATCH("/:order_id", orderController.UpdateOrder)
			orders.DELETE("/:order_id", orderController.DeleteOrder)
			orders.POST("/:order_id/items", orderController.AddOrderItem)
			orders.DELETE("/:order_id/items/:product_id", orderController.RemoveOrderItem)
		}

		restaurants := manager.Group("/restaurants")
		{
			restaurants.GET("", restaurantController.GetAllRestaurants)
			restaurants.POST("", restaurantController.CreateRestaurant)
			restaurants.GET("/:restaurant_id", restaurantController.GetRestaurantByID)
			restaurants.PATCH("/:restaurant_id", restaurantController.UpdateRestaurant)
			restaurants.DELETE("/:restaurant_id", restaurantController.DeleteRestaurant)
			restaurants.PUT("/:restaurant_id/menu/:product_id", restaurantController.SetMenuItem)
			restaurants.DELETE("/:restaurant_id/menu/:product_id", restaurantController.RemoveMenuItem)
		}

		products := manager.Group("/products")
		{
			products.POST("", productController.CreateProduct)
			products.PATCH("/:product_id", productController.UpdateProduct)
		}

		categories := manager.Group("/categories")
		{
			categories.POST("", categoryController.CreateCategory)
			categories.PATCH("/:cat_id", categoryController.UpdateCategory)
			categories.DELETE("/:cat_id", categoryController.DeleteCategory)
		}
	}

	if deps.Hub != nil {
		r.GET("/ws/orders", deps.Hub.ServeWS)
	}

	return r
}
