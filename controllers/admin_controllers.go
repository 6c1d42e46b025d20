package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/foodcart-app/services"
	"github.com/yeremiapane/foodcart-app/utils"
)

type AdminController struct {
	Orders *services.OrderService
}

func NewAdminController(orders *services.OrderService) *AdminController {
	return &AdminController{Orders: orders}
}

// GetDashboardStats -> order counters for the manager dashboard
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	stats, err := ac.Orders.Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}
