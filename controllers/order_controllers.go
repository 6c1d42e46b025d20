package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/foodcart-app/models"
	"github.com/yeremiapane/foodcart-app/services"
	"github.com/yeremiapane/foodcart-app/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

type orderResponse struct {
	*models.Order
	TotalCost decimal.Decimal `json:"total_cost"`
}

func newOrderResponse(order *models.Order) orderResponse {
	return orderResponse{Order: order, TotalCost: order.TotalCost()}
}

// RegisterOrder -> customer checkout
func (oc *OrderController) RegisterOrder(c *gin.Context) {
	var body services.OrderInput
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, ErrBadRequest)
		return
	}

	order, err := oc.Orders.CreateOrder(c.Request.Context(), body)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", newOrderResponse(order))
}

// GetOrderByID -> detail 1 order
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return
	}
	order, err := oc.Orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", newOrderResponse(order))
}

// GetAllOrders -> manager list, optional ?status=NEW|COOKING|DELIVERY|CLOSED
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	status := models.OrderStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		utils.RespondErrorData(c, http.StatusBadRequest, errInvalidStatus, gin.H{"field": "status"})
		return
	}
	orders, err := oc.Orders.ListOrders(c.Request.Context(), services.OrderFilter{Status: status})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetAvailableRestaurants -> restaurants able to cook the whole order, nearest first
func (oc *OrderController) GetAvailableRestaurants(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return
	}
	candidates, err := oc.Orders.Candidates(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Available restaurants", candidates)
}

// UpdateOrder -> manager edit: status, restaurant, contact details, timestamps
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return
	}
	var body services.OrderUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, ErrBadRequest)
		return
	}
	order, err := oc.Orders.UpdateOrder(c.Request.Context(), id, body)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order updated", newOrderResponse(order))
}

// AddOrderItem -> manager adds a product at today's price
func (oc *OrderController) AddOrderItem(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return
	}
	var body struct {
		ProductID uint `json:"product" binding:"required"`
		Quantity  *int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, ErrBadRequest)
		return
	}
	quantity := 1
	if body.Quantity != nil {
		quantity = *body.Quantity
	}
	order, err := oc.Orders.AddItem(c.Request.Context(), id, body.ProductID, quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Item added", newOrderResponse(order))
}

// RemoveOrderItem
func (oc *OrderController) RemoveOrderItem(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return
	}
	productID, ok := paramID(c, "product_id")
	if !ok {
		return
	}
	order, err := oc.Orders.RemoveItem(c.Request.Context(), id, productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item removed", newOrderResponse(order))
}

// DeleteOrder
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return
	}
	if err := oc.Orders.DeleteOrder(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"order_id": id})
}
