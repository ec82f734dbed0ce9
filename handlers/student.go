package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-food-api/middleware"
	"campus-food-api/services"
)

type StudentHandler struct {
	Orders *services.OrderService
}

func NewStudentHandler(orders *services.OrderService) *StudentHandler {
	return &StudentHandler{Orders: orders}
}

type PlaceOrderRequest struct {
	CanteenID uint                 `json:"canteen_id" binding:"required"`
	Items     []services.OrderLine `json:"items" binding:"required,min=1,dive"`
}

// PlaceOrder creates a new order (student only)
func (h *StudentHandler) PlaceOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, whatsappURL, err := h.Orders.Create(userID, req.CanteenID, req.Items)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Order placed successfully",
		"order":        order,
		"whatsapp_url": whatsappURL,
	})
}

// GetMyOrders returns all orders placed by the logged-in student
func (h *StudentHandler) GetMyOrders(c *gin.Context) {
	orders, err := h.Orders.OrdersForUser(middleware.GetUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrderDetail returns a single order's full detail with history
func (h *StudentHandler) GetOrderDetail(c *gin.Context) {
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.Orders.GetOwned(orderID, middleware.GetUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
