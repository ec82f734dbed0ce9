package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-food-api/middleware"
	"campus-food-api/services"
)

type DeliveryHandler struct {
	Orders *services.OrderService
}

func NewDeliveryHandler(orders *services.OrderService) *DeliveryHandler {
	return &DeliveryHandler{Orders: orders}
}

// GetAcceptedOrders returns the global pool of accepted orders
func (h *DeliveryHandler) GetAcceptedOrders(c *gin.Context) {
	orders, err := h.Orders.AcceptedGlobally()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// DeliverOrder transitions accepted → delivered
func (h *DeliveryHandler) DeliverOrder(c *gin.Context) {
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.Orders.Deliver(orderID, middleware.GetUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Order delivered",
		"order_id": order.ID,
		"status":   order.Status,
	})
}
