package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-food-api/middleware"
	"campus-food-api/services"
)

type VendorHandler struct {
	Orders *services.OrderService
}

func NewVendorHandler(orders *services.OrderService) *VendorHandler {
	return &VendorHandler{Orders: orders}
}

// GetPlacedOrders returns placed orders waiting at the vendor's canteen
func (h *VendorHandler) GetPlacedOrders(c *gin.Context) {
	orders, err := h.Orders.PlacedForVendor(middleware.GetUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// AcceptOrder transitions placed → accepted for the vendor's own canteen
func (h *VendorHandler) AcceptOrder(c *gin.Context) {
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.Orders.Accept(orderID, middleware.GetUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Order accepted",
		"order_id": order.ID,
		"status":   order.Status,
	})
}
