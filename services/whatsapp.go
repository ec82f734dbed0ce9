package services

import (
	"fmt"
	"net/url"

	"campus-food-api/models"
)

// whatsappCountryCode is prefixed to every canteen phone number.
const whatsappCountryCode = "91"

// BuildWhatsAppURL renders the vendor-notification link returned with a
// freshly placed order. Message body: a "New Order #<id>" header, a blank
// line, then one "- Item <menu_item_id> x <quantity>" line per order line.
func BuildWhatsAppURL(phone string, orderID uint, items []models.OrderItem) string {
	msg := fmt.Sprintf("New Order #%d\n\n", orderID)
	for _, it := range items {
		msg += fmt.Sprintf("- Item %d x %d\n", it.MenuItemID, it.Quantity)
	}
	return "https://wa.me/" + whatsappCountryCode + phone + "?text=" + url.QueryEscape(msg)
}
