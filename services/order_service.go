package services

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"campus-food-api/apperr"
	"campus-food-api/logger"
	"campus-food-api/models"
	"campus-food-api/statemachine"
)

// OrderService drives the order lifecycle. The database is the sole
// synchronization point: creation is a single transaction, transitions are
// conditional updates on the expected prior status.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// OrderLine is one requested cart line.
type OrderLine struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,min=1"`
}

// Create places an order for a student: resolves the canteen, prices every
// line from the catalog, and persists the header and all lines in one
// transaction. The total is frozen at creation; later menu price changes do
// not touch existing orders. Returns the order and the vendor-notification
// link.
func (s *OrderService) Create(userID, canteenID uint, lines []OrderLine) (*models.Order, string, error) {
	if len(lines) == 0 {
		return nil, "", apperr.New(apperr.KindInvalidRequest, "cart is empty")
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, "", apperr.Newf(apperr.KindInvalidRequest, "quantity must be positive for menu item %d", l.MenuItemID)
		}
	}

	var order models.Order
	var canteen models.Canteen

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&canteen, canteenID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.KindNotFound, "canteen not found")
			}
			return errors.Wrap(err, "load canteen")
		}

		var items []models.OrderItem
		var total int64
		for _, l := range lines {
			var menuItem models.MenuItem
			if err := tx.First(&menuItem, l.MenuItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Newf(apperr.KindNotFound, "menu item %d not found", l.MenuItemID)
				}
				return errors.Wrap(err, "load menu item")
			}
			if menuItem.CanteenID != canteenID {
				return apperr.Newf(apperr.KindInvalidRequest, "menu item %d does not belong to this canteen", menuItem.ID)
			}
			total += menuItem.Price * int64(l.Quantity)
			items = append(items, models.OrderItem{
				MenuItemID: menuItem.ID,
				Quantity:   l.Quantity,
				UnitPrice:  menuItem.Price,
			})
		}

		order = models.Order{
			UserID:      userID,
			CanteenID:   canteenID,
			Status:      models.StatusPlaced,
			TotalAmount: total,
			Items:       items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return errors.Wrap(err, "create order")
		}

		history := models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  models.StatusPlaced,
			ChangedBy: userID,
		}
		if err := tx.Create(&history).Error; err != nil {
			return errors.Wrap(err, "record order history")
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	logger.Log.WithFields(map[string]interface{}{
		"order_id":   order.ID,
		"user_id":    userID,
		"canteen_id": canteenID,
		"total":      order.TotalAmount,
	}).Info("order placed")

	waURL := BuildWhatsAppURL(canteen.VendorPhone, order.ID, order.Items)
	return &order, waURL, nil
}

// Accept transitions a placed order to accepted. Only the vendor assigned
// to the order's canteen may accept it. The status write is a
// compare-and-set on the expected prior state, so of two concurrent
// acceptors exactly one wins and the other sees an invalid transition.
func (s *OrderService) Accept(orderID, actorID uint) (*models.Order, error) {
	order, err := s.load(orderID)
	if err != nil {
		return nil, err
	}

	var canteen models.Canteen
	if err := s.db.First(&canteen, order.CanteenID).Error; err != nil {
		return nil, errors.Wrap(err, "load canteen")
	}
	if canteen.VendorID == nil || *canteen.VendorID != actorID {
		return nil, apperr.New(apperr.KindForbidden, "order belongs to another vendor's canteen")
	}

	return s.transition(order, models.StatusAccepted, models.RoleVendor, actorID)
}

// Deliver transitions an accepted order to delivered, the terminal state.
func (s *OrderService) Deliver(orderID, actorID uint) (*models.Order, error) {
	order, err := s.load(orderID)
	if err != nil {
		return nil, err
	}
	return s.transition(order, models.StatusDelivered, models.RoleDelivery, actorID)
}

func (s *OrderService) load(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "order not found")
		}
		return nil, errors.Wrap(err, "load order")
	}
	return &order, nil
}

func (s *OrderService) transition(order *models.Order, to models.OrderStatus, actor models.Role, actorID uint) (*models.Order, error) {
	if !statemachine.CanTransition(order.Status, to, actor) {
		return nil, apperr.Newf(apperr.KindInvalidTransition,
			"cannot move order from %s to %s; valid next states: %s",
			order.Status, to, statemachine.Describe(order.Status))
	}

	// Conditional update: the WHERE clause re-checks the prior status so a
	// concurrent transition makes this a zero-row update instead of a
	// double apply.
	res := s.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Update("status", to)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "update order status")
	}
	if res.RowsAffected == 0 {
		current, err := s.load(order.ID)
		if err != nil {
			return nil, err
		}
		return nil, apperr.Newf(apperr.KindInvalidTransition,
			"cannot move order from %s to %s; valid next states: %s",
			current.Status, to, statemachine.Describe(current.Status))
	}

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: order.Status,
		ToStatus:   to,
		ChangedBy:  actorID,
	}
	if err := s.db.Create(&history).Error; err != nil {
		return nil, errors.Wrap(err, "record order history")
	}

	logger.Log.WithFields(map[string]interface{}{
		"order_id": order.ID,
		"from":     order.Status,
		"to":       to,
		"actor":    actorID,
	}).Info("order status changed")

	order.Status = to
	return order, nil
}

// OrdersForUser returns the orders the given user placed, oldest first.
func (s *OrderService) OrdersForUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&orders).Error
	return orders, errors.Wrap(err, "list user orders")
}

// GetOwned returns a single order with full detail, only to its owner.
func (s *OrderService) GetOwned(orderID, userID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items.MenuItem").Preload("Canteen").Preload("StatusHistory").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "order not found")
		}
		return nil, errors.Wrap(err, "load order")
	}
	if order.UserID != userID {
		return nil, apperr.New(apperr.KindForbidden, "this order does not belong to you")
	}
	return &order, nil
}

// PlacedForVendor returns placed orders for the canteen assigned to the
// given vendor. A vendor without a canteen sees nothing.
func (s *OrderService) PlacedForVendor(vendorID uint) ([]models.Order, error) {
	var canteen models.Canteen
	if err := s.db.Where("vendor_id = ?", vendorID).First(&canteen).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.Order{}, nil
		}
		return nil, errors.Wrap(err, "load vendor canteen")
	}

	var orders []models.Order
	err := s.db.Preload("Items").
		Where("canteen_id = ? AND status = ?", canteen.ID, models.StatusPlaced).
		Order("created_at asc").
		Find(&orders).Error
	return orders, errors.Wrap(err, "list placed orders")
}

// AcceptedGlobally returns every accepted order, oldest first, for the
// delivery pool.
func (s *OrderService) AcceptedGlobally() ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").Preload("Canteen").
		Where("status = ?", models.StatusAccepted).
		Order("created_at asc").
		Find(&orders).Error
	return orders, errors.Wrap(err, "list accepted orders")
}

// All returns every order with full detail, optionally filtered by status.
// Admin use only.
func (s *OrderService) All(status string) ([]models.Order, error) {
	query := s.db.Preload("Items").Preload("Canteen").Preload("User")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var orders []models.Order
	err := query.Order("created_at asc").Find(&orders).Error
	return orders, errors.Wrap(err, "list all orders")
}
