package models

import "time"

// OrderStatus represents the states of the order lifecycle
type OrderStatus string

const (
	StatusPlaced    OrderStatus = "placed"
	StatusAccepted  OrderStatus = "accepted"
	StatusDelivered OrderStatus = "delivered"
)

type Order struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	UserID    uint        `json:"user_id" gorm:"not null"`
	User      User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	CanteenID uint        `json:"canteen_id" gorm:"not null"`
	Canteen   Canteen     `json:"canteen,omitempty" gorm:"foreignKey:CanteenID"`
	Status    OrderStatus `json:"status" gorm:"not null;default:'placed'"`
	// TotalAmount is computed from the lines at creation and never recomputed.
	TotalAmount   int64                `json:"total_amount" gorm:"not null"`
	Items         []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

type OrderItem struct {
	ID         uint     `json:"id" gorm:"primaryKey"`
	OrderID    uint     `json:"order_id" gorm:"not null"`
	MenuItemID uint     `json:"menu_item_id" gorm:"not null"`
	MenuItem   MenuItem `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID"`
	Quantity   int      `json:"quantity" gorm:"not null"`
	UnitPrice  int64    `json:"unit_price" gorm:"not null"` // snapshot price at time of order
}

// OrderStatusHistory records every status change for auditing
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"` // user ID who triggered the transition
	CreatedAt  time.Time   `json:"created_at"`
}
