package models

import "time"

type Canteen struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	Name      string   `json:"name" gorm:"not null"`
	CollegeID *uint    `json:"college_id"`
	College   *College `json:"college,omitempty" gorm:"foreignKey:CollegeID"`
	// VendorPhone is the WhatsApp number new-order notifications are addressed to.
	VendorPhone string     `json:"vendor_phone" gorm:"not null"`
	VendorID    *uint      `json:"vendor_id"` // vendor-role user assigned by an admin
	Vendor      *User      `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	MenuItems   []MenuItem `json:"menu_items,omitempty" gorm:"foreignKey:CanteenID"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type MenuItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CanteenID uint      `json:"canteen_id" gorm:"not null"`
	Name      string    `json:"name" gorm:"not null"`
	Price     int64     `json:"price" gorm:"not null"` // whole rupees
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
