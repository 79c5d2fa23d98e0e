package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses, in the order the canteen moves them through.
const (
	StatusPending   = "Pending"
	StatusPreparing = "Preparing"
	StatusReady     = "Ready for Pickup"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

// IsValidOrderStatus reports whether status is part of the order lifecycle.
func IsValidOrderStatus(status string) bool {
	switch status {
	case StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// OrderLine is a single (menu item, quantity) pair persisted with an order.
// PriceAtOrder is the unit price frozen at purchase time; later catalog
// price edits never change it.
type OrderLine struct {
	ID           uint    `json:"-" gorm:"primaryKey"`
	OrderID      string  `json:"-" gorm:"index;type:varchar(36)"`
	MenuItemID   string  `json:"menu_item_id" gorm:"type:varchar(36)"`
	ItemName     string  `json:"item_name,omitempty" gorm:"-"` // resolved from the catalog for display
	Quantity     int     `json:"quantity"`
	PriceAtOrder float64 `json:"price_at_order"`
}

// Order represents a student's pre-order.
// CouponCode is a denormalized snapshot of the code that was applied, not a
// foreign key: deleting the coupon later must not touch past orders.
type Order struct {
	ID             string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	StudentID      string      `json:"student_id" gorm:"index;type:varchar(36)"`
	OrderDate      time.Time   `json:"order_date"`
	SubtotalAmount float64     `json:"subtotal_amount"`
	CouponCode     *string     `json:"coupon_code,omitempty" gorm:"type:varchar(64)"`
	DiscountAmount float64     `json:"discount_amount"`
	FinalAmount    float64     `json:"final_amount"`
	Status         string      `json:"status" gorm:"type:varchar(32);default:Pending"`
	Lines          []OrderLine `json:"items" gorm:"foreignKey:OrderID"`
	gorm.Model
}

// CartLine is one requested line item in a place-order call.
type CartLine struct {
	MenuItemID string `json:"menu_item_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}

// PlaceOrderRequest is the request body for placing an order. The cart is
// client-supplied in full; the server keeps no session state.
type PlaceOrderRequest struct {
	StudentID  string     `json:"student_id" validate:"required"`
	Items      []CartLine `json:"items" validate:"required,min=1,dive"`
	CouponCode string     `json:"coupon_code" validate:"omitempty,max=64"`
}

// PlaceOrderResult reports the persisted order id and the computed amounts.
// CouponCode is nil when no code was supplied or the supplied code was
// ignored as invalid.
type PlaceOrderResult struct {
	OrderID    string  `json:"order_id"`
	Subtotal   float64 `json:"subtotal_amount"`
	Discount   float64 `json:"discount_amount"`
	Final      float64 `json:"final_amount"`
	CouponCode *string `json:"coupon_code,omitempty"`
}
