package repositories

import (
	"canteen/internal/models"
)

// CouponRepository defines the interface for coupon data access.
type CouponRepository interface {
	GetAll() ([]models.Coupon, error)
	// FindActiveByCode returns the active coupon with the given code, or
	// (nil, nil) when no such coupon exists. A missing coupon is not an
	// error: order placement degrades it to "no discount".
	FindActiveByCode(code string) (*models.Coupon, error)
	Create(coupon *models.Coupon) error
	Delete(id string) error
}
