package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon represents a discount code managed by canteen staff.
// Exactly one of DiscountPercentage and DiscountFixed should be set;
// a coupon with neither simply discounts nothing.
type Coupon struct {
	ID                 string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Code               string     `json:"code" gorm:"uniqueIndex;type:varchar(64)" validate:"required,min=2,max=64"`
	DiscountPercentage *float64   `json:"discount_percentage,omitempty" validate:"omitempty,gt=0,lte=100"`
	DiscountFixed      *float64   `json:"discount_fixed,omitempty" validate:"omitempty,gt=0"`
	ValidFrom          *time.Time `json:"valid_from,omitempty"`
	ValidUntil         *time.Time `json:"valid_until,omitempty"`
	MaxUses            *int       `json:"max_uses,omitempty" validate:"omitempty,gte=1"`
	UsesCount          int        `json:"uses_count"`
	IsActive           bool       `json:"is_active" gorm:"default:true"`
	gorm.Model
}
