package services

import (
	"fmt"

	"canteen/internal/models"
	"canteen/internal/repositories"
)

// CouponService handles coupon administration for canteen staff.
type CouponService struct {
	repo repositories.CouponRepository
}

// NewCouponService creates a new CouponService.
func NewCouponService(repo repositories.CouponRepository) *CouponService {
	return &CouponService{
		repo: repo,
	}
}

// GetAllCoupons retrieves all coupons.
func (s *CouponService) GetAllCoupons() ([]models.Coupon, error) {
	return s.repo.GetAll()
}

// CreateCoupon creates a new coupon after checking the discount shape:
// a coupon carries a percentage or a fixed amount, never both.
func (s *CouponService) CreateCoupon(coupon *models.Coupon) error {
	if coupon.Code == "" {
		return fmt.Errorf("coupon code is required")
	}
	if coupon.DiscountPercentage != nil && coupon.DiscountFixed != nil {
		return fmt.Errorf("coupon %s: discount_percentage and discount_fixed are mutually exclusive", coupon.Code)
	}
	if coupon.DiscountPercentage != nil && (*coupon.DiscountPercentage <= 0 || *coupon.DiscountPercentage > 100) {
		return fmt.Errorf("coupon %s: discount_percentage must be within (0, 100]", coupon.Code)
	}
	if coupon.DiscountFixed != nil && *coupon.DiscountFixed <= 0 {
		return fmt.Errorf("coupon %s: discount_fixed must be positive", coupon.Code)
	}
	return s.repo.Create(coupon)
}

// DeleteCoupon deletes a coupon. Past orders that applied it keep their
// denormalized code snapshot and amounts.
func (s *CouponService) DeleteCoupon(id string) error {
	return s.repo.Delete(id)
}
