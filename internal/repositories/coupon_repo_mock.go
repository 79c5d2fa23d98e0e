package repositories

import (
	"fmt"
	"sync"

	"canteen/internal/models"

	"github.com/google/uuid"
)

// MockCouponRepository is an in-memory implementation of CouponRepository.
type MockCouponRepository struct {
	coupons map[string]models.Coupon
	mu      sync.Mutex
}

// NewMockCouponRepository creates a new instance of MockCouponRepository.
func NewMockCouponRepository() *MockCouponRepository {
	return &MockCouponRepository{
		coupons: make(map[string]models.Coupon),
	}
}

// GetAll returns all coupons.
func (r *MockCouponRepository) GetAll() ([]models.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	couponList := make([]models.Coupon, 0, len(r.coupons))
	for _, c := range r.coupons {
		couponList = append(couponList, c)
	}
	return couponList, nil
}

// FindActiveByCode returns the active coupon with the given code, or
// (nil, nil) when absent.
func (r *MockCouponRepository) FindActiveByCode(code string) (*models.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.coupons {
		if c.Code == code && c.IsActive {
			coupon := c
			return &coupon, nil
		}
	}
	return nil, nil
}

// Create adds a new coupon.
func (r *MockCouponRepository) Create(coupon *models.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.coupons {
		if c.Code == coupon.Code {
			return fmt.Errorf("coupon code %s already exists", coupon.Code)
		}
	}
	if coupon.ID == "" {
		coupon.ID = uuid.New().String()
	}
	r.coupons[coupon.ID] = *coupon
	return nil
}

// Delete removes a coupon by its ID.
func (r *MockCouponRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.coupons[id]
	if !ok {
		return fmt.Errorf("coupon with ID %s not found for deletion", id)
	}
	delete(r.coupons, id)
	return nil
}

// consumeUse atomically checks the usage ceiling and increments the usage
// counter, mirroring the guarded UPDATE the GORM repository issues. It
// reports whether the use was granted.
func (r *MockCouponRepository) consumeUse(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.coupons[id]
	if !ok || !c.IsActive {
		return false
	}
	if c.MaxUses != nil && c.UsesCount >= *c.MaxUses {
		return false
	}
	c.UsesCount++
	r.coupons[id] = c
	return true
}
