package repositories

import (
	"canteen/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create persists the order header and all of its lines as one atomic
	// unit. When coupon is non-nil its usage counter is incremented in the
	// same unit, guarded by the coupon's usage ceiling; if the ceiling was
	// reached by a concurrent order, the discount is stripped from the
	// order before it is written.
	Create(order *models.Order, coupon *models.Coupon) error
	// GetAll lists orders newest first; a non-empty studentID filters to
	// that student's orders.
	GetAll(studentID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	UpdateStatus(id string, status string) error
}
