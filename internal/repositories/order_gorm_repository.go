package repositories

import (
	"fmt"

	"canteen/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create persists the order header and its lines in one transaction.
//
// When a coupon is to be applied, its usage counter is incremented inside
// the same transaction with the usage ceiling in the UPDATE predicate. Zero
// affected rows means a concurrent order consumed the last use (or the
// coupon was deactivated meanwhile); the order then proceeds without the
// discount, matching the silent-degrade rule for invalid coupons.
func (r *GORMOrderRepository) Create(order *models.Order, coupon *models.Coupon) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if coupon != nil {
			res := tx.Model(&models.Coupon{}).
				Where("id = ? AND is_active = ? AND (max_uses IS NULL OR uses_count < max_uses)", coupon.ID, true).
				UpdateColumn("uses_count", gorm.Expr("uses_count + 1"))
			if res.Error != nil {
				return fmt.Errorf("failed to increment coupon usage: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				order.CouponCode = nil
				order.DiscountAmount = 0
				order.FinalAmount = order.SubtotalAmount
			}
		}
		// Creating the order also inserts its Lines association; a failure
		// on any row rolls back the header, the lines, and the coupon
		// increment together.
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
}

// GetAll retrieves orders with their lines, newest first, optionally
// filtered by student.
func (r *GORMOrderRepository) GetAll(studentID string) ([]models.Order, error) {
	var orders []models.Order
	q := r.db.Preload("Lines").Order("order_date DESC")
	if studentID != "" {
		q = q.Where("student_id = ?", studentID)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order with its lines.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Lines").First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// UpdateStatus updates the status of an order.
func (r *GORMOrderRepository) UpdateStatus(id string, status string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for status update", id)
	}
	return nil
}
