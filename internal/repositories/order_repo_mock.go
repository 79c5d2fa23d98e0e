package repositories

import (
	"fmt"
	"sort"
	"sync"

	"canteen/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// It shares coupon state with a MockCouponRepository so the guarded usage
// increment behaves like the transactional GORM implementation.
type MockOrderRepository struct {
	orders  map[string]models.Order
	coupons *MockCouponRepository // may be nil when coupons are not in play
	mu      sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository(coupons *MockCouponRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:  make(map[string]models.Order),
		coupons: coupons,
	}
}

// Create stores the order and its lines; when a coupon is applied, its use
// is consumed first and the discount stripped if the ceiling was reached.
func (r *MockOrderRepository) Create(order *models.Order, coupon *models.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if coupon != nil {
		granted := r.coupons != nil && r.coupons.consumeUse(coupon.ID)
		if !granted {
			order.CouponCode = nil
			order.DiscountAmount = 0
			order.FinalAmount = order.SubtotalAmount
		}
	}
	for i := range order.Lines {
		order.Lines[i].OrderID = order.ID
	}
	r.orders[order.ID] = *order
	return nil
}

// GetAll returns orders newest first, optionally filtered by student.
func (r *MockOrderRepository) GetAll(studentID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if studentID != "" && order.StudentID != studentID {
			continue
		}
		orderList = append(orderList, order)
	}
	sort.Slice(orderList, func(i, j int) bool {
		return orderList[i].OrderDate.After(orderList[j].OrderDate)
	})
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s not found", id)
	}
	return &order, nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s not found for status update", id)
	}
	order.Status = status
	r.orders[id] = order
	return nil
}
