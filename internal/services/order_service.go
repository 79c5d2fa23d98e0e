package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"canteen/internal/models"
	"canteen/internal/repositories"
	"canteen/pkg/rabbitmq"

	"github.com/google/uuid"
)

// OrderService handles order placement, listing, and status transitions.
type OrderService struct {
	orderRepo  repositories.OrderRepository
	menuRepo   repositories.MenuRepository
	couponRepo repositories.CouponRepository
	mqClient   *rabbitmq.Client // may be nil; events are best-effort
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, menuRepo repositories.MenuRepository, couponRepo repositories.CouponRepository, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		menuRepo:   menuRepo,
		couponRepo: couponRepo,
		mqClient:   mqClient,
	}
}

// PlaceOrder validates the cart, prices it, and persists the order header
// and lines atomically. Validation failures abort before any write. An
// unknown or invalid coupon code is ignored rather than rejected; the
// result's CouponCode reports what was actually applied.
func (s *OrderService) PlaceOrder(req models.PlaceOrderRequest) (*models.PlaceOrderResult, error) {
	if req.StudentID == "" {
		return nil, fmt.Errorf("%w: student id is required", ErrInvalidRequest)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrInvalidRequest)
	}

	// One batched catalog lookup for all distinct item ids.
	seen := make(map[string]bool, len(req.Items))
	ids := make([]string, 0, len(req.Items))
	for _, line := range req.Items {
		if !seen[line.MenuItemID] {
			seen[line.MenuItemID] = true
			ids = append(ids, line.MenuItemID)
		}
	}
	items, err := s.menuRepo.GetByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve menu items: %w", err)
	}

	var coupon *models.Coupon
	if req.CouponCode != "" {
		coupon, err = s.couponRepo.FindActiveByCode(req.CouponCode)
		if err != nil {
			return nil, fmt.Errorf("failed to look up coupon: %w", err)
		}
	}

	quote, err := PriceCart(items, req.Items, coupon, time.Now())
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:             uuid.New().String(),
		StudentID:      req.StudentID,
		OrderDate:      time.Now(),
		SubtotalAmount: quote.Subtotal,
		DiscountAmount: quote.Discount,
		FinalAmount:    quote.Final,
		Status:         models.StatusPending,
		Lines:          quote.Lines,
	}
	if quote.Coupon != nil {
		code := quote.Coupon.Code
		order.CouponCode = &code
	}

	// The repository may strip the discount inside the transaction if a
	// concurrent order consumed the coupon's last use, so the result is
	// read back from the order, not the quote.
	if err := s.orderRepo.Create(order, quote.Coupon); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.publishEvent("order.placed", map[string]interface{}{
		"order_id":   order.ID,
		"student_id": order.StudentID,
		"status":     order.Status,
		"final":      order.FinalAmount,
	})

	return &models.PlaceOrderResult{
		OrderID:    order.ID,
		Subtotal:   order.SubtotalAmount,
		Discount:   order.DiscountAmount,
		Final:      order.FinalAmount,
		CouponCode: order.CouponCode,
	}, nil
}

// ListOrders returns orders with their lines, newest first. A non-empty
// studentID restricts the listing to that student (the student dashboard
// view); canteen staff pass an empty id and see everything.
func (s *OrderService) ListOrders(studentID string) ([]models.Order, error) {
	orders, err := s.orderRepo.GetAll(studentID)
	if err != nil {
		return nil, err
	}
	if err := s.resolveItemNames(orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder retrieves a single order with its lines and display names.
func (s *OrderService) GetOrder(id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	orders := []models.Order{*order}
	if err := s.resolveItemNames(orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// UpdateStatus moves an order to a new lifecycle status.
func (s *OrderService) UpdateStatus(id string, status string) error {
	if !models.IsValidOrderStatus(status) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}

	s.publishEvent("order.status_changed", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})
	return nil
}

// resolveItemNames fills in the display name on each order line from the
// current catalog. Names are presentation only; the persisted price
// snapshot is what the order was charged.
func (s *OrderService) resolveItemNames(orders []models.Order) error {
	seen := make(map[string]bool)
	var ids []string
	for _, order := range orders {
		for _, line := range order.Lines {
			if !seen[line.MenuItemID] {
				seen[line.MenuItemID] = true
				ids = append(ids, line.MenuItemID)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}
	items, err := s.menuRepo.GetByIDs(ids)
	if err != nil {
		return fmt.Errorf("failed to resolve item names: %w", err)
	}
	for oi := range orders {
		for li := range orders[oi].Lines {
			if item, ok := items[orders[oi].Lines[li].MenuItemID]; ok {
				orders[oi].Lines[li].ItemName = item.Name
			}
		}
	}
	return nil
}

// publishEvent publishes an order lifecycle event. Publishing is
// best-effort: a broker failure is logged and never fails the request.
func (s *OrderService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.mqClient.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
