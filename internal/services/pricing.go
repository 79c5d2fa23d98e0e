package services

import (
	"fmt"
	"math"
	"time"

	"canteen/internal/models"
)

// Quote is the outcome of pricing a cart: the amounts, the priced lines
// carrying their unit-price snapshots, and the coupon that passed
// validation (nil when none applies).
type Quote struct {
	Subtotal float64
	Discount float64
	Final    float64
	Lines    []models.OrderLine
	Coupon   *models.Coupon
}

// PriceCart validates a cart against a catalog snapshot and computes the
// subtotal, discount, and final amount. It performs no I/O: the caller
// resolves the catalog items and the coupon beforehand, which keeps the
// pricing rules unit-testable without a database.
//
// An invalid coupon (inactive, expired, or used up) is not an error; it
// degrades to no discount and the order proceeds. This mirrors the
// platform's long-standing permissive behavior.
func PriceCart(items map[string]models.MenuItem, lines []models.CartLine, coupon *models.Coupon, now time.Time) (*Quote, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrInvalidRequest)
	}

	var subtotal float64
	priced := make([]models.OrderLine, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity %d for item %s", ErrInvalidRequest, line.Quantity, line.MenuItemID)
		}
		item, ok := items[line.MenuItemID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, line.MenuItemID)
		}
		if !item.IsAvailable {
			return nil, fmt.Errorf("%w: %q", ErrItemUnavailable, item.Name)
		}
		priced = append(priced, models.OrderLine{
			MenuItemID:   item.ID,
			Quantity:     line.Quantity,
			PriceAtOrder: item.Price,
		})
		subtotal += item.Price * float64(line.Quantity)
	}
	subtotal = roundCents(subtotal)

	quote := &Quote{
		Subtotal: subtotal,
		Final:    subtotal,
		Lines:    priced,
	}
	if couponValid(coupon, now) {
		quote.Coupon = coupon
		quote.Discount = roundCents(couponDiscount(coupon, subtotal))
		quote.Final = roundCents(subtotal - quote.Discount)
	}
	return quote, nil
}

// couponValid applies the validity rules: the coupon exists, is active,
// has not expired, and has uses left.
func couponValid(c *models.Coupon, now time.Time) bool {
	if c == nil || !c.IsActive {
		return false
	}
	if c.ValidUntil != nil && !c.ValidUntil.After(now) {
		return false
	}
	if c.MaxUses != nil && c.UsesCount >= *c.MaxUses {
		return false
	}
	return true
}

// couponDiscount computes the discount a valid coupon grants. A fixed
// discount never exceeds the subtotal; a coupon with neither field set
// discounts nothing.
func couponDiscount(c *models.Coupon, subtotal float64) float64 {
	switch {
	case c.DiscountPercentage != nil:
		return subtotal * *c.DiscountPercentage / 100
	case c.DiscountFixed != nil:
		return math.Min(subtotal, *c.DiscountFixed)
	}
	return 0
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
