package handlers

import (
	"fmt"
	"log"
	"strings"

	"canteen/internal/models"
	"canteen/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CouponHandler handles HTTP requests for coupon administration.
type CouponHandler struct {
	service  *services.CouponService
	validate *validator.Validate
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(service *services.CouponService) *CouponHandler {
	return &CouponHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the coupon routes with the Fiber app.
func (h *CouponHandler) RegisterRoutes(router fiber.Router) {
	couponRoutes := router.Group("/coupons")
	couponRoutes.Get("/", h.HandleGetCoupons)
	couponRoutes.Post("/", h.HandleCreateCoupon)
	couponRoutes.Delete("/:id", h.HandleDeleteCoupon)
}

// HandleGetCoupons lists all coupons for the canteen dashboard.
func (h *CouponHandler) HandleGetCoupons(c *fiber.Ctx) error {
	coupons, err := h.service.GetAllCoupons()
	if err != nil {
		log.Printf("Error getting coupons: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve coupons",
			"error":   err.Error(),
		})
	}
	return c.JSON(coupons)
}

// HandleCreateCoupon creates a new coupon.
func (h *CouponHandler) HandleCreateCoupon(c *fiber.Ctx) error {
	var coupon models.Coupon
	if err := c.BodyParser(&coupon); err != nil {
		log.Printf("Error parsing coupon request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(coupon); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	if err := h.service.CreateCoupon(&coupon); err != nil {
		errMsg := err.Error()
		// GORM surfaces the unique-index violation as a driver error;
		// match it so duplicates map to 409 instead of 500.
		if strings.Contains(errMsg, "already exists") ||
			strings.Contains(errMsg, "duplicate") ||
			strings.Contains(errMsg, "UNIQUE constraint") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Coupon code already exists",
				"error":   errMsg,
			})
		}
		if strings.Contains(errMsg, "mutually exclusive") ||
			strings.Contains(errMsg, "must be") ||
			strings.Contains(errMsg, "required") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid coupon",
				"error":   errMsg,
			})
		}
		log.Printf("Error creating coupon: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create coupon",
			"error":   errMsg,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(coupon)
}

// HandleDeleteCoupon deletes a coupon. Past orders keep their coupon code
// snapshot; nothing else is touched.
func (h *CouponHandler) HandleDeleteCoupon(c *fiber.Ctx) error {
	couponID := c.Params("id")
	if err := h.service.DeleteCoupon(couponID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Coupon with ID %s not found", couponID),
			})
		}
		log.Printf("Error deleting coupon %s: %v", couponID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete coupon",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Coupon deleted",
	})
}
