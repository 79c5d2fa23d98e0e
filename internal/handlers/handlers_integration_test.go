package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"canteen/internal/handlers"
	"canteen/internal/models"
	"canteen/internal/repositories"
	"canteen/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

type testEnv struct {
	app        *fiber.App
	db         *gorm.DB
	menuRepo   repositories.MenuRepository
	couponRepo repositories.CouponRepository
	uploadDir  string
}

// setupEnv boots the full Fiber app against a test-scoped in-memory SQLite
// database, mirroring the production wiring minus RabbitMQ.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.MenuItem{}, &models.Coupon{}, &models.Order{}, &models.OrderLine{}))

	menuRepo := repositories.NewGORMMenuRepository(db)
	couponRepo := repositories.NewGORMCouponRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	menuService := services.NewMenuService(menuRepo)
	couponService := services.NewCouponService(couponRepo)
	orderService := services.NewOrderService(orderRepo, menuRepo, couponRepo, nil) // nil for RabbitMQ client
	authService := services.NewAuthService(userRepo)

	uploadDir := t.TempDir()

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)
	handlers.NewMenuHandler(menuService, uploadDir).RegisterRoutes(apiV1)
	handlers.NewOrderHandler(orderService).RegisterRoutes(apiV1)
	handlers.NewCouponHandler(couponService).RegisterRoutes(apiV1)

	return &testEnv{
		app:        app,
		db:         db,
		menuRepo:   menuRepo,
		couponRepo: couponRepo,
		uploadDir:  uploadDir,
	}
}

// seedMenu inserts two known items and returns their ids.
func (env *testEnv) seedMenu(t *testing.T) (string, string) {
	t.Helper()
	rice := models.MenuItem{Name: "Chicken Rice", Price: 100.00, IsAvailable: true}
	noodles := models.MenuItem{Name: "Veggie Noodles", Price: 50.00, IsAvailable: true}
	require.NoError(t, env.menuRepo.Create(&rice))
	require.NoError(t, env.menuRepo.Create(&noodles))
	return rice.ID, noodles.ID
}

func (env *testEnv) postJSON(t *testing.T, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func (env *testEnv) countRows(t *testing.T, model interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, env.db.Model(model).Count(&count).Error)
	return count
}

func TestMain(m *testing.M) {
	// Suppress handler logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	env := setupEnv(t)

	resp := env.postJSON(t, "/api/v1/auth/register", map[string]string{
		"username": "alice",
		"password": "password123",
		"role":     "student",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var registerResp map[string]interface{}
	decodeBody(t, resp, &registerResp)
	assert.Equal(t, "User registered successfully", registerResp["message"])

	// Duplicate username
	resp = env.postJSON(t, "/api/v1/auth/register", map[string]string{
		"username": "alice",
		"password": "password456",
		"role":     "student",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Bad role
	resp = env.postJSON(t, "/api/v1/auth/register", map[string]string{
		"username": "mallory",
		"password": "password456",
		"role":     "admin",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Login
	resp = env.postJSON(t, "/api/v1/auth/login", map[string]string{
		"username": "alice",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp struct {
		Message string      `json:"message"`
		User    models.User `json:"user"`
	}
	decodeBody(t, resp, &loginResp)
	assert.Equal(t, "alice", loginResp.User.Username)
	assert.Equal(t, models.RoleStudent, loginResp.User.Role)

	// Wrong password
	resp = env.postJSON(t, "/api/v1/auth/login", map[string]string{
		"username": "alice",
		"password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestPlaceOrder(t *testing.T) {
	env := setupEnv(t)
	riceID, noodlesID := env.seedMenu(t)

	require.NoError(t, env.couponRepo.Create(&models.Coupon{
		Code:               "SAVE10",
		DiscountPercentage: f64(10),
		IsActive:           true,
	}))

	resp := env.postJSON(t, "/api/v1/orders", models.PlaceOrderRequest{
		StudentID: "stu-1",
		Items: []models.CartLine{
			{MenuItemID: riceID, Quantity: 1},
			{MenuItemID: noodlesID, Quantity: 2},
		},
		CouponCode: "SAVE10",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var result models.PlaceOrderResult
	decodeBody(t, resp, &result)
	assert.Equal(t, 200.00, result.Subtotal)
	assert.Equal(t, 20.00, result.Discount)
	assert.Equal(t, 180.00, result.Final)
	require.NotNil(t, result.CouponCode)
	assert.Equal(t, "SAVE10", *result.CouponCode)

	assert.EqualValues(t, 1, env.countRows(t, &models.Order{}))
	assert.EqualValues(t, 2, env.countRows(t, &models.OrderLine{}))

	coupon, err := env.couponRepo.FindActiveByCode("SAVE10")
	require.NoError(t, err)
	assert.Equal(t, 1, coupon.UsesCount)
}

func TestPlaceOrderRejectionsWriteNothing(t *testing.T) {
	env := setupEnv(t)
	riceID, _ := env.seedMenu(t)

	// Unknown menu item
	resp := env.postJSON(t, "/api/v1/orders", models.PlaceOrderRequest{
		StudentID: "stu-1",
		Items:     []models.CartLine{{MenuItemID: "ghost", Quantity: 1}},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Zero quantity is caught by request validation
	resp = env.postJSON(t, "/api/v1/orders", models.PlaceOrderRequest{
		StudentID: "stu-1",
		Items:     []models.CartLine{{MenuItemID: riceID, Quantity: 0}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Empty cart
	resp = env.postJSON(t, "/api/v1/orders", models.PlaceOrderRequest{
		StudentID: "stu-1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// No partial rows from any of the rejected orders.
	assert.EqualValues(t, 0, env.countRows(t, &models.Order{}))
	assert.EqualValues(t, 0, env.countRows(t, &models.OrderLine{}))
}

func TestPlaceOrderCouponDegrade(t *testing.T) {
	env := setupEnv(t)
	riceID, _ := env.seedMenu(t)

	yesterday := time.Now().Add(-24 * time.Hour)
	require.NoError(t, env.couponRepo.Create(&models.Coupon{
		Code:               "EXPIRED",
		DiscountPercentage: f64(50),
		ValidUntil:         &yesterday,
		IsActive:           true,
	}))

	// Expired coupon: order succeeds, no discount, no usage consumed.
	resp := env.postJSON(t, "/api/v1/orders", models.PlaceOrderRequest{
		StudentID:  "stu-1",
		Items:      []models.CartLine{{MenuItemID: riceID, Quantity: 1}},
		CouponCode: "EXPIRED",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var result models.PlaceOrderResult
	decodeBody(t, resp, &result)
	assert.Equal(t, 0.00, result.Discount)
	assert.Equal(t, result.Subtotal, result.Final)
	assert.Nil(t, result.CouponCode)

	coupon, err := env.couponRepo.FindActiveByCode("EXPIRED")
	require.NoError(t, err)
	assert.Equal(t, 0, coupon.UsesCount)

	// Unknown code behaves the same way.
	resp = env.postJSON(t, "/api/v1/orders", models.PlaceOrderRequest{
		StudentID:  "stu-1",
		Items:      []models.CartLine{{MenuItemID: riceID, Quantity: 1}},
		CouponCode: "NO-SUCH-CODE",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeBody(t, resp, &result)
	assert.Equal(t, 0.00, result.Discount)
}

func TestPlaceOrderCouponCeiling(t *testing.T) {
	env := setupEnv(t)
	riceID, _ := env.seedMenu(t)

	require.NoError(t, env.couponRepo.Create(&models.Coupon{
		Code:          "ONCE",
		DiscountFixed: f64(5),
		MaxUses:       intp(1),
		IsActive:      true,
	}))

	order := func() models.PlaceOrderResult {
		resp := env.postJSON(t, "/api/v1/orders", models.PlaceOrderRequest{
			StudentID:  "stu-1",
			Items:      []models.CartLine{{MenuItemID: riceID, Quantity: 1}},
			CouponCode: "ONCE",
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var result models.PlaceOrderResult
		decodeBody(t, resp, &result)
		return result
	}

	first := order()
	assert.Equal(t, 5.00, first.Discount)

	second := order()
	assert.Equal(t, 0.00, second.Discount)
	assert.Nil(t, second.CouponCode)

	coupon, err := env.couponRepo.FindActiveByCode("ONCE")
	require.NoError(t, err)
	assert.Equal(t, 1, coupon.UsesCount)
}

func TestOrderListingAndStatus(t *testing.T) {
	env := setupEnv(t)
	riceID, _ := env.seedMenu(t)

	resp := env.postJSON(t, "/api/v1/orders", models.PlaceOrderRequest{
		StudentID: "stu-1",
		Items:     []models.CartLine{{MenuItemID: riceID, Quantity: 3}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var placed models.PlaceOrderResult
	decodeBody(t, resp, &placed)

	// Student view lists the order with resolved item names.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?student_id=stu-1", nil)
	listResp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, listResp.StatusCode)
	var orders []models.Order
	decodeBody(t, listResp, &orders)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Lines, 1)
	assert.Equal(t, "Chicken Rice", orders[0].Lines[0].ItemName)
	assert.Equal(t, 100.00, orders[0].Lines[0].PriceAtOrder)

	// Another student sees nothing.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders?student_id=stu-2", nil)
	listResp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	decodeBody(t, listResp, &orders)
	assert.Empty(t, orders)

	// Status transitions
	patch := func(id, status string) *http.Response {
		body, _ := json.Marshal(map[string]string{"status": status})
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+id+"/status", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	resp = patch(placed.OrderID, models.StatusPreparing)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = patch(placed.OrderID, "Teleported")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = patch("no-such-order", models.StatusPreparing)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+placed.OrderID, nil)
	getResp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	var order models.Order
	decodeBody(t, getResp, &order)
	assert.Equal(t, models.StatusPreparing, order.Status)
}

func TestCouponEndpoints(t *testing.T) {
	env := setupEnv(t)

	resp := env.postJSON(t, "/api/v1/coupons", map[string]interface{}{
		"code":                "WELCOME",
		"discount_percentage": 15,
		"is_active":           true,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Coupon
	decodeBody(t, resp, &created)
	assert.NotEmpty(t, created.ID)

	// Duplicate code
	resp = env.postJSON(t, "/api/v1/coupons", map[string]interface{}{
		"code":                "WELCOME",
		"discount_percentage": 20,
		"is_active":           true,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Both discount kinds at once
	resp = env.postJSON(t, "/api/v1/coupons", map[string]interface{}{
		"code":                "BOTH",
		"discount_percentage": 20,
		"discount_fixed":      5,
		"is_active":           true,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/coupons", nil)
	listResp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	var coupons []models.Coupon
	decodeBody(t, listResp, &coupons)
	assert.Len(t, coupons, 1)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/coupons/"+created.ID, nil)
	delResp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, delResp.StatusCode)
	delResp.Body.Close()

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/coupons/"+created.ID, nil)
	delResp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, delResp.StatusCode)
	delResp.Body.Close()
}

func TestMenuEndpoints(t *testing.T) {
	env := setupEnv(t)

	// Create with an image attachment
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("name", "Laksa"))
	require.NoError(t, writer.WriteField("description", "Spicy noodle soup"))
	require.NoError(t, writer.WriteField("price", "5.50"))
	part, err := writer.CreateFormFile("image", "laksa photo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("not-really-a-png"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/menu", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var item models.MenuItem
	decodeBody(t, resp, &item)
	assert.Equal(t, "Laksa", item.Name)
	assert.Equal(t, 5.50, item.Price)
	assert.True(t, item.IsAvailable)
	require.NotEmpty(t, item.ImagePath)
	_, err = os.Stat(filepath.Join(env.uploadDir, item.ImagePath))
	assert.NoError(t, err, "uploaded image should exist on disk")

	// Disallowed image extension
	buf.Reset()
	writer = multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("name", "Evil"))
	require.NoError(t, writer.WriteField("price", "1.00"))
	part, err = writer.CreateFormFile("image", "payload.exe")
	require.NoError(t, err)
	_, err = part.Write([]byte("nope"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req = httptest.NewRequest(http.MethodPost, "/api/v1/menu", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Mark unavailable, then check the availability filter
	buf.Reset()
	writer = multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("is_available", "false"))
	require.NoError(t, writer.Close())

	req = httptest.NewRequest(http.MethodPut, "/api/v1/menu/"+item.ID, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	req = httptest.NewRequest(http.MethodGet, "/api/v1/menu?available=true", nil)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	var available []models.MenuItem
	decodeBody(t, resp, &available)
	assert.Empty(t, available)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/menu", nil)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	var all []models.MenuItem
	decodeBody(t, resp, &all)
	assert.Len(t, all, 1)

	// Delete removes the row and the image file
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/menu/"+item.ID, nil)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	_, err = os.Stat(filepath.Join(env.uploadDir, item.ImagePath))
	assert.True(t, os.IsNotExist(err))
}
