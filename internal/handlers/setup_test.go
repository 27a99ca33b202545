package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"tokohp/internal/handlers"
	"tokohp/internal/middleware"
	"tokohp/internal/models"
	"tokohp/internal/repositories"
	"tokohp/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "password123"

// testEnv is a full application wired over in-memory repositories, with the
// same route and middleware layout as main.go.
type testEnv struct {
	app      *fiber.App
	users    *repositories.MockUserRepository
	products *repositories.MockProductRepository
	orders   *repositories.MockOrderRepository
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	users := repositories.NewMockUserRepository()
	products := repositories.NewMockProductRepository()
	orders := repositories.NewMockOrderRepository(products)

	authService := services.NewAuthService(users, "test-secret")
	productService := services.NewProductService(products)
	checkoutService := services.NewCheckoutService(orders, products, users, nil)
	orderService := services.NewOrderService(orders, nil)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)
	handlers.NewProductHandler(productService).RegisterRoutes(apiV1,
		middleware.AuthRequired(authService), middleware.AdminRequired())

	authed := apiV1.Group("", middleware.AuthRequired(authService))
	handlers.NewCheckoutHandler(checkoutService).RegisterRoutes(authed)
	handlers.NewOrderHandler(orderService).RegisterRoutes(authed, middleware.AdminRequired())

	return &testEnv{
		app:      app,
		users:    users,
		products: products,
		orders:   orders,
	}
}

// seedUser inserts a user with a known password, bypassing the register
// endpoint so tests can also create admins.
func (e *testEnv) seedUser(t *testing.T, name, email, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}
	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	if err := e.users.Create(user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

// seedPhone inserts one listing with a 128GB/Like New variant (stock 10) and
// a 256GB/Good variant (stock 5).
func (e *testEnv) seedPhone(t *testing.T) *models.Product {
	t.Helper()

	product := &models.Product{
		SKU:   "IP13-USED",
		Slug:  "iphone-13",
		Name:  "iPhone 13",
		Brand: "Apple",
		Model: "A2633",
		Variants: []models.Variant{
			{
				Price:         decimal.RequireFromString("199.99"),
				StockQuantity: 10,
				Storage:       "128GB",
				Condition:     "Like New",
			},
			{
				Price:         decimal.RequireFromString("249.99"),
				StockQuantity: 5,
				Storage:       "256GB",
				Condition:     "Good",
			},
		},
	}
	if err := e.products.Create(product); err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return product
}

// login obtains a JWT through the real login endpoint.
func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()

	resp := e.request(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email":    email,
		"password": testPassword,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login for %s returned status %d", email, resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	if body.Token == "" {
		t.Fatalf("login for %s returned no token", email)
	}
	return body.Token
}

func (e *testEnv) request(t *testing.T, method, path, token string, payload interface{}) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal request payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

// checkoutPayload builds a valid submission for two 128GB/Like New units.
func checkoutPayload(userID string, product *models.Product, reference string) fiber.Map {
	return fiber.Map{
		"user_id":         userID,
		"order_reference": reference,
		"shipping_method": "standard",
		"payment_method":  "credit",
		"shipping_address": fiber.Map{
			"full_name":    "John Doe",
			"address_line": "123 Main St",
			"city":         "New York",
			"state":        "NY",
			"postal_code":  "10001",
			"country":      "United States",
			"email":        "john.doe@example.com",
			"phone_number": "+1 555 123 4567",
		},
		"items": []fiber.Map{
			{
				"product_id": product.ID,
				"quantity":   2,
				"storage":    "128GB",
				"condition":  "Like New",
			},
		},
	}
}
