package cart

import (
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"

	"github.com/ateliernoir/storefront-backend/internal/product"
)

type stubCatalog struct {
	prices map[int]string
}

func (s *stubCatalog) DiscountedPrice(productID int) (decimal.Decimal, error) {
	p, ok := s.prices[productID]
	if !ok {
		return decimal.Decimal{}, product.ErrNotFound
	}
	return decimal.RequireFromString(p), nil
}

func makeAppWithCartHandler(h *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			id, err := strconv.Atoi(v)
			if err == nil {
				claims := jwt.MapClaims{"user_id": id}
				tok := &jwt.Token{Claims: claims}
				c.Locals("user", tok)
			}
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func newCartApp() *fiber.App {
	catalog := &stubCatalog{prices: map[int]string{1: "10.00", 3: "4.50"}}
	service := NewService(NewInMemoryRepository(), catalog)
	return makeAppWithCartHandler(NewHandler(service))
}

func TestCartRoutes_Basic(t *testing.T) {
	app := newCartApp()

	// unauthorized access should be blocked
	req := httptest.NewRequest("GET", "/api/v1/cart", nil)
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated GET, got %d", res.StatusCode)
	}

	// authorized GET creates the cart lazily and returns JSON
	req2 := httptest.NewRequest("GET", "/api/v1/cart", nil)
	req2.Header.Set("X-User-ID", "42")
	res2, _ := app.Test(req2)
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for authenticated GET, got %d", res2.StatusCode)
	}
	b2, _ := io.ReadAll(res2.Body)
	if !strings.Contains(string(b2), `"lines":[]`) {
		t.Fatalf("expected an empty cart, got %s", string(b2))
	}
}

func TestCartRoutes_AddLineConverges(t *testing.T) {
	app := newCartApp()

	// add a product
	req := httptest.NewRequest("POST", "/api/v1/cart/lines", strings.NewReader(`{"productId":3,"quantity":2}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for add, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), `"quantity":2`) {
		t.Fatalf("expected quantity 2, got %s", string(b))
	}
	if !strings.Contains(string(b), `"priceAtAddition":"4.5"`) {
		t.Fatalf("expected price snapshot, got %s", string(b))
	}

	// adding the same product again increments the one existing line
	req2 := httptest.NewRequest("POST", "/api/v1/cart/lines", strings.NewReader(`{"productId":3,"quantity":1}`))
	req2.Header.Set("Content-Type", "application/json")
	req2.Header.Set("X-User-ID", "42")
	res2, _ := app.Test(req2)
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for second add, got %d", res2.StatusCode)
	}
	b2, _ := io.ReadAll(res2.Body)
	if !strings.Contains(string(b2), `"quantity":3`) {
		t.Fatalf("expected quantity 3 after second add, got %s", string(b2))
	}

	// the cart view shows a single line
	req3 := httptest.NewRequest("GET", "/api/v1/cart", nil)
	req3.Header.Set("X-User-ID", "42")
	res3, _ := app.Test(req3)
	b3, _ := io.ReadAll(res3.Body)
	if strings.Count(string(b3), `"productId":3`) != 1 {
		t.Fatalf("expected exactly one line for the product, got %s", string(b3))
	}
}

func TestCartRoutes_UnknownProduct(t *testing.T) {
	app := newCartApp()

	req := httptest.NewRequest("POST", "/api/v1/cart/lines", strings.NewReader(`{"productId":999,"quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", res.StatusCode)
	}
}

func TestCartRoutes_UpdateAndRemove(t *testing.T) {
	app := newCartApp()

	req := httptest.NewRequest("POST", "/api/v1/cart/lines", strings.NewReader(`{"productId":1,"quantity":2}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	if res, _ := app.Test(req); res.StatusCode != fiber.StatusOK {
		t.Fatalf("seeding cart failed: %d", res.StatusCode)
	}

	// set an absolute quantity
	req2 := httptest.NewRequest("PATCH", "/api/v1/cart/lines/1", strings.NewReader(`{"quantity":5}`))
	req2.Header.Set("Content-Type", "application/json")
	req2.Header.Set("X-User-ID", "42")
	res2, _ := app.Test(req2)
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for update, got %d", res2.StatusCode)
	}
	b2, _ := io.ReadAll(res2.Body)
	if !strings.Contains(string(b2), `"quantity":5`) {
		t.Fatalf("expected quantity 5, got %s", string(b2))
	}

	// zero removes the line
	req3 := httptest.NewRequest("PATCH", "/api/v1/cart/lines/1", strings.NewReader(`{"quantity":0}`))
	req3.Header.Set("Content-Type", "application/json")
	req3.Header.Set("X-User-ID", "42")
	res3, _ := app.Test(req3)
	if res3.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204 for zero quantity, got %d", res3.StatusCode)
	}

	// removing again is a 404
	req4 := httptest.NewRequest("DELETE", "/api/v1/cart/lines/1", nil)
	req4.Header.Set("X-User-ID", "42")
	res4, _ := app.Test(req4)
	if res4.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for missing line, got %d", res4.StatusCode)
	}
}

func TestCartRoutes_Clear(t *testing.T) {
	app := newCartApp()

	req := httptest.NewRequest("POST", "/api/v1/cart/lines", strings.NewReader(`{"productId":1,"quantity":2}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	if res, _ := app.Test(req); res.StatusCode != fiber.StatusOK {
		t.Fatalf("seeding cart failed: %d", res.StatusCode)
	}

	req2 := httptest.NewRequest("DELETE", "/api/v1/cart", nil)
	req2.Header.Set("X-User-ID", "42")
	res2, _ := app.Test(req2)
	if res2.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204 for clear, got %d", res2.StatusCode)
	}

	req3 := httptest.NewRequest("GET", "/api/v1/cart", nil)
	req3.Header.Set("X-User-ID", "42")
	res3, _ := app.Test(req3)
	b3, _ := io.ReadAll(res3.Body)
	if !strings.Contains(string(b3), `"lines":[]`) {
		t.Fatalf("expected an empty cart after clear, got %s", string(b3))
	}
}
