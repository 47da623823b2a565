package user

import (
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func makeUserApp() (*fiber.App, *Handler) {
	h := NewHandler(NewService(NewInMemoryRepository(nil)))
	app := fiber.New()
	h.RegisterPublicRoutes(app)
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
	return app, h
}

func signUp(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/sign-up", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return res.StatusCode
}

func TestSignUpAndSignIn(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app, _ := makeUserApp()

	if code := signUp(t, app, `{"email":"jane@example.com","password":"s3cret","firstName":"Jane"}`); code != fiber.StatusCreated {
		t.Fatalf("expected 201 for sign-up, got %d", code)
	}

	// a second registration with the same email conflicts
	if code := signUp(t, app, `{"email":"jane@example.com","password":"other"}`); code != fiber.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", code)
	}

	// wrong password is rejected
	req := httptest.NewRequest("POST", "/api/v1/sign-in", strings.NewReader(`{"email":"jane@example.com","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req, -1)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", res.StatusCode)
	}

	// correct credentials return a token and never the password hash
	req2 := httptest.NewRequest("POST", "/api/v1/sign-in", strings.NewReader(`{"email":"jane@example.com","password":"s3cret"}`))
	req2.Header.Set("Content-Type", "application/json")
	res2, _ := app.Test(req2, -1)
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for sign-in, got %d", res2.StatusCode)
	}
	b, _ := io.ReadAll(res2.Body)
	if !strings.Contains(string(b), "token") {
		t.Fatalf("expected a token in response, got %s", string(b))
	}
	if strings.Contains(string(b), "$2a$") {
		t.Fatalf("password hash leaked: %s", string(b))
	}
}

func TestSignUp_MissingFields(t *testing.T) {
	app, _ := makeUserApp()
	if code := signUp(t, app, `{"email":"","password":""}`); code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", code)
	}
}

func TestProfile(t *testing.T) {
	app, _ := makeUserApp()

	if code := signUp(t, app, `{"email":"jane@example.com","password":"s3cret","firstName":"Jane","phone":"0700000000"}`); code != fiber.StatusCreated {
		t.Fatalf("sign-up failed: %d", code)
	}

	// without a token the profile is unreachable
	req := httptest.NewRequest("GET", "/api/v1/profile", nil)
	res, _ := app.Test(req, -1)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}

	req2 := httptest.NewRequest("GET", "/api/v1/profile", nil)
	req2.Header.Set("X-User-ID", "1")
	res2, _ := app.Test(req2, -1)
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res2.StatusCode)
	}
	b, _ := io.ReadAll(res2.Body)
	if !strings.Contains(string(b), "jane@example.com") {
		t.Fatalf("unexpected profile body %s", string(b))
	}

	// partial update keeps untouched fields
	req3 := httptest.NewRequest("PATCH", "/api/v1/profile", strings.NewReader(`{"lastName":"Doe"}`))
	req3.Header.Set("Content-Type", "application/json")
	req3.Header.Set("X-User-ID", "1")
	res3, _ := app.Test(req3, -1)
	if res3.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for update, got %d", res3.StatusCode)
	}
	b3, _ := io.ReadAll(res3.Body)
	if !strings.Contains(string(b3), `"lastName":"Doe"`) || !strings.Contains(string(b3), `"firstName":"Jane"`) {
		t.Fatalf("partial update lost fields: %s", string(b3))
	}
}
