package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

var ErrNoUserInCtx = errors.New("no authenticated user in context")

// GetUserIDFromCtx extracts the authenticated user's id from the JWT
// stored by the jwt middleware. Handlers use this instead of any global
// current-user lookup.
func GetUserIDFromCtx(c *fiber.Ctx) (int, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return 0, ErrNoUserInCtx
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrNoUserInCtx
	}
	raw, ok := claims["user_id"]
	if !ok {
		return 0, ErrNoUserInCtx
	}
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	}
	return 0, ErrNoUserInCtx
}
