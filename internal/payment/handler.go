package payment

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ateliernoir/storefront-backend/internal/order"
	"github.com/ateliernoir/storefront-backend/internal/user"
)

// Handler delegates payment operations to the payment service.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	// verify is the gateway callback target, so it stays public
	app.Get("/api/v1/payments/verify", h.verifyPayment)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/payments/initiate", h.initiatePayment)
}

// initiateRequest accepts both the wire names (order, phone_number)
// and their camelCase aliases.
type initiateRequest struct {
	Order      int    `json:"order"`
	OrderID    int    `json:"orderId"`
	Gateway    string `json:"gateway"`
	Email      string `json:"email"`
	Phone      string `json:"phone_number"`
	PhoneAlias string `json:"phoneNumber"`
}

func (r *initiateRequest) orderID() int {
	if r.Order > 0 {
		return r.Order
	}
	return r.OrderID
}

func (r *initiateRequest) phone() string {
	if r.Phone != "" {
		return r.Phone
	}
	return r.PhoneAlias
}

func (h *Handler) initiatePayment(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(initiateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.orderID() <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "order required"})
	}

	res, err := h.service.Initiate(c.Context(), userID, InitiateInput{
		OrderID: payload.orderID(),
		Gateway: payload.Gateway,
		Email:   payload.Email,
		Phone:   payload.phone(),
	})
	if err != nil {
		var conflict *order.StateConflictError
		var gwErr *GatewayError
		switch {
		case errors.Is(err, order.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case errors.Is(err, ErrUnknownGateway):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.As(err, &conflict):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": conflict.Error()})
		case errors.As(err, &gwErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   gwErr.Error(),
				"gateway": gwErr.Gateway,
				"details": json.RawMessage(gwErr.Payload),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(res)
}

func (h *Handler) verifyPayment(c *fiber.Ctx) error {
	reference := c.Query("trx_ref")
	if reference == "" {
		reference = c.Query("reference")
	}

	p, err := h.service.Verify(c.Context(), reference)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingReference):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "payment not found"})
		case errors.Is(err, ErrPaymentPending):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "payment": p})
		case errors.Is(err, ErrPaymentFailed):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "payment": p})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"message": "payment verified successfully", "payment": p})
}
