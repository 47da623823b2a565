package payment

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Payment statuses. pending → successful | failed | cancelled;
// successful → refunded happens through a separate flow not exposed here.
const (
	StatusPending    = "pending"
	StatusSuccessful = "successful"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"
	StatusRefunded   = "refunded"
)

var (
	ErrNotFound         = errors.New("payment not found")
	ErrMissingReference = errors.New("trx_ref required")
	ErrPaymentFailed    = errors.New("payment failed")
	ErrPaymentPending   = errors.New("payment is still pending")
)

// Payment is one funds-collection attempt, tied 1:1 to an order.
// The row is mutated, never replaced, across repeated initiate calls:
// the unique constraint on order_id makes concurrent initiates converge
// on a single row, and OrderNumber / BookingReference are assigned once
// at creation and survive every retry.
type Payment struct {
	ID         int    `json:"paymentId"`
	OrderID    int    `json:"orderId"`
	PayerID    *int   `json:"payerId,omitempty"`
	PayerEmail string `json:"payerEmail,omitempty"`
	PayerPhone string `json:"payerPhone,omitempty"`

	Amount  decimal.Decimal `json:"amount"`
	Status  string          `json:"status"`
	Gateway string          `json:"gateway"`

	// TransactionID is the provider-facing transaction reference; nil
	// until the provider accepts the initialize call.
	TransactionID *string `json:"transactionId,omitempty"`
	// OrderNumber is the gateway-facing reference sent on initialize.
	// It doubles as the idempotency key toward the provider.
	OrderNumber string `json:"orderNumber"`
	// BookingReference is minted once at creation and never changes.
	BookingReference string `json:"bookingReference"`

	Currency  string `json:"currency"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}
