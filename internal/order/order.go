package order

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Order statuses. pending → paid → shipped → delivered; pending → cancelled.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

var transitions = map[string][]string{
	StatusPending: {StatusPaid, StatusCancelled},
	StatusPaid:    {StatusShipped},
	StatusShipped: {StatusDelivered},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Order is a checkout result. TotalAmount is always the sum of its own
// lines' price_at_purchase × quantity as last recalculated; it is never
// re-derived from live catalog prices.
type Order struct {
	ID                int             `json:"orderId"`
	UserID            int             `json:"userId"`
	Status            string          `json:"status"`
	ShippingAddressID *int            `json:"shippingAddressId,omitempty"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	CreatedAt         string          `json:"createdAt,omitempty"`
	UpdatedAt         string          `json:"updatedAt,omitempty"`
}

// Line is one (order, product) pair with the price frozen at creation.
type Line struct {
	ID              int             `json:"lineId"`
	OrderID         int             `json:"orderId"`
	ProductID       int             `json:"productId"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
}

// StateConflictError is returned when an operation is not allowed in the
// order's current status; the message names the conflicting status.
type StateConflictError struct {
	OrderID int
	Status  string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("order %d has already been %s", e.OrderID, e.Status)
}
