package cart

import (
	"github.com/shopspring/decimal"
)

// Cart is a user's staging area of prospective purchase lines.
// There is exactly one cart per user; it is created on first access.
type Cart struct {
	ID        int    `json:"cartId"`
	UserID    int    `json:"userId"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Line is one (cart, product) pair. The price is snapshotted when the
// product is first added and kept as-is on later quantity changes.
type Line struct {
	ID              int             `json:"lineId"`
	CartID          int             `json:"cartId"`
	ProductID       int             `json:"productId"`
	Quantity        int             `json:"quantity"`
	PriceAtAddition decimal.Decimal `json:"priceAtAddition"`
	CreatedAt       string          `json:"createdAt,omitempty"`
	UpdatedAt       string          `json:"updatedAt,omitempty"`
}

// View is what the cart endpoints return: the cart plus its lines.
type View struct {
	Cart  Cart   `json:"cart"`
	Lines []Line `json:"lines"`
}
