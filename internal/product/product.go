package product

import (
	"github.com/shopspring/decimal"
)

// Product represents an item in the catalog and maps to the
// `public.products` table. Prices are fixed-point with 2 decimals.
type Product struct {
	ID           int             `json:"productId"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Manufacturer string          `json:"manufacturer,omitempty"`
	// OriginalPrice is the list price before any discount.
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	// Discount is a whole percentage (10 = 10% off).
	Discount  decimal.Decimal `json:"discount"`
	Stock     int             `json:"stock"`
	CreatedAt string          `json:"createdAt,omitempty"`
	UpdatedAt string          `json:"updatedAt,omitempty"`
}

var oneHundred = decimal.NewFromInt(100)

// DiscountedPrice is the price the store currently charges:
// original × (1 − discount/100), rounded to 2 decimal places.
func (p Product) DiscountedPrice() decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(p.Discount.Div(oneHundred))
	return p.OriginalPrice.Mul(factor).Round(2)
}
