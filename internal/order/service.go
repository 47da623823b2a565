package order

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/ateliernoir/storefront-backend/internal/cart"
)

var (
	ErrEmptyOrder = errors.New("order has no lines")
)

// Catalog resolves current discounted prices for a batch of products in
// one lookup. It is consulted exactly once per order creation; the
// resulting prices are frozen on the lines and never re-resolved.
type Catalog interface {
	DiscountedPrices(productIDs []int) (map[int]decimal.Decimal, error)
}

// CartStore is the slice of the cart service the order service needs for
// checkout-from-cart.
type CartStore interface {
	Lines(userID int) ([]cart.Line, error)
	Clear(userID int) error
}

// LineInput is a requested order line before pricing.
type LineInput struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// Service provides business logic for orders.
type Service struct {
	repo    Repository
	catalog Catalog
	carts   CartStore
}

func NewService(repo Repository, catalog Catalog, carts CartStore) *Service {
	return &Service{repo: repo, catalog: catalog, carts: carts}
}

// Create assembles an order from explicit lines. Each product's price is
// resolved once, frozen as price-at-purchase, and the total computed as
// the sum over the persisted lines. The order and its lines are written
// in one all-or-nothing transaction by the repository.
func (s *Service) Create(userID int, inputs []LineInput, shippingAddressID *int) (Order, []Line, error) {
	if userID <= 0 {
		return Order{}, nil, ErrNotFound
	}
	if len(inputs) == 0 {
		return Order{}, nil, ErrEmptyOrder
	}

	ids := make([]int, 0, len(inputs))
	for _, in := range inputs {
		if in.Quantity <= 0 {
			return Order{}, nil, ErrEmptyOrder
		}
		ids = append(ids, in.ProductID)
	}
	prices, err := s.catalog.DiscountedPrices(ids)
	if err != nil {
		return Order{}, nil, err
	}

	lines := make([]Line, 0, len(inputs))
	total := decimal.Zero
	for _, in := range inputs {
		price := prices[in.ProductID]
		lines = append(lines, Line{
			ProductID:       in.ProductID,
			Quantity:        in.Quantity,
			PriceAtPurchase: price,
		})
		total = total.Add(price.Mul(decimal.NewFromInt(int64(in.Quantity))))
	}

	o := Order{
		UserID:            userID,
		Status:            StatusPending,
		ShippingAddressID: shippingAddressID,
		TotalAmount:       total.Round(2),
	}
	return s.repo.Create(o, lines)
}

// CreateFromCart assembles an order from the user's cart lines, then
// clears the cart. Prices are re-resolved from the catalog at creation
// time; the cart's snapshots only served the staging view.
func (s *Service) CreateFromCart(userID int, shippingAddressID *int) (Order, []Line, error) {
	cartLines, err := s.carts.Lines(userID)
	if err != nil {
		return Order{}, nil, err
	}
	inputs := make([]LineInput, 0, len(cartLines))
	for _, cl := range cartLines {
		inputs = append(inputs, LineInput{ProductID: cl.ProductID, Quantity: cl.Quantity})
	}

	o, lines, err := s.Create(userID, inputs, shippingAddressID)
	if err != nil {
		return Order{}, nil, err
	}
	if err := s.carts.Clear(userID); err != nil {
		// the order exists; a stale cart is an inconvenience, not a failure
		return o, lines, nil
	}
	return o, lines, nil
}

func (s *Service) Get(id int) (Order, error) {
	o, _, err := s.repo.GetByID(id)
	return o, err
}

func (s *Service) GetWithLines(id int) (Order, []Line, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListByUser(userID int) ([]Order, error) {
	return s.repo.ListByUser(userID)
}

// RecalculateTotal re-derives the total from the order's own lines.
// Idempotent; calling it twice yields the same total.
func (s *Service) RecalculateTotal(orderID int) (decimal.Decimal, error) {
	return s.repo.RecalculateTotal(orderID)
}

// RemoveLine deletes a line and recalculates the total so the order's
// invariant (total == sum of its lines) holds again.
func (s *Service) RemoveLine(orderID, productID int) (decimal.Decimal, error) {
	if err := s.repo.RemoveLine(orderID, productID); err != nil {
		return decimal.Decimal{}, err
	}
	return s.repo.RecalculateTotal(orderID)
}

// MarkPaid transitions the order to paid unless it already is.
// Used by payment reconciliation's in-memory path; the Postgres path
// commits the same transition inside the payment transaction.
func (s *Service) MarkPaid(orderID int) error {
	_, err := s.repo.UpdateStatusIf(orderID, StatusPending, StatusPaid)
	return err
}

// Cancel moves a pending order to cancelled.
func (s *Service) Cancel(orderID int) error {
	o, _, err := s.repo.GetByID(orderID)
	if err != nil {
		return err
	}
	if !CanTransition(o.Status, StatusCancelled) {
		return &StateConflictError{OrderID: o.ID, Status: o.Status}
	}
	ok, err := s.repo.UpdateStatusIf(orderID, o.Status, StatusCancelled)
	if err != nil {
		return err
	}
	if !ok {
		// lost the race to another transition; report the fresh status
		fresh, _, err := s.repo.GetByID(orderID)
		if err != nil {
			return err
		}
		return &StateConflictError{OrderID: fresh.ID, Status: fresh.Status}
	}
	return nil
}
