package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// Catalog is the slice of the product service the cart needs: the
// current selling price, captured once at add time.
type Catalog interface {
	DiscountedPrice(productID int) (decimal.Decimal, error)
}

// Service orchestrates cart operations.
type Service struct {
	repo    Repository
	catalog Catalog
}

func NewService(repo Repository, catalog Catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// GetOrCreateCart returns the user's cart, creating it on first access.
func (s *Service) GetOrCreateCart(userID int) (View, error) {
	c, err := s.repo.GetOrCreate(userID)
	if err != nil {
		return View{}, err
	}
	lines, err := s.repo.Lines(c.ID)
	if err != nil {
		return View{}, err
	}
	return View{Cart: c, Lines: lines}, nil
}

// AddLine looks up the product's current discounted price and upserts
// the line. Repeated adds for the same product increment the quantity
// of the one existing line; the original price snapshot is kept.
func (s *Service) AddLine(userID, productID, qty int) (Line, error) {
	if qty <= 0 {
		return Line{}, ErrInvalidQuantity
	}
	price, err := s.catalog.DiscountedPrice(productID)
	if err != nil {
		return Line{}, err // product.ErrNotFound passes through
	}
	c, err := s.repo.GetOrCreate(userID)
	if err != nil {
		return Line{}, err
	}
	return s.repo.AddLine(c.ID, productID, qty, price)
}

// UpdateLine sets an absolute quantity; zero or below removes the line.
func (s *Service) UpdateLine(userID, productID, qty int) (Line, error) {
	c, err := s.repo.GetOrCreate(userID)
	if err != nil {
		return Line{}, err
	}
	if qty <= 0 {
		return Line{}, s.repo.RemoveLine(c.ID, productID)
	}
	return s.repo.UpdateLine(c.ID, productID, qty)
}

func (s *Service) RemoveLine(userID, productID int) error {
	c, err := s.repo.GetOrCreate(userID)
	if err != nil {
		return err
	}
	return s.repo.RemoveLine(c.ID, productID)
}

// Clear empties the user's cart (called after a successful checkout).
func (s *Service) Clear(userID int) error {
	c, err := s.repo.GetOrCreate(userID)
	if err != nil {
		return err
	}
	return s.repo.Clear(c.ID)
}

// Lines returns the user's current cart lines.
func (s *Service) Lines(userID int) ([]Line, error) {
	c, err := s.repo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	return s.repo.Lines(c.ID)
}
