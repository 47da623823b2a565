package product

import "github.com/shopspring/decimal"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() []Product {
	return s.repo.List()
}

func (s *Service) GetByID(id int) (Product, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListByIDs(ids []int) ([]Product, error) {
	return s.repo.ListByIDs(ids)
}

func (s *Service) Create(p Product) (Product, error) {
	return s.repo.Create(p)
}

// DiscountedPrice resolves the current selling price for a product.
// Cart and order use this; a captured price is never re-resolved.
func (s *Service) DiscountedPrice(productID int) (decimal.Decimal, error) {
	p, err := s.repo.GetByID(productID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return p.DiscountedPrice(), nil
}

// DiscountedPrices resolves selling prices for a set of products in one
// catalog lookup. Every requested id must exist.
func (s *Service) DiscountedPrices(productIDs []int) (map[int]decimal.Decimal, error) {
	products, err := s.repo.ListByIDs(productIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[int]decimal.Decimal, len(products))
	for _, p := range products {
		out[p.ID] = p.DiscountedPrice()
	}
	for _, id := range productIDs {
		if _, ok := out[id]; !ok {
			return nil, ErrNotFound
		}
	}
	return out, nil
}
