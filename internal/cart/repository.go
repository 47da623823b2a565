package cart

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"
)

var (
	ErrLineNotFound = errors.New("cart line not found")
)

// Repository provides access to cart storage. AddLine must be atomic:
// adding the same (cart, product) pair twice increments the quantity of
// the single existing line, never creates a second one, and no
// increment may be lost under concurrent adds.
type Repository interface {
	GetOrCreate(userID int) (Cart, error)
	AddLine(cartID, productID, qty int, price decimal.Decimal) (Line, error)
	UpdateLine(cartID, productID, qty int) (Line, error)
	RemoveLine(cartID, productID int) error
	Lines(cartID int) ([]Line, error)
	Clear(cartID int) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu       sync.Mutex
	carts    map[int]Cart // by userID
	lines    map[int][]Line
	nextCart int
	nextLine int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		carts:    map[int]Cart{},
		lines:    map[int][]Line{},
		nextCart: 1,
		nextLine: 1,
	}
}

func (r *InMemoryRepository) GetOrCreate(userID int) (Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.carts[userID]; ok {
		return c, nil
	}
	c := Cart{ID: r.nextCart, UserID: userID}
	r.nextCart++
	r.carts[userID] = c
	return c, nil
}

func (r *InMemoryRepository) AddLine(cartID, productID, qty int, price decimal.Decimal) (Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.lines[cartID] {
		if l.ProductID == productID {
			l.Quantity += qty
			r.lines[cartID][i] = l
			return l, nil
		}
	}
	l := Line{ID: r.nextLine, CartID: cartID, ProductID: productID, Quantity: qty, PriceAtAddition: price}
	r.nextLine++
	r.lines[cartID] = append(r.lines[cartID], l)
	return l, nil
}

func (r *InMemoryRepository) UpdateLine(cartID, productID, qty int) (Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.lines[cartID] {
		if l.ProductID == productID {
			l.Quantity = qty
			r.lines[cartID][i] = l
			return l, nil
		}
	}
	return Line{}, ErrLineNotFound
}

func (r *InMemoryRepository) RemoveLine(cartID, productID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.lines[cartID] {
		if l.ProductID == productID {
			r.lines[cartID] = append(r.lines[cartID][:i], r.lines[cartID][i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

func (r *InMemoryRepository) Lines(cartID int) ([]Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Line, len(r.lines[cartID]))
	copy(out, r.lines[cartID])
	return out, nil
}

func (r *InMemoryRepository) Clear(cartID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[cartID] = nil
	return nil
}
