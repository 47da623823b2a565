package order

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("order not found")
	ErrLineNotFound = errors.New("order line not found")
)

// Repository defines persistence operations for orders. Create must
// write the order and all of its lines in one all-or-nothing unit so a
// partial order is never observable.
type Repository interface {
	Create(o Order, lines []Line) (Order, []Line, error)
	GetByID(id int) (Order, []Line, error)
	ListByUser(userID int) ([]Order, error)
	// UpdateStatusIf moves id from one status to another and reports
	// whether a row actually changed (false on status mismatch).
	UpdateStatusIf(id int, fromStatus, toStatus string) (bool, error)
	// RecalculateTotal re-derives the total strictly from the order's
	// own lines. Safe to call repeatedly.
	RecalculateTotal(id int) (decimal.Decimal, error)
	RemoveLine(orderID, productID int) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.Mutex
	orders map[int]Order
	lines  map[int][]Line
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{orders: map[int]Order{}, lines: map[int][]Line{}, nextID: 1}
}

func (r *InMemoryRepository) Create(o Order, lines []Line) (Order, []Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = r.nextID
	r.nextID++
	if o.Status == "" {
		o.Status = StatusPending
	}
	r.orders[o.ID] = o
	stored := make([]Line, 0, len(lines))
	for i, l := range lines {
		l.ID = i + 1
		l.OrderID = o.ID
		stored = append(stored, l)
	}
	r.lines[o.ID] = stored
	out := make([]Line, len(stored))
	copy(out, stored)
	return o, out, nil
}

func (r *InMemoryRepository) GetByID(id int) (Order, []Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return Order{}, nil, ErrNotFound
	}
	out := make([]Line, len(r.lines[id]))
	copy(out, r.lines[id])
	return o, out, nil
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Order, 0)
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) UpdateStatusIf(id int, fromStatus, toStatus string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.Status != fromStatus {
		return false, nil
	}
	o.Status = toStatus
	r.orders[id] = o
	return true, nil
}

func (r *InMemoryRepository) RecalculateTotal(id int) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return decimal.Decimal{}, ErrNotFound
	}
	total := decimal.Zero
	for _, l := range r.lines[id] {
		total = total.Add(l.PriceAtPurchase.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	o.TotalAmount = total.Round(2)
	r.orders[id] = o
	return o.TotalAmount, nil
}

func (r *InMemoryRepository) RemoveLine(orderID, productID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.lines[orderID] {
		if l.ProductID == productID {
			r.lines[orderID] = append(r.lines[orderID][:i], r.lines[orderID][i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}
