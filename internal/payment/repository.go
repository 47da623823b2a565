package payment

import (
	"sync"
)

// Repository provides access to payment storage. GetOrCreate must be a
// single atomic operation keyed on the payments.order_id unique
// constraint; ApplySuccess must commit the payment and order transition
// as one unit so a crash can never leave them half-applied.
type Repository interface {
	// GetOrCreate inserts the candidate payment or, if one already
	// exists for the order, refreshes its payer fields, amount,
	// gateway and currency in place. The stored row is returned: an
	// existing row keeps its original order number, booking reference
	// and status.
	GetOrCreate(p Payment) (Payment, error)
	GetByOrderID(orderID int) (Payment, error)
	GetByTransactionID(trx string) (Payment, error)
	SetTransactionID(id int, trx string) error
	UpdateStatus(id int, status string) error
	// ApplySuccess marks the payment successful and the order paid in
	// one atomic unit. Already-successful payments are a no-op; an
	// order that is already paid is not re-transitioned.
	ApplySuccess(paymentID, orderID int) error
}

// InMemoryRepository is used for tests and local scenarios. Order
// statuses are tracked in a caller-supplied map so ApplySuccess can
// mirror the transactional payment+order transition.
type InMemoryRepository struct {
	mu          sync.Mutex
	payments    map[int]Payment
	byOrder     map[int]int
	orderStatus map[int]string
	nextID      int
}

func NewInMemoryRepository(orderStatus map[int]string) *InMemoryRepository {
	if orderStatus == nil {
		orderStatus = map[int]string{}
	}
	return &InMemoryRepository{
		payments:    map[int]Payment{},
		byOrder:     map[int]int{},
		orderStatus: orderStatus,
		nextID:      1,
	}
}

func (r *InMemoryRepository) GetOrCreate(p Payment) (Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byOrder[p.OrderID]; ok {
		existing := r.payments[id]
		existing.PayerID = p.PayerID
		existing.PayerEmail = p.PayerEmail
		existing.PayerPhone = p.PayerPhone
		existing.Amount = p.Amount
		existing.Gateway = p.Gateway
		existing.Currency = p.Currency
		r.payments[id] = existing
		return existing, nil
	}
	p.ID = r.nextID
	r.nextID++
	if p.Status == "" {
		p.Status = StatusPending
	}
	r.payments[p.ID] = p
	r.byOrder[p.OrderID] = p.ID
	return p, nil
}

func (r *InMemoryRepository) GetByOrderID(orderID int) (Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byOrder[orderID]; ok {
		return r.payments[id], nil
	}
	return Payment{}, ErrNotFound
}

func (r *InMemoryRepository) GetByTransactionID(trx string) (Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.TransactionID != nil && *p.TransactionID == trx {
			return p, nil
		}
	}
	return Payment{}, ErrNotFound
}

func (r *InMemoryRepository) SetTransactionID(id int, trx string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return ErrNotFound
	}
	p.TransactionID = &trx
	r.payments[id] = p
	return nil
}

func (r *InMemoryRepository) UpdateStatus(id int, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return ErrNotFound
	}
	p.Status = status
	r.payments[id] = p
	return nil
}

func (r *InMemoryRepository) ApplySuccess(paymentID, orderID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[paymentID]
	if !ok {
		return ErrNotFound
	}
	if p.Status == StatusSuccessful {
		return nil
	}
	p.Status = StatusSuccessful
	r.payments[paymentID] = p
	if r.orderStatus[orderID] != "paid" {
		r.orderStatus[orderID] = "paid"
	}
	return nil
}
