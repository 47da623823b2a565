package address

import (
	"errors"
	"sync"
)

var (
	ErrNotFound = errors.New("address not found")
)

type Repository interface {
	GetAddresses(userID int) ([]Address, error)
	GetAddress(userID, addressID int) (Address, error)
	AddAddress(userID int, addressDesc, phone, addressName string) (Address, error)
	UpdateAddress(userID, addressID int, addressDesc, phone, addressName string) (Address, error)
	DeleteAddress(userID, addressID int) error
}

// InMemoryRepository for tests.
type InMemoryRepository struct {
	mu     sync.Mutex
	data   map[int][]Address // keyed by userID
	nextID int
}

func NewInMemoryRepository(seed map[int][]Address) *InMemoryRepository {
	r := &InMemoryRepository{data: map[int][]Address{}, nextID: 1}
	for userID, addrs := range seed {
		r.data[userID] = append(r.data[userID], addrs...)
		for _, a := range addrs {
			if a.AddressID >= r.nextID {
				r.nextID = a.AddressID + 1
			}
		}
	}
	return r
}

func (r *InMemoryRepository) GetAddresses(userID int) ([]Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Address, len(r.data[userID]))
	copy(out, r.data[userID])
	return out, nil
}

func (r *InMemoryRepository) GetAddress(userID, addressID int) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.data[userID] {
		if a.AddressID == addressID {
			return a, nil
		}
	}
	return Address{}, ErrNotFound
}

func (r *InMemoryRepository) AddAddress(userID int, addressDesc, phone, addressName string) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	addr := Address{
		AddressID:   r.nextID,
		UserID:      userID,
		AddressDesc: addressDesc,
		Phone:       phone,
		AddressName: addressName,
	}
	r.nextID++
	r.data[userID] = append(r.data[userID], addr)
	return addr, nil
}

func (r *InMemoryRepository) UpdateAddress(userID, addressID int, addressDesc, phone, addressName string) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.data[userID] {
		if a.AddressID == addressID {
			a.AddressDesc = addressDesc
			a.Phone = phone
			a.AddressName = addressName
			r.data[userID][i] = a
			return a, nil
		}
	}
	return Address{}, ErrNotFound
}

func (r *InMemoryRepository) DeleteAddress(userID, addressID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.data[userID] {
		if a.AddressID == addressID {
			r.data[userID] = append(r.data[userID][:i], r.data[userID][i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
