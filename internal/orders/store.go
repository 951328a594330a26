package orders

import (
	"context"
	"sync"
	"time"
)

// Store is the in-memory order record store.
type Store struct {
	mu     sync.RWMutex
	orders map[int64]*Order
	nextID int64
}

// NewStore creates an empty order store.
func NewStore() *Store {
	return &Store{orders: make(map[int64]*Order)}
}

// Create persists a new order and assigns its id.
func (s *Store) Create(ctx context.Context, order *Order) (*Order, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	order.ID = s.nextID
	s.orders[order.ID] = cloneOrder(order)
	return cloneOrder(order), nil
}

// Get returns the order with the given id.
func (s *Store) Get(ctx context.Context, id int64) (*Order, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneOrder(o), nil
}

// SetStatus applies an administrative status change, enforcing the
// transition whitelist.
func (s *Store) SetStatus(ctx context.Context, id int64, status Status) (*Order, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !CanTransition(o.Status, status) {
		return nil, ErrInvalidTransition
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	return cloneOrder(o), nil
}

// Count returns the number of stored orders.
func (s *Store) Count(ctx context.Context) int {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

func cloneOrder(o *Order) *Order {
	if o == nil {
		return nil
	}
	clone := *o
	return &clone
}
