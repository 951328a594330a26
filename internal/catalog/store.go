package catalog

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Store is the in-memory product store. Reservations serialize on the store
// mutex so concurrent reserves for one product uphold the stock invariant.
type Store struct {
	mu       sync.RWMutex
	products map[int64]*Product
	nextID   int64
}

// NewStore creates an empty product store.
func NewStore() *Store {
	return &Store{products: make(map[int64]*Product)}
}

// List returns all products ordered by id.
func (s *Store) List(ctx context.Context) ([]*Product, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Get returns the product with the given id.
func (s *Store) Get(ctx context.Context, id int64) (*Product, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneProduct(p), nil
}

// Create adds a product.
func (s *Store) Create(ctx context.Context, name string, stock int, price float64) (*Product, error) {
	_ = ctx

	if stock < 0 {
		return nil, ErrInvalidStock
	}
	if price < 0 {
		return nil, ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	p := &Product{
		ID:        s.nextID,
		Name:      name,
		Stock:     stock,
		Price:     price,
		UpdatedAt: time.Now().UTC(),
	}
	s.products[p.ID] = p
	return cloneProduct(p), nil
}

// UpdateFields applies a partial administrative update. Nil fields keep
// their current value.
func (s *Store) UpdateFields(ctx context.Context, id int64, name *string, stock *int, price *float64) (*Product, error) {
	_ = ctx

	if stock != nil && *stock < 0 {
		return nil, ErrInvalidStock
	}
	if price != nil && *price < 0 {
		return nil, ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	if name != nil {
		p.Name = *name
	}
	if stock != nil {
		p.Stock = *stock
	}
	if price != nil {
		p.Price = *price
	}
	p.UpdatedAt = time.Now().UTC()
	return cloneProduct(p), nil
}

// Reserve atomically decrements stock, or fails leaving it unchanged.
func (s *Store) Reserve(ctx context.Context, id int64, quantity int) (*Product, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := p.Reserve(quantity); err != nil {
		return nil, err
	}
	return cloneProduct(p), nil
}

// Seed loads the default development products.
func (s *Store) Seed(ctx context.Context) error {
	if _, err := s.Create(ctx, "Wireless Mouse", 100, 25.99); err != nil {
		return err
	}
	if _, err := s.Create(ctx, "Mechanical Keyboard", 50, 89.99); err != nil {
		return err
	}
	return nil
}

func cloneProduct(p *Product) *Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
