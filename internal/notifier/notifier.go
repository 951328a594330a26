// Package notifier implements the best-effort notification sink. It records
// every accepted payload so operators and tests can inspect what was sent.
package notifier

import (
	"context"
	"sync"
	"time"
)

// Notification is an accepted notification record.
type Notification struct {
	ID         int64     `json:"id"`
	OrderID    int64     `json:"order_id"`
	Status     string    `json:"status"`
	ReceivedAt time.Time `json:"received_at"`
}

// Store keeps accepted notifications in memory.
type Store struct {
	mu     sync.RWMutex
	items  []*Notification
	nextID int64
}

// NewStore creates an empty notification store.
func NewStore() *Store {
	return &Store{}
}

// Append records a notification.
func (s *Store) Append(ctx context.Context, orderID int64, status string) *Notification {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	n := &Notification{
		ID:         s.nextID,
		OrderID:    orderID,
		Status:     status,
		ReceivedAt: time.Now().UTC(),
	}
	s.items = append(s.items, n)
	return n
}

// List returns all recorded notifications, oldest first.
func (s *Store) List(ctx context.Context) []*Notification {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Notification, len(s.items))
	copy(out, s.items)
	return out
}
