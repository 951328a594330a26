// Package orders implements the order service: order records, the status
// state machine, and the placement orchestrator coordinating the catalog
// reservation, the order commit and the best-effort notification.
package orders

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound          = errors.New("orders: order not found")
	ErrInvalidQuantity   = errors.New("orders: quantity must be greater than zero")
	ErrInvalidStatus     = errors.New("orders: unknown status")
	ErrInvalidTransition = errors.New("orders: invalid status transition")
)

// Status is the order lifecycle state.
type Status string

const (
	StatusCreated   Status = "CREATED"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// transitions whitelists the administrative status changes. CANCELLED is
// reachable from every non-terminal state.
var transitions = map[Status][]Status{
	StatusCreated:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

// ParseStatus parses a status string. The legacy "PLACED" spelling from the
// first order-service iteration is accepted as an alias of CREATED.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(s)) {
	case StatusCreated, "PLACED":
		return StatusCreated, nil
	case StatusConfirmed:
		return StatusConfirmed, nil
	case StatusShipped:
		return StatusShipped, nil
	case StatusDelivered:
		return StatusDelivered, nil
	case StatusCancelled:
		return StatusCancelled, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// CanTransition reports whether from → to is a permitted change.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is an order record. UserID always carries the identity resolved for
// the request that created the order.
type Order struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New validates the order fields and returns a CREATED order.
func New(userID, productID int64, quantity int) (*Order, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	now := time.Now().UTC()
	return &Order{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Status:    StatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
