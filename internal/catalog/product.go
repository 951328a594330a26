// Package catalog implements the product service: product records, stock
// counts and the atomic reservation operation the order flow depends on.
package catalog

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("catalog: product not found")
	ErrInvalidQuantity   = errors.New("catalog: quantity must be greater than zero")
	ErrInsufficientStock = errors.New("catalog: insufficient stock")
	ErrInvalidStock      = errors.New("catalog: stock must be zero or greater")
	ErrInvalidPrice      = errors.New("catalog: price must be zero or greater")
)

// Product is a catalog record. Stock only decreases through Reserve or
// changes through administrative update; it never goes negative.
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
	Price     float64   `json:"price"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Reserve performs the conditional decrement: it either succeeds fully or
// leaves stock unchanged.
func (p *Product) Reserve(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > p.Stock {
		return ErrInsufficientStock
	}
	p.Stock -= quantity
	p.UpdatedAt = time.Now().UTC()
	return nil
}
