package entity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrTransitionConflict = errors.New("order status changed concurrently")
)

// Shortage is one SKU that cannot cover a requested quantity.
type Shortage struct {
	SKU       string `json:"sku"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// InsufficientStockError lists every short SKU of a rejected fulfillment.
type InsufficientStockError struct {
	Shortages []Shortage
}

func (e *InsufficientStockError) Error() string {
	return "Insufficient stock for " + strings.Join(e.SKUs(), ", ")
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// SKUs returns the offending SKU codes in order.
func (e *InsufficientStockError) SKUs() []string {
	out := make([]string, len(e.Shortages))
	for i, s := range e.Shortages {
		out[i] = s.SKU
	}
	return out
}

// TransitionError is an undefined status edge.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change status from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
