package store

import (
	"errors"
	"fmt"
)

// ErrNotFound covers lookups of unknown product or order ids.
var ErrNotFound = errors.New("not found")

// ProductNotFoundError is returned from order placement when a line item
// references a product id that does not exist.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with id %d not found", e.ProductID)
}

// InsufficientStockError carries the available vs requested quantities for
// the first product that could not be satisfied. Requested is the
// cumulative quantity across all lines referencing the product.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product id %d: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

// ValidationError reports a malformed placement request before any write.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }
