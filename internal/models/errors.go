package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyCart is returned when a checkout is submitted with no items.
var ErrEmptyCart = errors.New("cart cannot be empty")

// UserNotFoundError signals that the owning user of a checkout does not exist.
type UserNotFoundError struct {
	UserID string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user with ID %s not found", e.UserID)
}

// InvalidProductReferenceError names the cart product ids that do not exist
// in the catalog.
type InvalidProductReferenceError struct {
	ProductIDs []string
}

func (e *InvalidProductReferenceError) Error() string {
	return fmt.Sprintf("invalid product IDs: %s", strings.Join(e.ProductIDs, ", "))
}

// VariantNotFoundError signals that a product has no variant matching the
// requested storage and condition.
type VariantNotFoundError struct {
	ProductName string
	Storage     string
	Condition   string
}

func (e *VariantNotFoundError) Error() string {
	return fmt.Sprintf("variant not found for product %s with storage %s and condition %s",
		e.ProductName, e.Storage, e.Condition)
}

// InsufficientStockError signals that a variant cannot cover the requested
// quantity.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for product %s", e.ProductName)
}

// OrderNotFoundError signals a lookup or status update against a missing order.
type OrderNotFoundError struct {
	OrderID string
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order with ID %s not found", e.OrderID)
}

// InvalidStatusError signals a status value outside the six enumerated states.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid order status: %s", e.Status)
}

// IllegalTransitionError signals a status update whose target is not a legal
// successor of the order's current status.
type IllegalTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition from %s to %s", e.From, e.To)
}

// ValidationError carries per-field validation failures for the UI.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// StorageError wraps failures from the persistence layer. Callers see it as
// a generic storage failure rather than a partial-success signal.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
