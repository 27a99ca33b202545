package repositories

import (
	"tokohp/internal/models"
)

// StockDecrement asks for a variant's stock to be reduced as part of the
// order-creation transaction. ProductName is carried for error reporting.
type StockDecrement struct {
	VariantID   string
	ProductName string
	Quantity    int
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByUserID(userID string) ([]models.Order, error)
	// Create persists the order aggregate (order, shipping address, line
	// items) and applies all stock decrements in a single transaction.
	// A decrement that would drive stock negative fails the whole
	// transaction with InsufficientStockError; nothing is visible until
	// commit.
	Create(order *models.Order, decrements []StockDecrement) error
	UpdateStatus(id string, status models.OrderStatus) (*models.Order, error)
	AddPayment(payment *models.Payment) error
}
