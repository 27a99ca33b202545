package repositories

import (
	"errors"
	"fmt"

	"tokohp/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetAll retrieves all orders with their owning user, newest first.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("User").Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, &models.StorageError{Err: fmt.Errorf("failed to get all orders: %w", err)}
	}
	return orders, nil
}

// GetByID retrieves the full order projection: user, shipping address,
// payments, and line items with their product and its variants.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("User").
		Preload("ShippingAddress").
		Preload("Payments").
		Preload("Items.Product.Variants").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.OrderNotFoundError{OrderID: id}
		}
		return nil, &models.StorageError{Err: fmt.Errorf("failed to get order by ID %s: %w", id, err)}
	}
	return &order, nil
}

// GetByUserID retrieves all orders owned by a user, newest first.
func (r *GORMOrderRepository) GetByUserID(userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, &models.StorageError{Err: fmt.Errorf("failed to get orders for user %s: %w", userID, err)}
	}
	return orders, nil
}

// Create persists the order aggregate and applies the stock decrements in a
// single transaction. Decrements are conditional updates
// (stock_quantity >= requested), so a concurrent checkout that drained the
// variant rolls the whole order back instead of overselling.
func (r *GORMOrderRepository) Create(order *models.Order, decrements []StockDecrement) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &models.ValidationError{Fields: map[string]string{
					"order_reference": fmt.Sprintf("order reference %s is already in use", order.OrderReference),
				}}
			}
			return &models.StorageError{Err: fmt.Errorf("failed to create order: %w", err)}
		}

		for _, d := range decrements {
			res := tx.Model(&models.Variant{}).
				Where("id = ? AND stock_quantity >= ?", d.VariantID, d.Quantity).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", d.Quantity))
			if res.Error != nil {
				return &models.StorageError{Err: fmt.Errorf("failed to decrement stock for variant %s: %w", d.VariantID, res.Error)}
			}
			if res.RowsAffected == 0 {
				return &models.InsufficientStockError{ProductName: d.ProductName}
			}
		}
		return nil
	})
	return err
}

// UpdateStatus sets an order's status and returns the updated record.
// Transition legality is enforced by the service; this only touches the
// status and updated_at columns.
func (r *GORMOrderRepository) UpdateStatus(id string, status models.OrderStatus) (*models.Order, error) {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, &models.StorageError{Err: fmt.Errorf("failed to update status for order %s: %w", id, res.Error)}
	}
	if res.RowsAffected == 0 {
		return nil, &models.OrderNotFoundError{OrderID: id}
	}

	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		return nil, &models.StorageError{Err: fmt.Errorf("failed to reload order %s: %w", id, err)}
	}
	return &order, nil
}

// AddPayment records a payment against an order.
func (r *GORMOrderRepository) AddPayment(payment *models.Payment) error {
	if err := r.db.Create(payment).Error; err != nil {
		return &models.StorageError{Err: fmt.Errorf("failed to record payment for order %s: %w", payment.OrderID, err)}
	}
	return nil
}
