package repositories

import (
	"sort"
	"sync"
	"time"

	"tokohp/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// Stock decrements are delegated to the product repository so the whole
// order-plus-decrement step stays atomic, as it is under GORM.
type MockOrderRepository struct {
	orders   map[string]models.Order
	products *MockProductRepository
	mu       sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository(products *MockProductRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:   make(map[string]models.Order),
		products: products,
	}
}

// GetAll returns all orders, newest first.
func (r *MockOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orderList = append(orderList, order)
	}
	sort.Slice(orderList, func(i, j int) bool {
		return orderList[i].CreatedAt.After(orderList[j].CreatedAt)
	})
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, &models.OrderNotFoundError{OrderID: id}
	}
	return &order, nil
}

// GetByUserID returns all orders owned by a user, newest first.
func (r *MockOrderRepository) GetByUserID(userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0)
	for _, order := range r.orders {
		if order.UserID == userID {
			orderList = append(orderList, order)
		}
	}
	sort.Slice(orderList, func(i, j int) bool {
		return orderList[i].CreatedAt.After(orderList[j].CreatedAt)
	})
	return orderList, nil
}

// Create adds a new order and applies the stock decrements. The decrement
// batch is all-or-nothing; if it fails, the order is not stored.
func (r *MockOrderRepository) Create(order *models.Order, decrements []StockDecrement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.orders {
		if existing.OrderReference == order.OrderReference {
			return &models.ValidationError{Fields: map[string]string{
				"order_reference": "order reference " + order.OrderReference + " is already in use",
			}}
		}
	}

	if r.products != nil {
		if err := r.products.ApplyDecrements(decrements); err != nil {
			return err
		}
	}

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// UpdateStatus updates the status of an order and returns the updated record.
func (r *MockOrderRepository) UpdateStatus(id string, status models.OrderStatus) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, &models.OrderNotFoundError{OrderID: id}
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return &order, nil
}

// AddPayment records a payment against an order.
func (r *MockOrderRepository) AddPayment(payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[payment.OrderID]
	if !ok {
		return &models.OrderNotFoundError{OrderID: payment.OrderID}
	}
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	payment.CreatedAt = time.Now()
	order.Payments = append(order.Payments, *payment)
	r.orders[order.ID] = order
	return nil
}
