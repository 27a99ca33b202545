package services

import (
	"encoding/json"
	"log"
	"time"

	"tokohp/internal/models"
	"tokohp/internal/repositories"

	"github.com/google/uuid"
)

// OrderService drives orders through the fulfillment state machine and
// serves the operator-facing order queries.
type OrderService struct {
	orderRepo repositories.OrderRepository
	publisher EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		publisher: publisher,
	}
}

// GetAllOrders retrieves all orders with their owning user, newest first.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves the full order projection.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetOrdersByUser retrieves a customer's own orders, newest first.
func (s *OrderService) GetOrdersByUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(userID)
}

// UpdateOrderStatus moves an order to a new fulfillment status. The target
// must be one of the six enumerated statuses and a legal successor of the
// order's current status; legality is enforced here, not by the caller's UI.
// Only the status and updated_at change; stock and line items are untouched.
func (s *OrderService) UpdateOrderStatus(id string, status string) (*models.Order, error) {
	newStatus := models.OrderStatus(status)
	if !newStatus.Valid() {
		return nil, &models.InvalidStatusError{Status: status}
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(newStatus) {
		return nil, &models.IllegalTransitionError{From: order.Status, To: newStatus}
	}

	updated, err := s.orderRepo.UpdateStatus(id, newStatus)
	if err != nil {
		return nil, err
	}

	s.publishStatusUpdated(updated, order.Status)
	return updated, nil
}

// ConfirmPayment records a manual payment confirmation against a PENDING
// order and moves it to PAID through the same transition table. There is no
// gateway call; this is the explicit confirmation step of the simulated
// payment flow.
func (s *OrderService) ConfirmPayment(orderID, paymentReference string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(models.StatusPaid) {
		return nil, &models.IllegalTransitionError{From: order.Status, To: models.StatusPaid}
	}

	now := time.Now()
	payment := &models.Payment{
		ID:               uuid.New().String(),
		OrderID:          order.ID,
		PaymentMethod:    order.PaymentMethod,
		PaymentStatus:    models.PaymentPaid,
		PaymentReference: paymentReference,
		PaidAt:           &now,
	}
	if err := s.orderRepo.AddPayment(payment); err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.UpdateStatus(order.ID, models.StatusPaid)
	if err != nil {
		return nil, err
	}

	s.publishStatusUpdated(updated, order.Status)
	return updated, nil
}

// publishStatusUpdated emits the order.status_updated event, best effort.
func (s *OrderService) publishStatusUpdated(order *models.Order, from models.OrderStatus) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"order_id": order.ID,
		"from":     from,
		"to":       order.Status,
	})
	if err != nil {
		log.Printf("Failed to marshal status updated event: %v", err)
		return
	}
	if err := s.publisher.Publish("order.status_updated", body); err != nil {
		log.Printf("Warning: Failed to publish status update event for order %s: %v", order.ID, err)
	}
}
