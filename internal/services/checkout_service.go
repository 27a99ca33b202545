package services

import (
	"encoding/json"
	"log"
	"time"

	"tokohp/internal/models"
	"tokohp/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventPublisher publishes order lifecycle events to the message broker.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// CheckoutItem is one cart line in a checkout submission. It deliberately
// carries no price field; pricing always comes from the live catalog.
type CheckoutItem struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	Storage   string `json:"storage" validate:"required"`
	Condition string `json:"condition" validate:"required"`
}

// CheckoutInput is the complete draft order submitted by the client.
type CheckoutInput struct {
	UserID          string                 `json:"user_id" validate:"required"`
	Items           []CheckoutItem         `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	ShippingMethod  string                 `json:"shipping_method" validate:"required"`
	PaymentMethod   string                 `json:"payment_method" validate:"required"`
	OrderReference  string                 `json:"order_reference" validate:"required"`
}

// CheckoutService validates a cart against live inventory, re-prices it from
// catalog truth, and atomically persists the order aggregate plus stock
// decrements.
type CheckoutService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	publisher   EventPublisher
	validate    *validator.Validate
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	publisher EventPublisher,
) *CheckoutService {
	return &CheckoutService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		validate:    validator.New(),
	}
}

// SubmitOrder runs the checkout. The validation phase (input, user, products,
// variants, stock) is strictly read-only; only when it passes does the
// repository open the write transaction. The order is created in PENDING and
// moves to PAID through an explicit payment confirmation.
func (s *CheckoutService) SubmitOrder(input CheckoutInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, models.ErrEmptyCart
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(input.UserID); err != nil {
		return nil, err
	}

	productIDs := make([]string, 0, len(input.Items))
	for _, item := range input.Items {
		productIDs = append(productIDs, item.ProductID)
	}

	products, err := s.productRepo.GetByIDs(productIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	var missing []string
	seen := make(map[string]bool)
	for _, id := range productIDs {
		if _, ok := byID[id]; !ok && !seen[id] {
			missing = append(missing, id)
			seen[id] = true
		}
	}
	if len(missing) > 0 {
		return nil, &models.InvalidProductReferenceError{ProductIDs: missing}
	}

	// Match each cart item to its variant, check stock, and compute the
	// total from the variant's current price. Client-supplied totals never
	// enter this calculation.
	total := decimal.Zero
	orderItems := make([]models.OrderItem, 0, len(input.Items))
	decrements := make([]repositories.StockDecrement, 0, len(input.Items))

	for _, item := range input.Items {
		product := byID[item.ProductID]
		variant := product.FindVariant(item.Storage, item.Condition)
		if variant == nil {
			return nil, &models.VariantNotFoundError{
				ProductName: product.Name,
				Storage:     item.Storage,
				Condition:   item.Condition,
			}
		}
		if variant.StockQuantity < item.Quantity {
			return nil, &models.InsufficientStockError{ProductName: product.Name}
		}

		total = total.Add(variant.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		orderItems = append(orderItems, models.OrderItem{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Price:     variant.Price,
			Quantity:  item.Quantity,
			Storage:   item.Storage,
			Condition: item.Condition,
		})
		decrements = append(decrements, repositories.StockDecrement{
			VariantID:   variant.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
		})
	}

	address := input.ShippingAddress
	address.ID = uuid.New().String()

	order := &models.Order{
		ID:              uuid.New().String(),
		UserID:          input.UserID,
		Status:          models.StatusPending,
		TotalPrice:      total.Round(2),
		ShippingMethod:  input.ShippingMethod,
		PaymentMethod:   input.PaymentMethod,
		OrderReference:  input.OrderReference,
		ShippingAddress: &address,
		Items:           orderItems,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := s.orderRepo.Create(order, decrements); err != nil {
		return nil, err
	}

	s.publishOrderCreated(order)
	return order, nil
}

// validateInput checks the submission shape: item fields, quantities, and
// the shipping address. Failures surface per-field so the UI can show them
// inline.
func (s *CheckoutService) validateInput(input CheckoutInput) error {
	fields := make(map[string]string)

	if err := s.validate.Struct(input); err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			fields[e.Field()] = "failed on the '" + e.Tag() + "' rule"
		}
	}
	if err := s.validate.Struct(input.ShippingAddress); err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			fields[e.Field()] = "failed on the '" + e.Tag() + "' rule"
		}
	}
	for _, item := range input.Items {
		if err := s.validate.Struct(item); err != nil {
			for _, e := range err.(validator.ValidationErrors) {
				fields[e.Field()] = "failed on the '" + e.Tag() + "' rule"
			}
		}
	}

	if len(fields) > 0 {
		return &models.ValidationError{Fields: fields}
	}
	return nil
}

// publishOrderCreated emits the order.created event. Publishing is best
// effort; the order is already committed, so failures are only logged.
func (s *CheckoutService) publishOrderCreated(order *models.Order) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"order_id":        order.ID,
		"user_id":         order.UserID,
		"status":          order.Status,
		"total_price":     order.TotalPrice,
		"order_reference": order.OrderReference,
	})
	if err != nil {
		log.Printf("Failed to marshal order created event: %v", err)
		return
	}
	if err := s.publisher.Publish("order.created", body); err != nil {
		log.Printf("Warning: Failed to publish order created event for order %s: %v", order.ID, err)
	}
}
