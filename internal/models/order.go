package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusApproved  OrderStatus = "APPROVED"
	StatusRejected  OrderStatus = "REJECTED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
)

// statusTransitions is the single source of truth for legal fulfillment
// transitions, enforced on every status update regardless of caller.
// REJECTED and DELIVERED are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusPaid},
	StatusPaid:      {StatusApproved, StatusRejected},
	StatusApproved:  {StatusShipped},
	StatusShipped:   {StatusDelivered},
	StatusRejected:  {},
	StatusDelivered: {},
}

// Valid reports whether s is one of the six enumerated statuses.
func (s OrderStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is the aggregate root for a placed order. TotalPrice is computed
// once, server-side, at creation time; line items are immutable afterwards.
type Order struct {
	ID              string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string           `json:"user_id" gorm:"type:varchar(36);index"`
	User            *User            `json:"user,omitempty"`
	Status          OrderStatus      `json:"status" gorm:"type:varchar(20)"`
	TotalPrice      decimal.Decimal  `json:"total_price" gorm:"type:decimal(10,2)"`
	ShippingMethod  string           `json:"shipping_method"`
	PaymentMethod   string           `json:"payment_method"`
	OrderReference  string           `json:"order_reference" gorm:"uniqueIndex;type:varchar(64)"`
	ShippingAddress *ShippingAddress `json:"shipping_address,omitempty"`
	Items           []OrderItem      `json:"items"`
	Payments        []Payment        `json:"payments,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// OrderItem captures the variant's price at the time of purchase,
// decoupled from the live catalog.
type OrderItem struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string          `json:"order_id" gorm:"type:varchar(36);index"`
	ProductID string          `json:"product_id" gorm:"type:varchar(36)"`
	Product   *Product        `json:"product,omitempty"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	Quantity  int             `json:"quantity"`
	Storage   string          `json:"storage"`
	Condition string          `json:"condition"`
}

// ShippingAddress is created together with its order, never independently.
type ShippingAddress struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID     string `json:"order_id" gorm:"type:varchar(36);uniqueIndex"`
	FullName    string `json:"full_name" validate:"required"`
	AddressLine string `json:"address_line" validate:"required"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state" validate:"required"`
	PostalCode  string `json:"postal_code" validate:"required,min=4"`
	Country     string `json:"country" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required,min=7"`
}

// PaymentStatus is the state of a single payment record.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
	PaymentExpired PaymentStatus = "expired"
)

// Payment records an attempted or completed payment against an order.
// There is no gateway integration; capture is confirmed manually.
type Payment struct {
	ID               string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID          string        `json:"order_id" gorm:"type:varchar(36);index"`
	PaymentMethod    string        `json:"payment_method"`
	PaymentStatus    PaymentStatus `json:"payment_status" gorm:"type:varchar(20)"`
	PaymentReference string        `json:"payment_reference,omitempty"`
	PaidAt           *time.Time    `json:"paid_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}
