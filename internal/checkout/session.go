package checkout

import (
	"errors"
	"fmt"
	"math/rand"

	"tokohp/internal/models"
	"tokohp/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Step is one stage of the checkout wizard.
type Step string

const (
	StepCart     Step = "cart"
	StepShipping Step = "shipping"
	StepPayment  Step = "payment"
	StepReview   Step = "review"
)

// stepOrder is the linear forward order of the wizard. Back navigation
// keeps data already entered for later steps.
var stepOrder = []Step{StepCart, StepShipping, StepPayment, StepReview}

// ShippingMethod is a flat-rate shipping choice.
type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
	ShippingPriority ShippingMethod = "priority"
)

// shippingCosts holds the flat rate for each method.
var shippingCosts = map[ShippingMethod]decimal.Decimal{
	ShippingStandard: decimal.Zero,
	ShippingExpress:  decimal.NewFromInt(15),
	ShippingPriority: decimal.NewFromInt(30),
}

// Cost returns the flat shipping rate for the method.
func (m ShippingMethod) Cost() decimal.Decimal {
	return shippingCosts[m]
}

// Valid reports whether m is a known shipping method.
func (m ShippingMethod) Valid() bool {
	_, ok := shippingCosts[m]
	return ok
}

// PaymentMethod is the customer's payment choice. There is no gateway;
// bank transfers show static instructions embedding the order reference.
type PaymentMethod string

const (
	PaymentCredit PaymentMethod = "credit"
	PaymentBank   PaymentMethod = "bank"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCredit || m == PaymentBank
}

// TaxRate is the flat illustrative tax rate applied to display totals.
var TaxRate = decimal.NewFromFloat(0.08)

// DraftVersion is bumped whenever the persisted draft layout changes;
// drafts with another version are discarded on load.
const DraftVersion = 1

// DraftItem is one cart line in the draft.
type DraftItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Storage   string `json:"storage"`
	Condition string `json:"condition"`
}

// Draft is the client-accumulated, not-yet-submitted order. It is persisted
// through a Store after every step so the wizard survives a reload.
type Draft struct {
	Version         int                    `json:"version"`
	Step            Step                   `json:"step"`
	UserID          string                 `json:"user_id"`
	Items           []DraftItem            `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	ShippingMethod  ShippingMethod         `json:"shipping_method"`
	PaymentMethod   PaymentMethod          `json:"payment_method"`
	OrderReference  string                 `json:"order_reference"`
}

// Submitter places the accumulated draft as one unit. Satisfied by
// services.CheckoutService.
type Submitter interface {
	SubmitOrder(input services.CheckoutInput) (*models.Order, error)
}

// Session drives the four-step checkout wizard over a single draft.
// It is single-owner; concurrent sessions over one store are last-write-wins.
type Session struct {
	store    Store
	draft    *Draft
	validate *validator.Validate
}

// Wizard flow errors.
var (
	ErrWrongStep   = errors.New("operation not allowed at this checkout step")
	ErrEmptyItems  = errors.New("at least one item is required")
	ErrBadQuantity = errors.New("item quantity must be at least 1")
	ErrBadShipping = errors.New("unknown shipping method")
	ErrBadPayment  = errors.New("unknown payment method")
	ErrAtFirstStep = errors.New("already at the first checkout step")
)

// NewSession opens a checkout session for a user. An existing draft in the
// store is rehydrated so the wizard continues where it left off; a missing,
// foreign, or version-incompatible draft starts a fresh one with a newly
// generated order reference.
func NewSession(store Store, userID string) (*Session, error) {
	draft, err := store.Load()
	if err != nil {
		return nil, err
	}

	if draft == nil || draft.Version != DraftVersion || draft.UserID != userID {
		draft = &Draft{
			Version:        DraftVersion,
			Step:           StepCart,
			UserID:         userID,
			OrderReference: generateOrderReference(),
		}
		if err := store.Save(draft); err != nil {
			return nil, err
		}
	}

	return &Session{
		store:    store,
		draft:    draft,
		validate: validator.New(),
	}, nil
}

// generateOrderReference builds the client-visible order label. It is a
// display label with a random suffix; global uniqueness is enforced
// server-side at submission.
func generateOrderReference() string {
	return fmt.Sprintf("ORDER-%d", rand.Intn(1000000))
}

// Step returns the wizard's current step.
func (s *Session) Step() Step {
	return s.draft.Step
}

// Draft returns a copy of the accumulated draft.
func (s *Session) Draft() Draft {
	return *s.draft
}

// SetItems records the cart contents and advances to the shipping step.
func (s *Session) SetItems(items []DraftItem) error {
	if s.draft.Step != StepCart {
		return ErrWrongStep
	}
	if len(items) == 0 {
		return ErrEmptyItems
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return ErrBadQuantity
		}
	}

	s.draft.Items = items
	s.draft.Step = StepShipping
	return s.store.Save(s.draft)
}

// SetShipping validates and records the shipping address and method, then
// advances to the payment step. Field failures are returned per-field so the
// UI can show them inline.
func (s *Session) SetShipping(address models.ShippingAddress, method ShippingMethod) error {
	if s.draft.Step != StepShipping {
		return ErrWrongStep
	}
	if !method.Valid() {
		return ErrBadShipping
	}
	if err := s.validate.Struct(address); err != nil {
		fields := make(map[string]string)
		for _, e := range err.(validator.ValidationErrors) {
			fields[e.Field()] = "failed on the '" + e.Tag() + "' rule"
		}
		return &models.ValidationError{Fields: fields}
	}

	s.draft.ShippingAddress = address
	s.draft.ShippingMethod = method
	s.draft.Step = StepPayment
	return s.store.Save(s.draft)
}

// SetPaymentMethod records the payment choice and advances to review.
func (s *Session) SetPaymentMethod(method PaymentMethod) error {
	if s.draft.Step != StepPayment {
		return ErrWrongStep
	}
	if !method.Valid() {
		return ErrBadPayment
	}

	s.draft.PaymentMethod = method
	s.draft.Step = StepReview
	return s.store.Save(s.draft)
}

// Back returns to the previous step. Data already entered for later steps
// is kept, so moving forward again does not re-ask for it.
func (s *Session) Back() error {
	for i, step := range stepOrder {
		if step == s.draft.Step {
			if i == 0 {
				return ErrAtFirstStep
			}
			s.draft.Step = stepOrder[i-1]
			return s.store.Save(s.draft)
		}
	}
	return ErrWrongStep
}

// BankTransferInstructions renders the static transfer instructions shown
// on the payment step for bank transfers.
func (s *Session) BankTransferInstructions() string {
	return fmt.Sprintf(
		"Transfer the order total to account 0019-2847-3365 (TokoHP) and "+
			"quote reference %s in the transfer description.",
		s.draft.OrderReference,
	)
}

// Totals computes the display totals for the review step: subtotal plus
// flat shipping cost plus flat-rate tax. The authoritative order total is
// still computed server-side at submission.
func (s *Session) Totals(subtotal decimal.Decimal) (shipping, tax, total decimal.Decimal) {
	shipping = s.draft.ShippingMethod.Cost()
	tax = subtotal.Mul(TaxRate).Round(2)
	total = subtotal.Add(shipping).Add(tax)
	return shipping, tax, total
}

// Submit places the draft as one unit from the review step. On success the
// persisted draft is cleared; on failure it is left intact so the user can
// correct and resubmit without restarting the flow.
func (s *Session) Submit(engine Submitter) (*models.Order, error) {
	if s.draft.Step != StepReview {
		return nil, ErrWrongStep
	}

	items := make([]services.CheckoutItem, 0, len(s.draft.Items))
	for _, item := range s.draft.Items {
		items = append(items, services.CheckoutItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Storage:   item.Storage,
			Condition: item.Condition,
		})
	}

	order, err := engine.SubmitOrder(services.CheckoutInput{
		UserID:          s.draft.UserID,
		Items:           items,
		ShippingAddress: s.draft.ShippingAddress,
		ShippingMethod:  string(s.draft.ShippingMethod),
		PaymentMethod:   string(s.draft.PaymentMethod),
		OrderReference:  s.draft.OrderReference,
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.Clear(); err != nil {
		return order, fmt.Errorf("order placed but draft not cleared: %w", err)
	}
	return order, nil
}
