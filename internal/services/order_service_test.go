package services_test

import (
	"testing"
	"time"

	"tokohp/internal/models"
	"tokohp/internal/repositories"
	"tokohp/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func paidOrder() *models.Order {
	return &models.Order{
		ID:             "order-1",
		UserID:         "user-1",
		Status:         models.StatusPaid,
		TotalPrice:     decimal.RequireFromString("399.98"),
		OrderReference: "ORDER-111111",
	}
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	orderRepo := new(MockOrderRepo)
	service := services.NewOrderService(orderRepo, nil)

	updated := paidOrder()
	updated.Status = models.StatusApproved

	orderRepo.On("GetByID", "order-1").Return(paidOrder(), nil).Once()
	orderRepo.On("UpdateStatus", "order-1", models.StatusApproved).Return(updated, nil).Once()

	order, err := service.UpdateOrderStatus("order-1", "APPROVED")

	assert.NoError(t, err)
	assert.Equal(t, models.StatusApproved, order.Status)
	orderRepo.AssertExpectations(t)
}

func TestOrderService_UpdateOrderStatus_InvalidStatus(t *testing.T) {
	orderRepo := new(MockOrderRepo)
	service := services.NewOrderService(orderRepo, nil)

	order, err := service.UpdateOrderStatus("order-1", "SORT_OF_SHIPPED")

	var invalid *models.InvalidStatusError
	assert.ErrorAs(t, err, &invalid)
	assert.Nil(t, order)
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestOrderService_UpdateOrderStatus_OrderNotFound(t *testing.T) {
	orderRepo := new(MockOrderRepo)
	service := services.NewOrderService(orderRepo, nil)

	orderRepo.On("GetByID", "missing").Return(nil, &models.OrderNotFoundError{OrderID: "missing"}).Once()

	order, err := service.UpdateOrderStatus("missing", "PAID")

	var notFound *models.OrderNotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Nil(t, order)
}

func TestOrderService_UpdateOrderStatus_IllegalTransition(t *testing.T) {
	cases := []struct {
		name string
		from models.OrderStatus
		to   string
	}{
		{"pending cannot ship directly", models.StatusPending, "SHIPPED"},
		{"approved cannot move back to paid", models.StatusApproved, "PAID"},
		{"rejected is terminal", models.StatusRejected, "APPROVED"},
		{"delivered is terminal", models.StatusDelivered, "SHIPPED"},
		{"pending cannot be approved before payment", models.StatusPending, "APPROVED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orderRepo := new(MockOrderRepo)
			service := services.NewOrderService(orderRepo, nil)

			current := paidOrder()
			current.Status = tc.from
			orderRepo.On("GetByID", "order-1").Return(current, nil).Once()

			order, err := service.UpdateOrderStatus("order-1", tc.to)

			var illegal *models.IllegalTransitionError
			assert.ErrorAs(t, err, &illegal)
			assert.Equal(t, tc.from, illegal.From)
			assert.Nil(t, order)
			orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
		})
	}
}

func TestOrderService_FullFulfillmentPath(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	orderRepo := repositories.NewMockOrderRepository(productRepo)
	service := services.NewOrderService(orderRepo, nil)

	order := paidOrder()
	order.Status = models.StatusPending
	assert.NoError(t, orderRepo.Create(order, nil))

	for _, status := range []string{"PAID", "APPROVED", "SHIPPED", "DELIVERED"} {
		updated, err := service.UpdateOrderStatus(order.ID, status)
		assert.NoError(t, err, "transition to %s", status)
		assert.Equal(t, models.OrderStatus(status), updated.Status)
	}

	// Delivered is terminal.
	_, err := service.UpdateOrderStatus(order.ID, "PAID")
	var illegal *models.IllegalTransitionError
	assert.ErrorAs(t, err, &illegal)
}

// Line items are immutable: a status update touches only the order's status
// and updated_at, never the items' price or quantity.
func TestOrderService_StatusUpdateLeavesItemsAlone(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	orderRepo := repositories.NewMockOrderRepository(productRepo)
	service := services.NewOrderService(orderRepo, nil)

	order := paidOrder()
	order.Items = []models.OrderItem{
		{ID: "item-1", ProductID: "prod-1", Price: decimal.RequireFromString("199.99"), Quantity: 2},
	}
	assert.NoError(t, orderRepo.Create(order, nil))

	before, _ := orderRepo.GetByID(order.ID)

	updated, err := service.UpdateOrderStatus(order.ID, "APPROVED")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)

	after, _ := orderRepo.GetByID(order.ID)
	assert.Equal(t, before.Items, after.Items)
	assert.True(t, before.TotalPrice.Equal(after.TotalPrice))
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt) || after.UpdatedAt.Equal(before.UpdatedAt))
}

func TestOrderService_ConfirmPayment(t *testing.T) {
	orderRepo := new(MockOrderRepo)
	publisher := new(MockPublisher)
	service := services.NewOrderService(orderRepo, publisher)

	pending := paidOrder()
	pending.Status = models.StatusPending
	paid := paidOrder()

	orderRepo.On("GetByID", "order-1").Return(pending, nil).Once()

	var recorded *models.Payment
	orderRepo.On("AddPayment", mock.Anything).Run(func(args mock.Arguments) {
		recorded = args.Get(0).(*models.Payment)
	}).Return(nil).Once()
	orderRepo.On("UpdateStatus", "order-1", models.StatusPaid).Return(paid, nil).Once()
	publisher.On("Publish", "order.status_updated", mock.Anything).Return(nil).Once()

	order, err := service.ConfirmPayment("order-1", "TRX-42")

	assert.NoError(t, err)
	assert.Equal(t, models.StatusPaid, order.Status)
	assert.NotNil(t, recorded)
	assert.Equal(t, models.PaymentPaid, recorded.PaymentStatus)
	assert.Equal(t, "TRX-42", recorded.PaymentReference)
	assert.NotNil(t, recorded.PaidAt)
	assert.WithinDuration(t, time.Now(), *recorded.PaidAt, time.Minute)
	orderRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_ConfirmPayment_AlreadyPaid(t *testing.T) {
	orderRepo := new(MockOrderRepo)
	service := services.NewOrderService(orderRepo, nil)

	orderRepo.On("GetByID", "order-1").Return(paidOrder(), nil).Once()

	order, err := service.ConfirmPayment("order-1", "TRX-43")

	var illegal *models.IllegalTransitionError
	assert.ErrorAs(t, err, &illegal)
	assert.Nil(t, order)
	orderRepo.AssertNotCalled(t, "AddPayment", mock.Anything)
}

func TestOrderService_GetAllOrders(t *testing.T) {
	orderRepo := new(MockOrderRepo)
	service := services.NewOrderService(orderRepo, nil)

	expected := []models.Order{*paidOrder()}
	orderRepo.On("GetAll").Return(expected, nil).Once()

	orders, err := service.GetAllOrders()

	assert.NoError(t, err)
	assert.Equal(t, expected, orders)
	orderRepo.AssertExpectations(t)
}
