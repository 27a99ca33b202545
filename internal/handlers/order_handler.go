package handlers

import (
	"log"

	"tokohp/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for order queries and fulfillment.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app. The admin
// guard for the operator routes is applied by the caller.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, adminGuard fiber.Handler) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/me", h.HandleGetMyOrders)
	orderRoutes.Get("/", adminGuard, h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", adminGuard, h.HandleUpdateOrderStatus)
	orderRoutes.Post("/:id/payment", adminGuard, h.HandleConfirmPayment)
}

// HandleGetOrders retrieves all orders for the operator dashboard,
// newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders()
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetMyOrders retrieves the authenticated user's own orders.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	orders, err := h.service.GetOrdersByUser(userID)
	if err != nil {
		log.Printf("Error getting orders for user %s: %v", userID, err)
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves the full order projection: user, shipping
// address, payments, and line items with product snapshots.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(orderID)
	if err != nil {
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleUpdateOrderStatus moves an order through the fulfillment state
// machine. Illegal transitions are rejected here regardless of what the
// operator UI allowed.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var updateData struct {
		Status string `json:"status"`
	}

	if err := c.BodyParser(&updateData); err != nil {
		log.Printf("Error parsing request body for status update: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}

	if updateData.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	order, err := h.service.UpdateOrderStatus(orderID, updateData.Status)
	if err != nil {
		log.Printf("Error updating order status for order %s: %v", orderID, err)
		return respondError(c, err)
	}

	return c.JSON(order)
}

// HandleConfirmPayment records a manual payment confirmation and moves the
// order from PENDING to PAID.
func (h *OrderHandler) HandleConfirmPayment(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var body struct {
		PaymentReference string `json:"payment_reference"`
	}
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing payment confirmation body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for payment confirmation",
			"error":   err.Error(),
		})
	}

	order, err := h.service.ConfirmPayment(orderID, body.PaymentReference)
	if err != nil {
		log.Printf("Error confirming payment for order %s: %v", orderID, err)
		return respondError(c, err)
	}

	return c.JSON(order)
}
