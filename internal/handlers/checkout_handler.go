package handlers

import (
	"log"

	"tokohp/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles HTTP requests for order placement.
type CheckoutHandler struct {
	service *services.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
	}
}

// RegisterRoutes registers the checkout route with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/checkout", h.HandleCheckout)
}

// HandleCheckout submits a complete draft order. All pricing is recomputed
// server-side; any price fields in the payload are ignored by decoding.
func (h *CheckoutHandler) HandleCheckout(c *fiber.Ctx) error {
	var input services.CheckoutInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing checkout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	order, err := h.service.SubmitOrder(input)
	if err != nil {
		log.Printf("Checkout failed for user %s: %v", input.UserID, err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}
