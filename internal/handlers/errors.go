package handlers

import (
	"errors"

	"tokohp/internal/models"

	"github.com/gofiber/fiber/v2"
)

// respondError maps domain errors onto HTTP responses. Validation-class
// failures are 400, missing lookups 404, and everything else (storage
// included) a generic 500 so partial-success is never signalled.
func respondError(c *fiber.Ctx, err error) error {
	var (
		userNotFound    *models.UserNotFoundError
		invalidProducts *models.InvalidProductReferenceError
		variantNotFound *models.VariantNotFoundError
		noStock         *models.InsufficientStockError
		orderNotFound   *models.OrderNotFoundError
		invalidStatus   *models.InvalidStatusError
		illegalTrans    *models.IllegalTransitionError
		validation      *models.ValidationError
	)

	switch {
	case errors.Is(err, models.ErrEmptyCart),
		errors.As(err, &userNotFound),
		errors.As(err, &invalidProducts),
		errors.As(err, &variantNotFound),
		errors.As(err, &noStock),
		errors.As(err, &invalidStatus),
		errors.As(err, &illegalTrans):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validation.Fields,
		})
	case errors.As(err, &orderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
			"error":   err.Error(),
		})
	}
}
