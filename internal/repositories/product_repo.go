package repositories

import (
	"tokohp/internal/models"
)

// ProductRepository defines the interface for catalog data access.
// Reads always include the product's variants, since pricing and stock
// live on the variant.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	// GetByIDs batch-resolves products with their variants in one lookup.
	// Missing ids are simply absent from the result; callers diff the sets.
	GetByIDs(ids []string) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
