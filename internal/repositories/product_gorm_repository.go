package repositories

import (
	"errors"
	"fmt"

	"tokohp/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products with their variants.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Preload("Variants").Find(&products).Error; err != nil {
		return nil, &models.StorageError{Err: fmt.Errorf("failed to get all products: %w", err)}
	}
	return products, nil
}

// GetByID retrieves a single product with its variants.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Variants").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.InvalidProductReferenceError{ProductIDs: []string{id}}
		}
		return nil, &models.StorageError{Err: fmt.Errorf("failed to get product by ID %s: %w", id, err)}
	}
	return &product, nil
}

// GetByIDs batch-resolves products with their variants in one query.
func (r *GORMProductRepository) GetByIDs(ids []string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Preload("Variants").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, &models.StorageError{Err: fmt.Errorf("failed to get products by IDs: %w", err)}
	}
	return products, nil
}

// Create creates a new product together with its variants.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	for i := range product.Variants {
		if product.Variants[i].ID == "" {
			product.Variants[i].ID = uuid.New().String()
		}
	}
	if err := r.db.Create(product).Error; err != nil {
		return &models.StorageError{Err: fmt.Errorf("failed to create product: %w", err)}
	}
	return nil
}

// Update updates an existing product.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product) // Save will update all fields, including zero values
	if res.Error != nil {
		return &models.StorageError{Err: fmt.Errorf("failed to update product: %w", res.Error)}
	}
	if res.RowsAffected == 0 {
		return &models.InvalidProductReferenceError{ProductIDs: []string{product.ID}}
	}
	return nil
}

// Delete deletes a product by its ID.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return &models.StorageError{Err: fmt.Errorf("failed to delete product: %w", res.Error)}
	}
	if res.RowsAffected == 0 {
		return &models.InvalidProductReferenceError{ProductIDs: []string{id}}
	}
	return nil
}
