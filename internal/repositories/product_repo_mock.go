package repositories

import (
	"sync"

	"tokohp/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns all products.
func (r *MockProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, &models.InvalidProductReferenceError{ProductIDs: []string{id}}
	}
	return &product, nil
}

// GetByIDs returns the products whose ids are present; missing ids are
// simply absent from the result.
func (r *MockProductRepository) GetByIDs(ids []string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			productList = append(productList, product)
		}
	}
	return productList, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	for i := range product.Variants {
		if product.Variants[i].ID == "" {
			product.Variants[i].ID = uuid.New().String()
		}
		product.Variants[i].ProductID = product.ID
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[product.ID]
	if !ok {
		return &models.InvalidProductReferenceError{ProductIDs: []string{product.ID}}
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return &models.InvalidProductReferenceError{ProductIDs: []string{id}}
	}
	delete(r.products, id)
	return nil
}

// ApplyDecrements applies a batch of conditional stock decrements under one
// lock, checking every variant before touching any. A variant that cannot
// cover its requested quantity fails the whole batch with no stock change,
// mirroring the conditional UPDATEs in the GORM repository's transaction.
func (r *MockProductRepository) ApplyDecrements(decrements []StockDecrement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range decrements {
		v := r.findVariantLocked(d.VariantID)
		if v == nil || v.StockQuantity < d.Quantity {
			return &models.InsufficientStockError{ProductName: d.ProductName}
		}
	}
	for _, d := range decrements {
		v := r.findVariantLocked(d.VariantID)
		v.StockQuantity -= d.Quantity
	}
	return nil
}

// findVariantLocked returns a pointer into the variant slice's backing
// array, so writes through it are visible to later reads.
func (r *MockProductRepository) findVariantLocked(variantID string) *models.Variant {
	for _, product := range r.products {
		for i := range product.Variants {
			if product.Variants[i].ID == variantID {
				return &product.Variants[i]
			}
		}
	}
	return nil
}
