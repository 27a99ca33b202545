package repositories_test

import (
	"testing"

	"tokohp/internal/models"
	"tokohp/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGORMProductRepository_GetByIDs(t *testing.T) {
	db := setupDB(t)
	_, product := seedCatalog(t, db)
	repo := repositories.NewGORMProductRepository(db)

	other := &models.Product{
		SKU:   "SGS21-USED",
		Slug:  "galaxy-s21",
		Name:  "Galaxy S21",
		Brand: "Samsung",
		Model: "SM-G991",
		Variants: []models.Variant{
			{Price: decimal.RequireFromString("299.99"), StockQuantity: 3, Storage: "128GB", Condition: "Good"},
		},
	}
	assert.NoError(t, repo.Create(other))

	// Unknown IDs are simply absent from the result; the caller diffs them.
	products, err := repo.GetByIDs([]string{product.ID, other.ID, "missing"})
	assert.NoError(t, err)
	assert.Len(t, products, 2)
	for _, p := range products {
		assert.NotEmpty(t, p.Variants)
	}
}

func TestGORMProductRepository_GetByIDNotFound(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMProductRepository(db)

	_, err := repo.GetByID("missing")
	var invalid *models.InvalidProductReferenceError
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"missing"}, invalid.ProductIDs)
}

func TestGORMProductRepository_Delete(t *testing.T) {
	db := setupDB(t)
	_, product := seedCatalog(t, db)
	repo := repositories.NewGORMProductRepository(db)

	assert.NoError(t, repo.Delete(product.ID))

	_, err := repo.GetByID(product.ID)
	var invalid *models.InvalidProductReferenceError
	assert.ErrorAs(t, err, &invalid)

	err = repo.Delete("missing")
	assert.ErrorAs(t, err, &invalid)
}
