package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product groups the metadata of a used phone listing. The sellable unit
// is the Variant; products carry no price or stock of their own.
type Product struct {
	ID                   string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	SKU                  string    `json:"sku" gorm:"uniqueIndex;type:varchar(64)" validate:"required"`
	Slug                 string    `json:"slug" gorm:"uniqueIndex;type:varchar(120)"`
	Name                 string    `json:"name" validate:"required,min=3,max=100"`
	Brand                string    `json:"brand" validate:"required"`
	Model                string    `json:"model" validate:"required"`
	Description          string    `json:"description" validate:"omitempty,max=500"`
	MinimumOrderQuantity int       `json:"minimum_order_quantity" gorm:"default:1"`
	Variants             []Variant `json:"variants"`
	// CreatedAt, UpdatedAt, DeletedAt (gorm.Model cannot be embedded here:
	// its Model field name collides with the Model column above)
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Variant is a specific sellable configuration of a product
// (storage x condition x color x ram) with its own price and stock.
type Variant struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ProductID      string          `json:"product_id" gorm:"type:varchar(36);index"`
	Price          decimal.Decimal `json:"price" gorm:"type:decimal(10,2)" validate:"required"`
	StockQuantity  int             `json:"stock_quantity" validate:"gte=0"`
	Storage        string          `json:"storage" validate:"required"`
	RAM            string          `json:"ram"`
	Color          string          `json:"color"`
	Condition      string          `json:"condition" validate:"required"`
	WarrantyMonths int             `json:"warranty_months"`
	BatteryHealth  int             `json:"battery_health"`
	gorm.Model
}

// FindVariant returns the variant matching the requested storage and
// condition, or nil if the product has no such configuration.
func (p *Product) FindVariant(storage, condition string) *Variant {
	for i := range p.Variants {
		v := &p.Variants[i]
		if v.Storage == storage && v.Condition == condition {
			return v
		}
	}
	return nil
}
