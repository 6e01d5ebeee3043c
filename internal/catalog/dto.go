package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"phonestore-backend/pkg/db/models"
	"phonestore-backend/pkg/enums"
)

// VariantView is one purchasable configuration with its derived stock status.
type VariantView struct {
	ID            uuid.UUID           `json:"id"`
	ProductID     uuid.UUID           `json:"product_id"`
	ProductName   string              `json:"product_name,omitempty"`
	Name          string              `json:"name"`
	Color         *string             `json:"color,omitempty"`
	Capacity      *string             `json:"capacity,omitempty"`
	Price         decimal.Decimal     `json:"price"`
	StockQuantity int                 `json:"stock_quantity"`
	Status        enums.VariantStatus `json:"status"`
	ImageURL      *string             `json:"image_url,omitempty"`
}

// ProductView is a catalog listing with all of its variants.
type ProductView struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Brand       string        `json:"brand"`
	Description *string       `json:"description,omitempty"`
	ImageURL    *string       `json:"image_url,omitempty"`
	IsActive    bool          `json:"is_active"`
	Variants    []VariantView `json:"variants"`
}

func newProductView(product *models.Product) ProductView {
	view := ProductView{
		ID:          product.ID,
		Name:        product.Name,
		Brand:       product.Brand,
		Description: product.Description,
		ImageURL:    product.ImageURL,
		IsActive:    product.IsActive,
		Variants:    make([]VariantView, 0, len(product.Variants)),
	}
	for i := range product.Variants {
		variant := newVariantView(&product.Variants[i])
		variant.ProductName = ""
		view.Variants = append(view.Variants, variant)
	}
	return view
}

func newVariantView(variant *models.Variant) VariantView {
	view := VariantView{
		ID:            variant.ID,
		ProductID:     variant.ProductID,
		Name:          variant.Name,
		Color:         variant.Color,
		Capacity:      variant.Capacity,
		Price:         variant.Price,
		StockQuantity: variant.StockQuantity,
		Status:        variant.Status(),
		ImageURL:      variant.ImageURL,
	}
	if variant.Product != nil {
		view.ProductName = variant.Product.Name
	}
	return view
}
