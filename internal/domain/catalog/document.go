package catalog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// productDocument mirrors the remote document shape for products.
// The remote store assigns "_id"; all other fields are copied field-by-field
// into the local Product shape so that a remote schema change surfaces here,
// not as silently dropped data.
type productDocument struct {
	ID             string             `json:"_id"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	SKU            string             `json:"sku"`
	BasePrice      decimal.Decimal    `json:"basePrice"`
	CompareAtPrice *decimal.Decimal   `json:"compareAtPrice"`
	Images         []string           `json:"images"`
	CategoryID     string             `json:"categoryId"`
	IsActive       bool               `json:"isActive"`
	Variations     []ProductVariation `json:"variations"`
	Stock          int                `json:"stock"`
	MOQ            *int               `json:"moq"`
	Ribbon         string             `json:"ribbon"`
	RibbonColor    string             `json:"ribbonColor"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// categoryDocument mirrors the remote document shape for categories
type categoryDocument struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	ParentID    string    `json:"parentId"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProductFromDocument maps a raw remote product document to the local Product shape
func ProductFromDocument(data json.RawMessage) (Product, error) {
	var doc productDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Product{}, fmt.Errorf("catalog: failed to decode product document: %w", err)
	}
	if doc.ID == "" {
		return Product{}, fmt.Errorf("catalog: product document has no _id")
	}
	return Product{
		ID:             doc.ID,
		Name:           doc.Name,
		Description:    doc.Description,
		SKU:            doc.SKU,
		BasePrice:      doc.BasePrice,
		CompareAtPrice: doc.CompareAtPrice,
		Images:         doc.Images,
		CategoryID:     doc.CategoryID,
		IsActive:       doc.IsActive,
		Variations:     doc.Variations,
		Stock:          doc.Stock,
		MOQ:            doc.MOQ,
		Ribbon:         doc.Ribbon,
		RibbonColor:    doc.RibbonColor,
		CreatedAt:      doc.CreatedAt,
	}, nil
}

// CategoryFromDocument maps a raw remote category document to the local Category shape
func CategoryFromDocument(data json.RawMessage) (Category, error) {
	var doc categoryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Category{}, fmt.Errorf("catalog: failed to decode category document: %w", err)
	}
	if doc.ID == "" {
		return Category{}, fmt.Errorf("catalog: category document has no _id")
	}
	return Category{
		ID:          doc.ID,
		Name:        doc.Name,
		Description: doc.Description,
		Image:       doc.Image,
		ParentID:    doc.ParentID,
		IsActive:    doc.IsActive,
		CreatedAt:   doc.CreatedAt,
	}, nil
}
