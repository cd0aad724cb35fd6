package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog product (SKU) as cached from the remote store.
// Identity is the server-assigned document ID; the client never generates it.
type Product struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	SKU            string             `json:"sku"`
	BasePrice      decimal.Decimal    `json:"basePrice"`
	CompareAtPrice *decimal.Decimal   `json:"compareAtPrice,omitempty"`
	Images         []string           `json:"images"`
	CategoryID     string             `json:"categoryId"`
	IsActive       bool               `json:"isActive"`
	Variations     []ProductVariation `json:"variations"`
	Stock          int                `json:"stock"`
	MOQ            *int               `json:"moq,omitempty"`
	Ribbon         string             `json:"ribbon,omitempty"`
	RibbonColor    string             `json:"ribbonColor,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// ProductVariation represents a variation axis of a product (e.g. "Size")
type ProductVariation struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Options []VariationOption `json:"options"`
}

// VariationOption represents one selectable option within a variation
type VariationOption struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	PriceModifier decimal.Decimal `json:"priceModifier"`
	SKU           string          `json:"sku"`
	Stock         int             `json:"stock"`
	MOQ           *int            `json:"moq,omitempty"`
	Image         string          `json:"image,omitempty"`
}

// Key returns the cache key for this product (the server-assigned ID)
func (p Product) Key() string {
	return p.ID
}

// Active reports whether the product is visible in active views.
// Soft-deleted products stay cached with IsActive=false.
func (p Product) Active() bool {
	return p.IsActive
}

// Matches reports whether the product matches a free-text search query
// against name, description and SKU (case-insensitive)
func (p Product) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.SKU), q)
}
