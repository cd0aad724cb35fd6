package trade

import (
	"github.com/shopspring/decimal"

	"github.com/salesapp/client/internal/domain/shared"
)

// OrderDraft is the client-authored portion of an order: everything except
// the server-assigned identity (ID, order number) and server timestamps.
// It is what gets submitted to the remote createOrder mutation, or queued
// while offline.
type OrderDraft struct {
	SalesRepID      string          `json:"salesRepId"`
	SalesRepName    string          `json:"salesRepName"`
	CustomerName    string          `json:"customerName"`
	CustomerPhone   string          `json:"customerPhone"`
	CustomerEmail   string          `json:"customerEmail"`
	CustomerAddress string          `json:"customerAddress"`
	Latitude        *float64        `json:"latitude,omitempty"`
	Longitude       *float64        `json:"longitude,omitempty"`
	Items           []OrderItem     `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	Status          OrderStatus     `json:"status"`
	Notes           string          `json:"notes"`
}

// Validate checks the draft before it is submitted or queued
func (d OrderDraft) Validate() error {
	if d.SalesRepID == "" {
		return shared.NewDomainError("INVALID_SALES_REP", "Sales rep ID cannot be empty")
	}
	if d.CustomerName == "" {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}
	if len(d.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}
	for _, item := range d.Items {
		if item.Quantity <= 0 {
			return shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Item unit price cannot be negative")
		}
	}
	if d.Total.IsNegative() {
		return shared.NewDomainError("INVALID_TOTAL", "Order total cannot be negative")
	}
	if !d.Status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+d.Status.String())
	}
	return nil
}
