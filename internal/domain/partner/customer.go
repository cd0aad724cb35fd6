package partner

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Customer represents a customer record as cached from the remote store
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address"`
	Company   string    `json:"company,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// Key returns the cache key for this customer (the server-assigned ID)
func (c Customer) Key() string {
	return c.ID
}

// Active reports whether the customer is visible in active views
func (c Customer) Active() bool {
	return c.IsActive
}

// Matches reports whether the customer matches a free-text search query
// against name, phone, email and company (case-insensitive)
func (c Customer) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(c.Phone, q) ||
		strings.Contains(strings.ToLower(c.Email), q) ||
		strings.Contains(strings.ToLower(c.Company), q)
}

// customerDocument mirrors the remote document shape for customers
type customerDocument struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Company   string    `json:"company"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// CustomerFromDocument maps a raw remote customer document to the local Customer shape
func CustomerFromDocument(data json.RawMessage) (Customer, error) {
	var doc customerDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Customer{}, fmt.Errorf("partner: failed to decode customer document: %w", err)
	}
	if doc.ID == "" {
		return Customer{}, fmt.Errorf("partner: customer document has no _id")
	}
	return Customer{
		ID:        doc.ID,
		Name:      doc.Name,
		Phone:     doc.Phone,
		Email:     doc.Email,
		Address:   doc.Address,
		Company:   doc.Company,
		Latitude:  doc.Latitude,
		Longitude: doc.Longitude,
		IsActive:  doc.IsActive,
		CreatedAt: doc.CreatedAt,
	}, nil
}
