package catalog

import "time"

// Category represents a product category as cached from the remote store
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	ParentID    string    `json:"parentId,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Key returns the cache key for this category (the server-assigned ID)
func (c Category) Key() string {
	return c.ID
}

// Active reports whether the category is visible in active views
func (c Category) Active() bool {
	return c.IsActive
}
