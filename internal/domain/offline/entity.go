package offline

// EntityType identifies one remotely-synced, locally-cached collection.
// The cache keeps exactly one snapshot per entity type.
type EntityType string

const (
	EntityProducts   EntityType = "products"
	EntityCategories EntityType = "categories"
	EntityCustomers  EntityType = "customers"
	EntityOrders     EntityType = "orders"
)

// IsValid checks if the entity type is one of the cached collections
func (t EntityType) IsValid() bool {
	switch t {
	case EntityProducts, EntityCategories, EntityCustomers, EntityOrders:
		return true
	}
	return false
}

// String returns the string representation of EntityType
func (t EntityType) String() string {
	return string(t)
}

// AllEntityTypes returns every cached entity type in sync order.
// Catalog data syncs before orders so order line items can resolve against
// an up-to-date product view.
func AllEntityTypes() []EntityType {
	return []EntityType{EntityProducts, EntityCategories, EntityCustomers, EntityOrders}
}
