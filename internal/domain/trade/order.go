package trade

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/salesapp/client/internal/domain/shared"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// SelectedVariation records one variation choice made for an order item
type SelectedVariation struct {
	VariationID   string          `json:"variationId"`
	VariationName string          `json:"variationName"`
	OptionID      string          `json:"optionId"`
	OptionName    string          `json:"optionName"`
	PriceModifier decimal.Decimal `json:"priceModifier"`
}

// OrderItem represents a line item in an order
type OrderItem struct {
	ID                 string              `json:"id"`
	ProductID          string              `json:"productId"`
	ProductName        string              `json:"productName"`
	ProductSKU         string              `json:"productSku"`
	ProductImage       string              `json:"productImage"`
	SelectedVariations []SelectedVariation `json:"selectedVariations"`
	Quantity           int                 `json:"quantity"`
	UnitPrice          decimal.Decimal     `json:"unitPrice"`
	TotalPrice         decimal.Decimal     `json:"totalPrice"`
}

// OrderEditEntry is one append-only entry in an order's edit log
type OrderEditEntry struct {
	EditedAt     time.Time `json:"editedAt"`
	EditedBy     string    `json:"editedBy"`
	EditedByName string    `json:"editedByName"`
	Changes      string    `json:"changes"`
}

// EditMeta carries the attribution for an order edit
type EditMeta struct {
	EditedBy          string `json:"editedBy"`
	EditedByName      string `json:"editedByName"`
	ChangeDescription string `json:"changeDescription"`
}

// OrderCore holds the order state without edit history. It is both the
// embedded body of Order and the shape of the single-slot previous-version
// snapshot, so an undo can never resurrect older history recursively.
type OrderCore struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
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
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Order represents an order with its edit history.
// Identity is the server-assigned document ID; PendingOrder covers the
// not-yet-acknowledged case with a temporary ID.
type Order struct {
	OrderCore
	EditLog         []OrderEditEntry `json:"editLog,omitempty"`
	PreviousVersion *OrderCore       `json:"previousVersion,omitempty"`
}

// Key returns the cache key for this order (the server-assigned ID)
func (o Order) Key() string {
	return o.ID
}

// OrderUpdate is a partial update applied by an order edit. Nil fields are
// left unchanged.
type OrderUpdate struct {
	CustomerName    *string          `json:"customerName,omitempty"`
	CustomerPhone   *string          `json:"customerPhone,omitempty"`
	CustomerEmail   *string          `json:"customerEmail,omitempty"`
	CustomerAddress *string          `json:"customerAddress,omitempty"`
	Latitude        *float64         `json:"latitude,omitempty"`
	Longitude       *float64         `json:"longitude,omitempty"`
	Items           []OrderItem      `json:"items,omitempty"`
	Subtotal        *decimal.Decimal `json:"subtotal,omitempty"`
	Tax             *decimal.Decimal `json:"tax,omitempty"`
	Discount        *decimal.Decimal `json:"discount,omitempty"`
	Total           *decimal.Decimal `json:"total,omitempty"`
	Status          *OrderStatus     `json:"status,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

// Validate checks an order update for obviously invalid values
func (u OrderUpdate) Validate() error {
	if u.Status != nil && !u.Status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+u.Status.String())
	}
	if u.Total != nil && u.Total.IsNegative() {
		return shared.NewDomainError("INVALID_TOTAL", "Order total cannot be negative")
	}
	return nil
}

// ApplyEdit mutates the order in place: the pre-edit state (without history)
// is captured into the single previous-version slot, the partial update is
// applied, and a human-readable entry is appended to the edit log.
func (o *Order) ApplyEdit(update OrderUpdate, meta EditMeta, now time.Time) error {
	if err := update.Validate(); err != nil {
		return err
	}

	snapshot := o.OrderCore
	o.PreviousVersion = &snapshot

	if update.CustomerName != nil {
		o.CustomerName = *update.CustomerName
	}
	if update.CustomerPhone != nil {
		o.CustomerPhone = *update.CustomerPhone
	}
	if update.CustomerEmail != nil {
		o.CustomerEmail = *update.CustomerEmail
	}
	if update.CustomerAddress != nil {
		o.CustomerAddress = *update.CustomerAddress
	}
	if update.Latitude != nil {
		o.Latitude = update.Latitude
	}
	if update.Longitude != nil {
		o.Longitude = update.Longitude
	}
	if update.Items != nil {
		o.Items = update.Items
	}
	if update.Subtotal != nil {
		o.Subtotal = *update.Subtotal
	}
	if update.Tax != nil {
		o.Tax = *update.Tax
	}
	if update.Discount != nil {
		o.Discount = *update.Discount
	}
	if update.Total != nil {
		o.Total = *update.Total
	}
	if update.Status != nil {
		o.Status = *update.Status
	}
	if update.Notes != nil {
		o.Notes = *update.Notes
	}

	o.UpdatedAt = now
	o.EditLog = append(o.EditLog, OrderEditEntry{
		EditedAt:     now,
		EditedBy:     meta.EditedBy,
		EditedByName: meta.EditedByName,
		Changes:      meta.ChangeDescription,
	})
	return nil
}

// CanUndo reports whether a previous version exists to restore
func (o *Order) CanUndo() bool {
	return o.PreviousVersion != nil
}

// UndoEdit restores the previous-version snapshot, pops the latest edit-log
// entry and clears the snapshot slot. Exactly one level of undo is supported:
// a second consecutive undo fails with ErrNoPreviousVersion.
func (o *Order) UndoEdit(now time.Time) error {
	if o.PreviousVersion == nil {
		return shared.ErrNoPreviousVersion
	}

	o.OrderCore = *o.PreviousVersion
	o.UpdatedAt = now
	if n := len(o.EditLog); n > 0 {
		o.EditLog = o.EditLog[:n-1]
	}
	o.PreviousVersion = nil
	return nil
}
