package trade

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// orderDocument mirrors the remote document shape for orders
type orderDocument struct {
	ID              string           `json:"_id"`
	OrderNumber     string           `json:"orderNumber"`
	SalesRepID      string           `json:"salesRepId"`
	SalesRepName    string           `json:"salesRepName"`
	CustomerName    string           `json:"customerName"`
	CustomerPhone   string           `json:"customerPhone"`
	CustomerEmail   string           `json:"customerEmail"`
	CustomerAddress string           `json:"customerAddress"`
	Latitude        *float64         `json:"latitude"`
	Longitude       *float64         `json:"longitude"`
	Items           []OrderItem      `json:"items"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
	Tax             decimal.Decimal  `json:"tax"`
	Discount        decimal.Decimal  `json:"discount"`
	Total           decimal.Decimal  `json:"total"`
	Status          OrderStatus      `json:"status"`
	Notes           string           `json:"notes"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
	EditLog         []OrderEditEntry `json:"editLog"`
	PreviousVersion *orderCoreDoc    `json:"previousVersion"`
}

// orderCoreDoc is the previous-version slot as stored remotely. The snapshot
// keeps the remote "_id" key, so it needs its own mapping.
type orderCoreDoc struct {
	ID              string          `json:"_id"`
	OrderNumber     string          `json:"orderNumber"`
	SalesRepID      string          `json:"salesRepId"`
	SalesRepName    string          `json:"salesRepName"`
	CustomerName    string          `json:"customerName"`
	CustomerPhone   string          `json:"customerPhone"`
	CustomerEmail   string          `json:"customerEmail"`
	CustomerAddress string          `json:"customerAddress"`
	Latitude        *float64        `json:"latitude"`
	Longitude       *float64        `json:"longitude"`
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

func (d orderCoreDoc) toCore() OrderCore {
	return OrderCore{
		ID:              d.ID,
		OrderNumber:     d.OrderNumber,
		SalesRepID:      d.SalesRepID,
		SalesRepName:    d.SalesRepName,
		CustomerName:    d.CustomerName,
		CustomerPhone:   d.CustomerPhone,
		CustomerEmail:   d.CustomerEmail,
		CustomerAddress: d.CustomerAddress,
		Latitude:        d.Latitude,
		Longitude:       d.Longitude,
		Items:           d.Items,
		Subtotal:        d.Subtotal,
		Tax:             d.Tax,
		Discount:        d.Discount,
		Total:           d.Total,
		Status:          d.Status,
		Notes:           d.Notes,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// OrderFromDocument maps a raw remote order document to the local Order shape
func OrderFromDocument(data json.RawMessage) (Order, error) {
	var doc orderDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Order{}, fmt.Errorf("trade: failed to decode order document: %w", err)
	}
	if doc.ID == "" {
		return Order{}, fmt.Errorf("trade: order document has no _id")
	}

	order := Order{
		OrderCore: OrderCore{
			ID:              doc.ID,
			OrderNumber:     doc.OrderNumber,
			SalesRepID:      doc.SalesRepID,
			SalesRepName:    doc.SalesRepName,
			CustomerName:    doc.CustomerName,
			CustomerPhone:   doc.CustomerPhone,
			CustomerEmail:   doc.CustomerEmail,
			CustomerAddress: doc.CustomerAddress,
			Latitude:        doc.Latitude,
			Longitude:       doc.Longitude,
			Items:           doc.Items,
			Subtotal:        doc.Subtotal,
			Tax:             doc.Tax,
			Discount:        doc.Discount,
			Total:           doc.Total,
			Status:          doc.Status,
			Notes:           doc.Notes,
			CreatedAt:       doc.CreatedAt,
			UpdatedAt:       doc.UpdatedAt,
		},
		EditLog: doc.EditLog,
	}
	if doc.PreviousVersion != nil {
		core := doc.PreviousVersion.toCore()
		order.PreviousVersion = &core
	}
	return order, nil
}
