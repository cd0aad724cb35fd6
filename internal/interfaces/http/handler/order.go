package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/salesapp/client/internal/application/facade"
	"github.com/salesapp/client/internal/domain/trade"
)

// OrderHandler serves order reads and writes
type OrderHandler struct {
	BaseHandler
	facade *facade.Facade
}

// NewOrderHandler creates an order handler
func NewOrderHandler(f *facade.Facade) *OrderHandler {
	return &OrderHandler{facade: f}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("", h.List)
		orders.POST("", h.Create)
		orders.GET("/:id", h.Get)
		orders.PATCH("/:id", h.Update)
		orders.PATCH("/:id/status", h.UpdateStatus)
		orders.POST("/:id/undo", h.Undo)
	}
}

// OrderItemRequest is one line item in an order submission
type OrderItemRequest struct {
	ID                 string                    `json:"id"`
	ProductID          string                    `json:"productId" binding:"required"`
	ProductName        string                    `json:"productName"`
	ProductSKU         string                    `json:"productSku"`
	ProductImage       string                    `json:"productImage"`
	SelectedVariations []trade.SelectedVariation `json:"selectedVariations"`
	Quantity           int                       `json:"quantity" binding:"required,min=1"`
	UnitPrice          decimal.Decimal           `json:"unitPrice"`
	TotalPrice         decimal.Decimal           `json:"totalPrice"`
}

// CreateOrderRequest is the order submission payload
type CreateOrderRequest struct {
	SalesRepID      string             `json:"salesRepId" binding:"required"`
	SalesRepName    string             `json:"salesRepName"`
	CustomerName    string             `json:"customerName" binding:"required"`
	CustomerPhone   string             `json:"customerPhone"`
	CustomerEmail   string             `json:"customerEmail" binding:"omitempty,email"`
	CustomerAddress string             `json:"customerAddress"`
	Latitude        *float64           `json:"latitude"`
	Longitude       *float64           `json:"longitude"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	Tax             decimal.Decimal    `json:"tax"`
	Discount        decimal.Decimal    `json:"discount"`
	Total           decimal.Decimal    `json:"total"`
	Status          string             `json:"status" binding:"required,orderstatus"`
	Notes           string             `json:"notes"`
}

func (r CreateOrderRequest) toDraft() trade.OrderDraft {
	items := make([]trade.OrderItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = trade.OrderItem{
			ID:                 item.ID,
			ProductID:          item.ProductID,
			ProductName:        item.ProductName,
			ProductSKU:         item.ProductSKU,
			ProductImage:       item.ProductImage,
			SelectedVariations: item.SelectedVariations,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice,
			TotalPrice:         item.TotalPrice,
		}
	}
	return trade.OrderDraft{
		SalesRepID:      r.SalesRepID,
		SalesRepName:    r.SalesRepName,
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		CustomerEmail:   r.CustomerEmail,
		CustomerAddress: r.CustomerAddress,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
		Items:           items,
		Subtotal:        r.Subtotal,
		Tax:             r.Tax,
		Discount:        r.Discount,
		Total:           r.Total,
		Status:          trade.OrderStatus(r.Status),
		Notes:           r.Notes,
	}
}

// UpdateOrderRequest is a partial order edit with its attribution
type UpdateOrderRequest struct {
	CustomerName    *string            `json:"customerName"`
	CustomerPhone   *string            `json:"customerPhone"`
	CustomerEmail   *string            `json:"customerEmail"`
	CustomerAddress *string            `json:"customerAddress"`
	Latitude        *float64           `json:"latitude"`
	Longitude       *float64           `json:"longitude"`
	Items           []OrderItemRequest `json:"items" binding:"omitempty,min=1,dive"`
	Subtotal        *decimal.Decimal   `json:"subtotal"`
	Tax             *decimal.Decimal   `json:"tax"`
	Discount        *decimal.Decimal   `json:"discount"`
	Total           *decimal.Decimal   `json:"total"`
	Status          *string            `json:"status" binding:"omitempty,orderstatus"`
	Notes           *string            `json:"notes"`

	EditedBy          string `json:"editedBy" binding:"required"`
	EditedByName      string `json:"editedByName"`
	ChangeDescription string `json:"changeDescription" binding:"required"`
}

// UpdateStatusRequest transitions an order to a new status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,orderstatus"`
}

// List returns orders, optionally filtered by sales rep or status
func (h *OrderHandler) List(c *gin.Context) {
	if rep := c.Query("salesRepId"); rep != "" {
		h.Success(c, h.facade.OrdersBySalesRep(rep))
		return
	}
	if status := c.Query("status"); status != "" {
		parsed := trade.OrderStatus(status)
		if !parsed.IsValid() {
			h.BadRequest(c, "Unknown order status: "+status)
			return
		}
		h.Success(c, h.facade.OrdersByStatus(parsed))
		return
	}
	h.Success(c, h.facade.Orders())
}

// Get returns a single order by server ID or temporary ID
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.OrderByID(c.Param("id"))
	if err != nil {
		h.NotFound(c, "Order not found")
		return
	}
	h.Success(c, order)
}

// Create submits an order. A 201 carries the server-acknowledged order; a 202
// carries the offline placeholder with its PENDING-SYNC order number.
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, queued, err := h.facade.AddOrder(c.Request.Context(), req.toDraft())
	if err != nil {
		h.DomainError(c, err)
		return
	}
	if queued {
		h.Accepted(c, order)
		return
	}
	h.Created(c, order)
}

// Update applies a partial edit to an order
func (h *OrderHandler) Update(c *gin.Context) {
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	update := trade.OrderUpdate{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		CustomerAddress: req.CustomerAddress,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Subtotal:        req.Subtotal,
		Tax:             req.Tax,
		Discount:        req.Discount,
		Total:           req.Total,
		Notes:           req.Notes,
	}
	if req.Status != nil {
		status := trade.OrderStatus(*req.Status)
		update.Status = &status
	}
	if req.Items != nil {
		items := make([]trade.OrderItem, len(req.Items))
		for i, item := range req.Items {
			items[i] = trade.OrderItem{
				ID:                 item.ID,
				ProductID:          item.ProductID,
				ProductName:        item.ProductName,
				ProductSKU:         item.ProductSKU,
				ProductImage:       item.ProductImage,
				SelectedVariations: item.SelectedVariations,
				Quantity:           item.Quantity,
				UnitPrice:          item.UnitPrice,
				TotalPrice:         item.TotalPrice,
			}
		}
		update.Items = items
	}
	meta := trade.EditMeta{
		EditedBy:          req.EditedBy,
		EditedByName:      req.EditedByName,
		ChangeDescription: req.ChangeDescription,
	}

	order, err := h.facade.UpdateOrder(c.Request.Context(), c.Param("id"), update, meta)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdateStatus transitions an order to a new status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), c.Param("id"), trade.OrderStatus(req.Status))
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Undo reverts the latest edit of an order
func (h *OrderHandler) Undo(c *gin.Context) {
	order, err := h.facade.UndoOrderEdit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, order)
}
