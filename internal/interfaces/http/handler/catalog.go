package handler

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/salesapp/client/internal/application/facade"
	"github.com/salesapp/client/internal/domain/offline"
)

// CatalogHandler serves cached products, categories and customers, plus the
// online-only record writes.
type CatalogHandler struct {
	BaseHandler
	facade *facade.Facade
}

// NewCatalogHandler creates a catalog handler
func NewCatalogHandler(f *facade.Facade) *CatalogHandler {
	return &CatalogHandler{facade: f}
}

// RegisterRoutes registers catalog routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", h.ListProducts)
	rg.GET("/products/:id", h.GetProduct)
	rg.GET("/categories", h.ListCategories)
	rg.GET("/customers", h.ListCustomers)
	rg.GET("/customers/:id", h.GetCustomer)

	data := rg.Group("/data/:entityType")
	{
		data.POST("", h.CreateRecord)
		data.PATCH("/:id", h.UpdateRecord)
		data.DELETE("/:id", h.DeleteRecord)
	}
}

// ListProducts returns active products, filtered and sorted per query params
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products := h.facade.FilteredSortedProducts(
		c.Query("q"),
		c.Query("categoryId"),
		facade.ProductSort(c.DefaultQuery("sort", string(facade.SortNameAsc))),
	)
	h.Success(c, products)
}

// GetProduct returns a single cached product
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.facade.ProductByID(c.Param("id"))
	if err != nil {
		h.NotFound(c, "Product not found")
		return
	}
	h.Success(c, product)
}

// ListCategories returns active categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	h.Success(c, h.facade.ActiveCategories())
}

// ListCustomers returns active customers, optionally matching a query
func (h *CatalogHandler) ListCustomers(c *gin.Context) {
	h.Success(c, h.facade.SearchCustomers(c.Query("q")))
}

// GetCustomer returns a single cached customer
func (h *CatalogHandler) GetCustomer(c *gin.Context) {
	customer, err := h.facade.CustomerByID(c.Param("id"))
	if err != nil {
		h.NotFound(c, "Customer not found")
		return
	}
	h.Success(c, customer)
}

func (h *CatalogHandler) entityType(c *gin.Context) (offline.EntityType, bool) {
	entityType := offline.EntityType(c.Param("entityType"))
	if !entityType.IsValid() || entityType == offline.EntityOrders {
		h.BadRequest(c, "Unknown entity type: "+c.Param("entityType"))
		return "", false
	}
	return entityType, true
}

func rawBody(c *gin.Context) (json.RawMessage, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, io.ErrUnexpectedEOF
	}
	return body, nil
}

// CreateRecord creates a product, category or customer remotely
func (h *CatalogHandler) CreateRecord(c *gin.Context) {
	entityType, ok := h.entityType(c)
	if !ok {
		return
	}
	doc, err := rawBody(c)
	if err != nil {
		h.BadRequest(c, "Request body is not valid JSON")
		return
	}

	created, err := h.facade.CreateRecord(c.Request.Context(), entityType, doc)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Created(c, json.RawMessage(created))
}

// UpdateRecord updates a product, category or customer remotely
func (h *CatalogHandler) UpdateRecord(c *gin.Context) {
	entityType, ok := h.entityType(c)
	if !ok {
		return
	}
	doc, err := rawBody(c)
	if err != nil {
		h.BadRequest(c, "Request body is not valid JSON")
		return
	}

	updated, err := h.facade.UpdateRecord(c.Request.Context(), entityType, c.Param("id"), doc)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, json.RawMessage(updated))
}

// DeleteRecord removes a product, category or customer remotely
func (h *CatalogHandler) DeleteRecord(c *gin.Context) {
	entityType, ok := h.entityType(c)
	if !ok {
		return
	}

	if err := h.facade.DeleteRecord(c.Request.Context(), entityType, c.Param("id")); err != nil {
		h.DomainError(c, err)
		return
	}
	h.NoContent(c)
}
