package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/salesapp/client/internal/application/facade"
)

// SyncHandler exposes sync control and status
type SyncHandler struct {
	BaseHandler
	facade *facade.Facade
}

// NewSyncHandler creates a sync handler
func NewSyncHandler(f *facade.Facade) *SyncHandler {
	return &SyncHandler{facade: f}
}

// RegisterRoutes registers sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.GET("/status", h.Status)
		sync.POST("", h.SyncNow)
		sync.POST("/drain", h.Drain)
	}
	rg.POST("/cache/clear", h.ClearCache)
	rg.GET("/stats", h.Stats)
}

// Status returns connectivity and sync state
func (h *SyncHandler) Status(c *gin.Context) {
	h.Success(c, h.facade.SyncStatus(c.Request.Context()))
}

// SyncNow triggers a full refresh of the cached data
func (h *SyncHandler) SyncNow(c *gin.Context) {
	result, err := h.facade.SyncNow(c.Request.Context())
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, gin.H{
		"synced":      result.Synced(),
		"failedTypes": len(result.Failed),
		"durationMs":  result.Duration.Milliseconds(),
	})
}

// DrainResponse reports the outcome of a queue drain
type DrainResponse struct {
	Synced    int `json:"synced"`
	Remaining int `json:"remaining"`
}

// Drain replays the queued offline orders. A drain that synced some orders
// before failing still reports its progress; remaining > 0 tells the client
// entries are left.
func (h *SyncHandler) Drain(c *gin.Context) {
	synced, remaining, err := h.facade.DrainQueue(c.Request.Context())
	if err != nil && synced == 0 {
		h.DomainError(c, err)
		return
	}
	h.Success(c, DrainResponse{Synced: synced, Remaining: remaining})
}

// ClearCache wipes the local cache and pending queue
func (h *SyncHandler) ClearCache(c *gin.Context) {
	if err := h.facade.ClearCache(c.Request.Context()); err != nil {
		h.DomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Stats returns dashboard statistics computed from the cache
func (h *SyncHandler) Stats(c *gin.Context) {
	h.Success(c, h.facade.Stats())
}
