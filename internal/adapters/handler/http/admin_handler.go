package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
	"github.com/comitanigiacomo/kanso-vitals/internal/core/services"
)

type SyncEnqueuer interface {
	Enqueue(reason string) bool
}

// AdminHandler serves the token-protected maintenance endpoints.
type AdminHandler struct {
	tracker *services.TrackerService
	sync    *services.SyncService
	worker  SyncEnqueuer
}

func NewAdminHandler(tracker *services.TrackerService, sync *services.SyncService, worker SyncEnqueuer) *AdminHandler {
	return &AdminHandler{
		tracker: tracker,
		sync:    sync,
		worker:  worker,
	}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/update", h.Update)
	router.GET("/export", h.Export)
	router.POST("/import", h.Import)
	router.POST("/clear", h.Clear)
}

// Update runs a provider sync. With ?async=true the sync is queued on the worker.
func (h *AdminHandler) Update(c *gin.Context) {
	if c.Query("async") == "true" && h.worker != nil {
		if !h.worker.Enqueue("manual") {
			respondError(c, http.StatusServiceUnavailable, "sync queue is full, try again later")
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
		return
	}

	result, err := h.sync.Sync(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"updated":    result.Updated,
		"fetched":    result.Fetched,
		"total_days": result.TotalDays,
	})
}

func (h *AdminHandler) Export(c *gin.Context) {
	snap, err := h.tracker.Export(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	filename := fmt.Sprintf("vitals-data-%s.json", time.Now().In(h.tracker.Location()).Format(domain.DateLayout))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.JSON(http.StatusOK, snap)
}

func (h *AdminHandler) Import(c *gin.Context) {
	var snap domain.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		badRequest(c, err)
		return
	}

	days, err := h.tracker.Import(c.Request.Context(), &snap)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Data imported",
		"days":    days,
	})
}

func (h *AdminHandler) Clear(c *gin.Context) {
	if err := h.tracker.Clear(c.Request.Context()); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "All data cleared"})
}
