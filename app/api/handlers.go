package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/rss-base-sync/app/cfg"
	"github.com/lysyi3m/rss-base-sync/app/feed"
	"github.com/lysyi3m/rss-base-sync/app/syncer"
)

func NewHandler(scheduler *syncer.Scheduler, sources []feed.Source) *Handler {
	return &Handler{
		scheduler: scheduler,
		sources:   sources,
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   cfg.GetVersion(),
		"sources":   len(h.sources),
		"syncing":   h.scheduler.IsRunning(),
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	result, lastError := h.scheduler.LastResult()

	stats := gin.H{
		"sources": len(h.sources),
		"syncing": h.scheduler.IsRunning(),
	}
	if result != nil {
		stats["last_run"] = result
	}
	if lastError != "" {
		stats["last_error"] = lastError
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) TriggerSync(c *gin.Context) {
	if err := h.scheduler.TriggerSync(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "sync queued"})
}

func (h *Handler) ListSources(c *gin.Context) {
	sources := make([]gin.H, 0, len(h.sources))
	for _, source := range h.sources {
		sources = append(sources, gin.H{
			"name":    source.Name,
			"url":     source.URL,
			"filters": len(source.Filters),
		})
	}

	c.JSON(http.StatusOK, gin.H{"sources": sources})
}
