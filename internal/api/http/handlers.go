package http

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/activity"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/catalog"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/diag"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/manifest"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/resolve"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/session"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/infrastructure/config"
)

// Handlers exposes the daemon state over the status API.
type Handlers struct {
	catalog      *catalog.Builder
	resolver     *resolve.Resolver
	orchestrator *session.Orchestrator
	activity     *activity.Log
	settings     config.Settings
	started      time.Time
}

// NewHandlers creates the status API handlers.
func NewHandlers(
	cat *catalog.Builder,
	resolver *resolve.Resolver,
	orchestrator *session.Orchestrator,
	log *activity.Log,
	settings config.Settings,
) *Handlers {
	return &Handlers{
		catalog:      cat,
		resolver:     resolver,
		orchestrator: orchestrator,
		activity:     log,
		settings:     settings,
		started:      time.Now(),
	}
}

// Health reports daemon liveness and index state.
func (h *Handlers) Health(c *gin.Context) {
	index := h.resolver.Index()
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"aliases":        index.Len(),
		"index_valid":    index.IsValid(),
		"fingerprint":    index.Fingerprint(),
	})
}

// ListApps returns the filtered application catalog.
func (h *Handlers) ListApps(c *gin.Context) {
	apps := make([]gin.H, 0, 64)
	for record := range h.catalog.Records() {
		apps = append(apps, gin.H{
			"id":         record.ID,
			"names":      record.DisplayNames,
			"exec":       record.Exec,
			"exec_base":  record.ExecBase,
			"icon":       record.Icon,
			"categories": record.Categories,
			"keywords":   record.Keywords,
			"source":     record.SourcePath,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(apps),
		"apps":    apps,
	})
}

// AppIcon serves the icon file for a catalog entry. Manifests that name a
// themed icon rather than a file path get a 404; theme lookup belongs to
// the desktop, not this daemon.
func (h *Handlers) AppIcon(c *gin.Context) {
	id := c.Param("id")

	var found *manifest.Record
	for record := range h.catalog.Records() {
		if record.ID == id {
			r := record
			found = &r
			break
		}
	}
	if found == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "unknown application: " + id,
		})
		return
	}

	icon := found.Icon
	if icon == "" {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "application has no icon",
		})
		return
	}
	if info, err := os.Stat(icon); err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "icon is not a readable file: " + icon,
		})
		return
	}

	mime, err := mimetype.DetectFile(icon)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.Header("Content-Type", mime.String())
	c.File(icon)
}

// Resolve maps a spoken name to an alias. With explain=true the response
// carries the full scored candidate list and score statistics.
func (h *Handlers) Resolve(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "missing query parameter q",
		})
		return
	}

	if c.Query("explain") == "true" {
		topN, _ := strconv.Atoi(c.DefaultQuery("top", "10"))
		explain := diag.BuildExplain(query, h.resolver.Explain(query), h.resolver.Threshold(), topN)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"explain": explain,
		})
		return
	}

	result := h.resolver.Resolve(query)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"query":   query,
		"found":   result.Found,
		"match":   result.Key,
		"command": result.Value,
		"score":   result.Score,
	})
}

type actionRequest struct {
	Application string `json:"application" binding:"required"`
}

// Launch runs the launch flow for the named application.
func (h *Handlers) Launch(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	ok := h.orchestrator.HandleLaunch(c.Request.Context(), req.Application)
	c.JSON(http.StatusOK, gin.H{
		"success":     ok,
		"application": req.Application,
	})
}

// Close runs the close flow for the named application.
func (h *Handlers) Close(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	ok := h.orchestrator.HandleClose(c.Request.Context(), req.Application)
	c.JSON(http.StatusOK, gin.H{
		"success":     ok,
		"application": req.Application,
	})
}

// Refresh invalidates the alias index and rebuilds it immediately.
func (h *Handlers) Refresh(c *gin.Context) {
	index := h.resolver.Index()
	index.Invalidate()
	index.Aliases()

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"aliases":     index.Len(),
		"fingerprint": index.Fingerprint(),
	})
}

// Activity returns recent launcher actions, newest first.
func (h *Handlers) Activity(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid limit",
		})
		return
	}

	entries := h.activity.Recent(limit)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(entries),
		"entries": entries,
	})
}

// Diagnostics streams a gzip'd support bundle: settings, the full alias
// table, and recent activity.
func (h *Handlers) Diagnostics(c *gin.Context) {
	index := h.resolver.Index()
	bundle := diag.Bundle{
		GeneratedAt: time.Now().UTC(),
		Fingerprint: index.Fingerprint(),
		Settings:    h.settings,
		Aliases:     index.Aliases(),
		Activity:    h.activity.Recent(h.activity.Len()),
	}

	c.Header("Content-Type", "application/gzip")
	c.Header("Content-Disposition", `attachment; filename="launcher-diag.json.gz"`)
	c.Status(http.StatusOK)
	if err := diag.WriteBundle(c.Writer, bundle); err != nil {
		// Headers already went out; nothing left to do but log via gin.
		_ = c.Error(err)
	}
}
