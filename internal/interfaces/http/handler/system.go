package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shop/backend/internal/application/softdelete"
	"github.com/shop/backend/internal/infrastructure/persistence"
	"github.com/shop/backend/internal/interfaces/http/dto"
)

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	db        *persistence.Database
	deleter   *softdelete.Manager
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database, deleter *softdelete.Manager) *SystemHandler {
	return &SystemHandler{
		db:        db,
		deleter:   deleter,
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string                       `json:"status"`
	Database  string                       `json:"database"`
	Pool      *persistence.ConnectionStats `json:"pool,omitempty"`
	Uptime    string                       `json:"uptime"`
	GoVersion string                       `json:"go_version"`
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Database:  "ok",
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		GoVersion: runtime.Version(),
	}

	if err := h.db.Ping(); err != nil {
		resp.Status = "degraded"
		resp.Database = "unreachable"
		c.JSON(http.StatusServiceUnavailable, dto.NewSuccessResponse(resp))
		return
	}
	if stats, err := h.db.Stats(); err == nil {
		resp.Pool = &stats
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// UndoStatsResponse reports the state of the pending undo-token pool
type UndoStatsResponse struct {
	ActiveTokens int    `json:"active_tokens"`
	SweptTokens  int    `json:"swept_tokens"`
	Timestamp    string `json:"timestamp"`
}

// UndoStats handles GET /system/undo-stats. The call itself sweeps expired
// tokens, so the reported active count is exact at the reported timestamp.
func (h *SystemHandler) UndoStats(c *gin.Context) {
	swept := h.deleter.CleanupExpiredTokens()
	resp := UndoStatsResponse{
		ActiveTokens: h.deleter.ActiveTokenCount(),
		SweptTokens:  swept,
		Timestamp:    time.Now().Format(time.RFC3339),
	}
	h.Success(c, resp)
}
