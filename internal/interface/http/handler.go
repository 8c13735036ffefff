package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/pollen-calendar/internal/domain/allergy"
	"github.com/yanqian/pollen-calendar/internal/domain/auth"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	allergySvc allergy.Service
	authSvc    auth.Service
	logger     *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(allergySvc allergy.Service, authSvc auth.Service, logger *slog.Logger) *Handler {
	return &Handler{
		allergySvc: allergySvc,
		authSvc:    authSvc,
		logger:     logger.With("component", "http.handler"),
	}
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Plants lists the tracked plants with their bloom windows and default levels.
func (h *Handler) Plants(c *gin.Context) {
	c.JSON(http.StatusOK, h.allergySvc.Plants(c.Request.Context()))
}

// Levels returns the caller's sensitivity levels merged over the defaults.
func (h *Handler) Levels(c *gin.Context) {
	resp, err := h.allergySvc.Levels(c.Request.Context(), userID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateLevels stores new sensitivity levels for the caller.
func (h *Handler) UpdateLevels(c *gin.Context) {
	var req allergy.UpdateLevelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	resp, err := h.allergySvc.UpdateLevels(c.Request.Context(), userID(c), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Calendar renders the marked calendar for one plant or all of them.
func (h *Handler) Calendar(c *gin.Context) {
	var req allergy.CalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	resp, err := h.allergySvc.Calendar(c.Request.Context(), userID(c), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Week returns the per-plant weekly table with daily peaks.
func (h *Handler) Week(c *gin.Context) {
	var req allergy.WeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	resp, err := h.allergySvc.Week(c.Request.Context(), userID(c), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Upcoming lists the nearest season starts.
func (h *Handler) Upcoming(c *gin.Context) {
	var req allergy.UpcomingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	resp, err := h.allergySvc.Upcoming(c.Request.Context(), userID(c), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Today summarizes what is blooming today along with advice.
func (h *Handler) Today(c *gin.Context) {
	var req allergy.TodayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	resp, err := h.allergySvc.Today(c.Request.Context(), userID(c), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
