package handler

import (
	"context"
	"net/http"

	"libmanage/internal/microservices/http-api/middleware"
	"libmanage/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	stats service.StatsService
}

func NewStatsHandler(stats service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/status", middleware.RequireAdmin(), h.Status)
}

// Status returns the dashboard snapshot
// GET /api/admin/status
func (h *StatsHandler) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	status, err := h.stats.Status(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
