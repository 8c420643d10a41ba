package handler

import (
	"context"
	"net/http"

	"libmanage/internal/microservices/http-api/dto"
	"libmanage/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profiles service.ProfileService
	stats    service.StatsService
}

func NewProfileHandler(profiles service.ProfileService, stats service.StatsService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, stats: stats}
}

func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me/profile", h.Get)
	rg.PUT("/me/profile", h.Save)
}

// GET /api/me/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	profile, err := h.profiles.Get(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	counters, err := h.stats.ReaderSummary(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProfileResponse{UserProfile: profile, Borrowing: counters})
}

// PUT /api/me/profile
func (h *ProfileHandler) Save(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var in service.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	profile, err := h.profiles.Save(ctx, userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
