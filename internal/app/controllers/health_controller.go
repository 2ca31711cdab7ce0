package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/labmatch/internal/app/models/dto"
	"github.com/yigit/labmatch/internal/middleware"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports service and store health
type HealthController struct {
	store   Pinger
	version string
}

// NewHealthController creates a new HealthController
func NewHealthController(store Pinger, version string) *HealthController {
	return &HealthController{store: store, version: version}
}

// Health pings the store
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Failure 503 {object} dto.ErrorResponse "Store unreachable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.store.Ping(pingCtx); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrStoreUnavailable, "store unreachable"))
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"status":  "ok",
		"version": c.version,
	}, ""))
}
