package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/labmatch/internal/app/models/dto"
	"github.com/yigit/labmatch/internal/app/services"
	"github.com/yigit/labmatch/internal/middleware"
	"github.com/yigit/labmatch/internal/pkg/helpers"
)

// NotificationController serves the caller's notifications
type NotificationController struct {
	notificationService *services.NotificationService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService *services.NotificationService) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
	}
}

// ListNotifications returns the caller's notifications, newest first
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Only unread"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.NotificationListResponse}
// @Router /notifications [get]
func (c *NotificationController) ListNotifications(ctx *gin.Context) {
	unreadOnly, err := helpers.ParseBoolQuery(ctx, "unread")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	limit, err := helpers.ParseLimit(ctx, helpers.DefaultPageSize, helpers.MaxPageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items, unread, err := c.notificationService.List(ctx.Request.Context(), middleware.CurrentUserID(ctx), unreadOnly, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NotificationListResponse{
		Items:       items,
		UnreadCount: unread,
	}, ""))
}

// MarkRead marks one notification as read
// @Summary Mark notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} dto.APIResponse
// @Router /notifications/{id}/read [patch]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	if err := c.notificationService.MarkRead(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Notification marked as read"))
}
