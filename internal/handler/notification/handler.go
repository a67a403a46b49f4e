package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicflow/clinic-api/internal/handler"
	"github.com/clinicflow/clinic-api/internal/middleware"
	"github.com/clinicflow/clinic-api/internal/model"
	"github.com/clinicflow/clinic-api/internal/repository"
	"github.com/clinicflow/clinic-api/internal/service/notification"
	"github.com/clinicflow/clinic-api/pkg/validator"
)

type Handler struct {
	service    *notification.Service
	outboxRepo repository.OutboxRepository
	validate   *validator.Validator
}

func NewHandler(service *notification.Service, outboxRepo repository.OutboxRepository, validate *validator.Validator) *Handler {
	return &Handler{
		service:    service,
		outboxRepo: outboxRepo,
		validate:   validate,
	}
}

// RegisterRoutes wires the read side: list, unread count, mark seen.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("", h.ListNotifications)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.POST("/:id/seen", h.MarkSeen)
	}
}

// RegisterAdminRoutes wires authoring, gated to admin/coordinator upstream.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.POST("", h.CreateNotification)
		notifications.DELETE("/:id", h.DeleteNotification)
	}
}

func (h *Handler) CreateNotification(c *gin.Context) {
	var req model.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.WriteInvalid(c, map[string][]string{"_": {err.Error()}})
		return
	}
	if fieldErrors := h.validate.Struct(&req); fieldErrors != nil {
		handler.WriteInvalid(c, fieldErrors)
		return
	}

	n := &model.Notification{
		Title:      req.Title,
		Content:    req.Content,
		Target:     model.NotificationTarget(req.Target),
		TargetRole: req.TargetRole,
	}
	if req.TargetUnitID != "" {
		id, err := uuid.Parse(req.TargetUnitID)
		if err != nil {
			handler.WriteInvalid(c, map[string][]string{"target_unit_id": {"invalid value"}})
			return
		}
		n.TargetUnitID = &id
	}
	if req.TargetUserID != "" {
		id, err := uuid.Parse(req.TargetUserID)
		if err != nil {
			handler.WriteInvalid(c, map[string][]string{"target_user_id": {"invalid value"}})
			return
		}
		n.TargetUserID = &id
	}
	if claims := middleware.ClaimsFrom(c); claims != nil {
		n.AuthorID = claims.UserID
	}

	n, err := h.service.CreateNotification(c.Request.Context(), n)
	if err != nil {
		handler.WriteFailure(c, err)
		return
	}

	handler.RecordEvent(c.Request.Context(), h.outboxRepo, "NOTIFICATION_CREATE", n)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(n))
}

func (h *Handler) DeleteNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.WriteAction(c, http.StatusBadRequest, model.ActionFailed("invalid notification ID"))
		return
	}

	if err := h.service.DeleteNotification(c.Request.Context(), id); err != nil {
		handler.WriteFailure(c, err)
		return
	}

	handler.RecordEvent(c.Request.Context(), h.outboxRepo, "NOTIFICATION_DELETE", gin.H{"id": id})
	handler.WriteAction(c, http.StatusOK, model.ActionOK("notification deleted"))
}

func (h *Handler) ListNotifications(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	list, err := h.service.ListForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(list))
}

func (h *Handler) UnreadCount(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"unread": count}))
}

// MarkSeen is idempotent: marking twice leaves the seen set unchanged.
func (h *Handler) MarkSeen(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		handler.WriteAction(c, http.StatusUnauthorized, model.ActionFailed("unauthorized"))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.WriteAction(c, http.StatusBadRequest, model.ActionFailed("invalid notification ID"))
		return
	}

	if err := h.service.MarkSeen(c.Request.Context(), id, claims.UserID); err != nil {
		handler.WriteFailure(c, err)
		return
	}
	handler.WriteAction(c, http.StatusOK, model.ActionOK("notification marked as seen"))
}
