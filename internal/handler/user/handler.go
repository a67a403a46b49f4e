package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicflow/clinic-api/internal/handler"
	"github.com/clinicflow/clinic-api/internal/model"
	"github.com/clinicflow/clinic-api/internal/repository"
	"github.com/clinicflow/clinic-api/internal/service/user"
	"github.com/clinicflow/clinic-api/pkg/validator"
)

type Handler struct {
	service    *user.Service
	outboxRepo repository.OutboxRepository
	validate   *validator.Validator
}

func NewHandler(service *user.Service, outboxRepo repository.OutboxRepository, validate *validator.Validator) *Handler {
	return &Handler{
		service:    service,
		outboxRepo: outboxRepo,
		validate:   validate,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)

		users.PUT("/:id/availability", h.ReplaceAvailability)
		users.GET("/:id/availability/free-hours", h.FreeHours)
	}
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.WriteInvalid(c, map[string][]string{"_": {err.Error()}})
		return
	}
	if fieldErrors := h.validate.Struct(&req); fieldErrors != nil {
		handler.WriteInvalid(c, fieldErrors)
		return
	}

	u := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		UnitIDs:  parseUUIDs(req.UnitIDs),
	}

	u, err := h.service.CreateUser(c.Request.Context(), u)
	if err != nil {
		handler.WriteFailure(c, err)
		return
	}

	handler.RecordEvent(c.Request.Context(), h.outboxRepo, "USER_CREATE", gin.H{"id": u.ID, "role": u.Role})
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(u))
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	u, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(u))
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.WriteAction(c, http.StatusBadRequest, model.ActionFailed("invalid user ID"))
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.WriteInvalid(c, map[string][]string{"_": {err.Error()}})
		return
	}
	if fieldErrors := h.validate.Struct(&req); fieldErrors != nil {
		handler.WriteInvalid(c, fieldErrors)
		return
	}

	u, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		handler.WriteFailure(c, err)
		return
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.Status != nil {
		u.Status = *req.Status
	}
	if req.UnitIDs != nil {
		u.UnitIDs = parseUUIDs(req.UnitIDs)
	}

	if err := h.service.UpdateUser(c.Request.Context(), u); err != nil {
		handler.WriteFailure(c, err)
		return
	}

	handler.RecordEvent(c.Request.Context(), h.outboxRepo, "USER_UPDATE", gin.H{"id": u.ID})
	handler.WriteAction(c, http.StatusOK, model.ActionOK("user updated"))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.WriteAction(c, http.StatusBadRequest, model.ActionFailed("invalid user ID"))
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		handler.WriteFailure(c, err)
		return
	}

	handler.RecordEvent(c.Request.Context(), h.outboxRepo, "USER_DELETE", gin.H{"id": id})
	handler.WriteAction(c, http.StatusOK, model.ActionOK("user deleted"))
}

func (h *Handler) ListUsers(c *gin.Context) {
	filters := &model.UserFilters{
		Role:   c.Query("role"),
		Status: c.Query("status"),
	}
	if err := c.ShouldBindQuery(&filters.Pagination); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid pagination"))
		return
	}
	if unitID := c.Query("unit_id"); unitID != "" {
		id, err := uuid.Parse(unitID)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid unit ID"))
			return
		}
		filters.UnitID = id
	}

	users, err := h.service.ListUsers(c.Request.Context(), filters)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(users))
}

// ReplaceAvailability swaps the whole weekly slot list.
func (h *Handler) ReplaceAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.WriteAction(c, http.StatusBadRequest, model.ActionFailed("invalid user ID"))
		return
	}

	var req model.UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.WriteInvalid(c, map[string][]string{"_": {err.Error()}})
		return
	}
	if fieldErrors := h.validate.Struct(&req); fieldErrors != nil {
		handler.WriteInvalid(c, fieldErrors)
		return
	}

	slots := make([]model.AvailabilitySlot, 0, len(req.Slots))
	for _, s := range req.Slots {
		slots = append(slots, model.AvailabilitySlot{
			Day:       s.Day,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Type:      model.SlotType(s.Type),
		})
	}

	if err := h.service.ReplaceAvailability(c.Request.Context(), id, slots); err != nil {
		handler.WriteFailure(c, err)
		return
	}

	handler.RecordEvent(c.Request.Context(), h.outboxRepo, "AVAILABILITY_REPLACE", gin.H{"user_id": id})
	handler.WriteAction(c, http.StatusOK, model.ActionOK("availability updated"))
}

func (h *Handler) FreeHours(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	hours, err := h.service.WeeklyFreeHours(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"free_hours": hours}))
}

func parseUUIDs(raw []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		if id, err := uuid.Parse(s); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
