package unit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicflow/clinic-api/internal/handler"
	"github.com/clinicflow/clinic-api/internal/model"
	"github.com/clinicflow/clinic-api/internal/repository"
	"github.com/clinicflow/clinic-api/internal/service/unit"
	"github.com/clinicflow/clinic-api/pkg/validator"
)

type Handler struct {
	service    *unit.Service
	outboxRepo repository.OutboxRepository
	validate   *validator.Validator
}

func NewHandler(service *unit.Service, outboxRepo repository.OutboxRepository, validate *validator.Validator) *Handler {
	return &Handler{
		service:    service,
		outboxRepo: outboxRepo,
		validate:   validate,
	}
}

// RegisterRoutes wires the unit CRUD. Health-plan routes are registered
// separately so the role gate can protect them alone.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	units := r.Group("/units")
	{
		units.POST("", h.CreateUnit)
		units.GET("", h.ListUnits)
		units.GET("/:id", h.GetUnit)
		units.PUT("/:id", h.UpdateUnit)
		units.DELETE("/:id", h.DeleteUnit)

		units.GET("/:id/health-plans", h.ListHealthPlans)
	}
}

// RegisterAdminRoutes wires the health-plan mutations, admin-gated upstream.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	units := r.Group("/units")
	{
		units.POST("/:id/health-plans", h.AddHealthPlan)
		units.PUT("/:id/health-plans/:planId", h.UpdateHealthPlan)
		units.DELETE("/:id/health-plans/:planId", h.DeleteHealthPlan)
	}
}

func (h *Handler) CreateUnit(c *gin.Context) {
	var req model.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.WriteInvalid(c, map[string][]string{"_": {err.Error()}})
		return
	}
	if fieldErrors := h.validate.Struct(&req); fieldErrors != nil {
		handler.WriteInvalid(c, fieldErrors)
		return
	}

	u := &model.Unit{
		Name:     req.Name,
		Address:  req.Address,
		Rooms:    req.Rooms,
		Services: req.Services,
	}

	u, err := h.service.CreateUnit(c.Request.Context(), u)
	if err != nil {
		handler.WriteFailure(c, err)
		return
	}

	handler.RecordEvent(c.Request.Context(), h.outboxRepo, "UNIT_CREATE", u)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(u))
}

func (h *Handler) GetUnit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid unit ID"))
		return
	}

	u, err := h.service.GetUnit(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(u))
}

func (h *Handler) UpdateUnit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.WriteAction(c, http.StatusBadRequest, model.ActionFailed("invalid unit ID"))
		return
	}

	var req model.UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.WriteInvalid(c, map[string][]string{"_": {err.Error()}})
		return
	}

	u, err := h.service.GetUnit(c.Request.Context(), id)
	if err != nil {
		handler.WriteFailure(c, err)
		return
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Address != nil {
		u.Address = *req.Address
	}
	if req.Rooms != nil {
		u.Rooms = req.Rooms
	}
	if req.Services != nil {
		u.Services = req.Services
	}

	if err := h.service.UpdateUnit(c.Request.Context(), u); err != nil {
		handler.WriteFailure(c, err)
		return
	}

	handler.RecordEvent(c.Request.Context(), h.outboxRepo, "UNIT_UPDATE", u)
	handler.WriteAction(c, http.StatusOK, model.ActionOK("unit updated"))
}

// DeleteUnit reports a missing unit as a failed action, not a panic or a
// generic 500.
func (h *Handler) DeleteUnit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.WriteAction(c, http.StatusBadRequest, model.ActionFailed("invalid unit ID"))
		return
	}

	result := h.service.DeleteUnit(c.Request.Context(), id)
	if !result.Success {
		handler.WriteAction(c, http.StatusNotFound, result)
		return
	}

	handler.RecordEvent(c.Request.Context(), h.outboxRepo, "UNIT_DELETE", gin.H{"id": id})
	handler.WriteAction(c, http.StatusOK, result)
}

func (h *Handler) ListUnits(c *gin.Context) {
	units, err := h.service.ListUnits(c.Request.Context())
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(units))
}

func (h *Handler) AddHealthPlan(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.WriteAction(c, http.StatusBadRequest, model.ActionFailed("invalid unit ID"))
		return
	}

	var req model.CreateHealthPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.WriteInvalid(c, map[string][]string{"_": {err.Error()}})
		return
	}
	if fieldErrors := h.validate.Struct(&req); fieldErrors != nil {
		handler.WriteInvalid(c, fieldErrors)
		return
	}

	plan := &model.HealthPlan{
		UnitID:   unitID,
		Name:     req.Name,
		Coverage: req.Coverage,
		Active:   true,
	}
	if req.Active != nil {
		plan.Active = *req.Active
	}

	plan, err = h.service.AddHealthPlan(c.Request.Context(), plan)
	if err != nil {
		handler.WriteFailure(c, err)
		return
	}

	handler.RecordEvent(c.Request.Context(), h.outboxRepo, "HEALTH_PLAN_CREATE", plan)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(plan))
}

func (h *Handler) UpdateHealthPlan(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.WriteAction(c, http.StatusBadRequest, model.ActionFailed("invalid unit ID"))
		return
	}
	planID, err := uuid.Parse(c.Param("planId"))
	if err != nil {
		handler.WriteAction(c, http.StatusBadRequest, model.ActionFailed("invalid health plan ID"))
		return
	}

	var req model.UpdateHealthPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.WriteInvalid(c, map[string][]string{"_": {err.Error()}})
		return
	}

	plans, err := h.service.GetUnit(c.Request.Context(), unitID)
	if err != nil {
		handler.WriteFailure(c, err)
		return
	}
	var plan *model.HealthPlan
	for i := range plans.HealthPlans {
		if plans.HealthPlans[i].ID == planID {
			plan = &plans.HealthPlans[i]
			break
		}
	}
	if plan == nil {
		handler.WriteAction(c, http.StatusNotFound, model.ActionFailed("health plan not found"))
		return
	}

	if req.Name != nil {
		plan.Name = *req.Name
	}
	if req.Coverage != nil {
		plan.Coverage = *req.Coverage
	}
	if req.Active != nil {
		plan.Active = *req.Active
	}

	if err := h.service.UpdateHealthPlan(c.Request.Context(), plan); err != nil {
		handler.WriteFailure(c, err)
		return
	}

	handler.RecordEvent(c.Request.Context(), h.outboxRepo, "HEALTH_PLAN_UPDATE", plan)
	handler.WriteAction(c, http.StatusOK, model.ActionOK("health plan updated"))
}

func (h *Handler) DeleteHealthPlan(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.WriteAction(c, http.StatusBadRequest, model.ActionFailed("invalid unit ID"))
		return
	}
	planID, err := uuid.Parse(c.Param("planId"))
	if err != nil {
		handler.WriteAction(c, http.StatusBadRequest, model.ActionFailed("invalid health plan ID"))
		return
	}

	if err := h.service.DeleteHealthPlan(c.Request.Context(), unitID, planID); err != nil {
		handler.WriteFailure(c, err)
		return
	}

	handler.RecordEvent(c.Request.Context(), h.outboxRepo, "HEALTH_PLAN_DELETE", gin.H{"unit_id": unitID, "id": planID})
	handler.WriteAction(c, http.StatusOK, model.ActionOK("health plan deleted"))
}

func (h *Handler) ListHealthPlans(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid unit ID"))
		return
	}

	u, err := h.service.GetUnit(c.Request.Context(), unitID)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(u.HealthPlans))
}
