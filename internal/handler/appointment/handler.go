package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicflow/clinic-api/internal/handler"
	"github.com/clinicflow/clinic-api/internal/model"
	"github.com/clinicflow/clinic-api/internal/repository"
	"github.com/clinicflow/clinic-api/internal/service/appointment"
	"github.com/clinicflow/clinic-api/pkg/validator"
)

type Handler struct {
	service    *appointment.Service
	outboxRepo repository.OutboxRepository
	validate   *validator.Validator
}

func NewHandler(service *appointment.Service, outboxRepo repository.OutboxRepository, validate *validator.Validator) *Handler {
	return &Handler{
		service:    service,
		outboxRepo: outboxRepo,
		validate:   validate,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/schedule", h.DaySchedule)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.POST("/:id/cancel", h.CancelAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.WriteInvalid(c, map[string][]string{"_": {err.Error()}})
		return
	}
	if fieldErrors := h.validate.Struct(&req); fieldErrors != nil {
		handler.WriteInvalid(c, fieldErrors)
		return
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		handler.WriteInvalid(c, map[string][]string{"patient_id": {"invalid value"}})
		return
	}
	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		handler.WriteInvalid(c, map[string][]string{"unit_id": {"invalid value"}})
		return
	}

	apt := &model.Appointment{
		PatientID:    patientID,
		Professional: req.Professional,
		Discipline:   req.Discipline,
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Room:         req.Room,
		UnitID:       unitID,
		Color:        req.Color,
	}

	apt, err = h.service.CreateAppointment(c.Request.Context(), apt)
	if err != nil {
		handler.WriteFailure(c, err)
		return
	}

	handler.RecordEvent(c.Request.Context(), h.outboxRepo, "APPOINTMENT_CREATE", apt)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(apt))
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	apt, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.WriteAction(c, http.StatusBadRequest, model.ActionFailed("invalid appointment ID"))
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.WriteInvalid(c, map[string][]string{"_": {err.Error()}})
		return
	}
	if fieldErrors := h.validate.Struct(&req); fieldErrors != nil {
		handler.WriteInvalid(c, fieldErrors)
		return
	}

	apt, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		handler.WriteFailure(c, err)
		return
	}
	applyAppointmentUpdate(apt, &req)

	if err := h.service.UpdateAppointment(c.Request.Context(), apt); err != nil {
		handler.WriteFailure(c, err)
		return
	}

	handler.RecordEvent(c.Request.Context(), h.outboxRepo, "APPOINTMENT_UPDATE", apt)
	handler.WriteAction(c, http.StatusOK, model.ActionOK("appointment updated"))
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.WriteAction(c, http.StatusBadRequest, model.ActionFailed("invalid appointment ID"))
		return
	}

	if err := h.service.CancelAppointment(c.Request.Context(), id); err != nil {
		handler.WriteFailure(c, err)
		return
	}

	handler.RecordEvent(c.Request.Context(), h.outboxRepo, "APPOINTMENT_CANCEL", gin.H{"id": id})
	handler.WriteAction(c, http.StatusOK, model.ActionOK("appointment cancelled"))
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.WriteAction(c, http.StatusBadRequest, model.ActionFailed("invalid appointment ID"))
		return
	}

	if err := h.service.DeleteAppointment(c.Request.Context(), id); err != nil {
		handler.WriteFailure(c, err)
		return
	}

	handler.RecordEvent(c.Request.Context(), h.outboxRepo, "APPOINTMENT_DELETE", gin.H{"id": id})
	handler.WriteAction(c, http.StatusOK, model.ActionOK("appointment deleted"))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	filters := &model.AppointmentFilters{
		Professional: c.Query("professional"),
		Status:       model.AppointmentStatus(c.Query("status")),
		Date:         c.Query("date"),
	}
	if unitID := c.Query("unit_id"); unitID != "" {
		id, err := uuid.Parse(unitID)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid unit ID"))
			return
		}
		filters.UnitID = id
	}
	if patientID := c.Query("patient_id"); patientID != "" {
		id, err := uuid.Parse(patientID)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
			return
		}
		filters.PatientID = id
	}

	appointments, err := h.service.ListAppointments(c.Request.Context(), filters)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

// DaySchedule serves the calendar day view: one unit, one date, entries
// sorted by start time.
func (h *Handler) DaySchedule(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("date is required"))
		return
	}
	unitID, err := uuid.Parse(c.Query("unit_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid unit ID"))
		return
	}

	schedule, err := h.service.DaySchedule(c.Request.Context(), unitID, date)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(schedule))
}

func applyAppointmentUpdate(apt *model.Appointment, req *model.UpdateAppointmentRequest) {
	if req.Date != nil {
		apt.Date = *req.Date
	}
	if req.StartTime != nil {
		apt.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		apt.EndTime = *req.EndTime
	}
	if req.Room != nil {
		apt.Room = *req.Room
	}
	if req.Status != nil {
		apt.Status = model.AppointmentStatus(*req.Status)
	}
	if req.Color != nil {
		apt.Color = *req.Color
	}
}
