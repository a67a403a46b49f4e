package patient

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicflow/clinic-api/internal/handler"
	"github.com/clinicflow/clinic-api/internal/middleware"
	"github.com/clinicflow/clinic-api/internal/model"
	"github.com/clinicflow/clinic-api/internal/repository"
	"github.com/clinicflow/clinic-api/internal/service/patient"
	"github.com/clinicflow/clinic-api/pkg/validator"
)

type Handler struct {
	service    *patient.Service
	outboxRepo repository.OutboxRepository
	validate   *validator.Validator
}

func NewHandler(service *patient.Service, outboxRepo repository.OutboxRepository, validate *validator.Validator) *Handler {
	return &Handler{
		service:    service,
		outboxRepo: outboxRepo,
		validate:   validate,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.CreatePatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.PUT("/:id", h.UpdatePatient)
		patients.DELETE("/:id", h.DeletePatient)
		patients.POST("/:id/deactivate", h.DeactivatePatient)

		patients.POST("/:id/records", h.AddEvolutionRecord)
		patients.GET("/:id/records", h.ListEvolutionRecords)
		patients.GET("/:id/records/:recordId", h.GetEvolutionRecord)
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.WriteInvalid(c, map[string][]string{"_": {err.Error()}})
		return
	}
	if fieldErrors := h.validate.Struct(&req); fieldErrors != nil {
		handler.WriteInvalid(c, fieldErrors)
		return
	}

	p := &model.Patient{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		GuardianName: req.GuardianName,
		UnitIDs:      parseUUIDs(req.UnitIDs),
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			handler.WriteInvalid(c, map[string][]string{"date_of_birth": {"invalid date format"}})
			return
		}
		p.DateOfBirth = &dob
	}

	p, err := h.service.CreatePatient(c.Request.Context(), p)
	if err != nil {
		handler.WriteFailure(c, err)
		return
	}
	handler.RecordEvent(c.Request.Context(), h.outboxRepo, "PATIENT_CREATE", p)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(p))
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	p, err := h.service.GetPatient(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.WriteAction(c, http.StatusBadRequest, model.ActionFailed("invalid patient ID"))
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.WriteInvalid(c, map[string][]string{"_": {err.Error()}})
		return
	}
	if fieldErrors := h.validate.Struct(&req); fieldErrors != nil {
		handler.WriteInvalid(c, fieldErrors)
		return
	}

	p, err := h.service.GetPatient(c.Request.Context(), id)
	if err != nil {
		handler.WriteFailure(c, err)
		return
	}
	applyPatientUpdate(p, &req)

	if err := h.service.UpdatePatient(c.Request.Context(), p); err != nil {
		handler.WriteFailure(c, err)
		return
	}

	handler.RecordEvent(c.Request.Context(), h.outboxRepo, "PATIENT_UPDATE", p)
	handler.WriteAction(c, http.StatusOK, model.ActionOK("patient updated"))
}

func (h *Handler) DeactivatePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.WriteAction(c, http.StatusBadRequest, model.ActionFailed("invalid patient ID"))
		return
	}

	if err := h.service.DeactivatePatient(c.Request.Context(), id); err != nil {
		handler.WriteFailure(c, err)
		return
	}

	handler.RecordEvent(c.Request.Context(), h.outboxRepo, "PATIENT_DEACTIVATE", gin.H{"id": id})
	handler.WriteAction(c, http.StatusOK, model.ActionOK("patient deactivated"))
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.WriteAction(c, http.StatusBadRequest, model.ActionFailed("invalid patient ID"))
		return
	}

	if err := h.service.DeletePatient(c.Request.Context(), id); err != nil {
		handler.WriteFailure(c, err)
		return
	}

	handler.RecordEvent(c.Request.Context(), h.outboxRepo, "PATIENT_DELETE", gin.H{"id": id})
	handler.WriteAction(c, http.StatusOK, model.ActionOK("patient deleted"))
}

func (h *Handler) ListPatients(c *gin.Context) {
	filters := &model.PatientFilters{
		Status: model.PatientStatus(c.Query("status")),
		Search: c.Query("search"),
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

	patients, err := h.service.ListPatients(c.Request.Context(), filters)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

func (h *Handler) AddEvolutionRecord(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.WriteAction(c, http.StatusBadRequest, model.ActionFailed("invalid patient ID"))
		return
	}

	var req model.CreateEvolutionRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.WriteInvalid(c, map[string][]string{"_": {err.Error()}})
		return
	}
	if fieldErrors := h.validate.Struct(&req); fieldErrors != nil {
		handler.WriteInvalid(c, fieldErrors)
		return
	}

	record := &model.EvolutionRecord{
		PatientID:  patientID,
		Discipline: req.Discipline,
		Content:    req.Content,
	}
	if claims := middleware.ClaimsFrom(c); claims != nil {
		record.AuthorID = claims.UserID
	}

	record, err = h.service.AddEvolutionRecord(c.Request.Context(), record)
	if err != nil {
		handler.WriteFailure(c, err)
		return
	}

	handler.RecordEvent(c.Request.Context(), h.outboxRepo, "EVOLUTION_RECORD_CREATE", record)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(record))
}

func (h *Handler) ListEvolutionRecords(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	records, err := h.service.ListEvolutionRecords(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(records))
}

func (h *Handler) GetEvolutionRecord(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}
	recordID, err := uuid.Parse(c.Param("recordId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid record ID"))
		return
	}

	record, err := h.service.GetEvolutionRecord(c.Request.Context(), patientID, recordID)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(record))
}

func applyPatientUpdate(p *model.Patient, req *model.UpdatePatientRequest) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Email != nil {
		p.Email = *req.Email
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.GuardianName != nil {
		p.GuardianName = *req.GuardianName
	}
	if req.Status != nil {
		p.Status = model.PatientStatus(*req.Status)
	}
	if req.UnitIDs != nil {
		p.UnitIDs = parseUUIDs(req.UnitIDs)
	}
}

// parseUUIDs assumes the ids already passed uuid validation.
func parseUUIDs(raw []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		if id, err := uuid.Parse(s); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
