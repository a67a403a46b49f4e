package analysis

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicflow/clinic-api/internal/handler"
	"github.com/clinicflow/clinic-api/internal/model"
	"github.com/clinicflow/clinic-api/internal/service/appointment"
)

// Handler serves the analysis summary that replaced the old financial and
// reports pages. Those paths now redirect here.
type Handler struct {
	appointments *appointment.Service
}

func NewHandler(appointments *appointment.Service) *Handler {
	return &Handler{appointments: appointments}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/analysis", h.Summary)
}

// Summary reports today's bookings broken down by status. Date defaults to
// today, overridable with ?date=YYYY-MM-DD.
func (h *Handler) Summary(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid date"))
		return
	}

	appointments, err := h.appointments.ListAppointments(c.Request.Context(), &model.AppointmentFilters{Date: date})
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}

	byStatus := map[model.AppointmentStatus]int{}
	for _, apt := range appointments {
		byStatus[apt.Status]++
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"date":      date,
		"total":     len(appointments),
		"by_status": byStatus,
	}))
}
