package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicflow/clinic-api/internal/middleware"
	"github.com/clinicflow/clinic-api/internal/model"
	"github.com/clinicflow/clinic-api/internal/service/appointment"
)

type fakeAppointmentRepo struct {
	appointments []*model.Appointment
}

func (f *fakeAppointmentRepo) Create(_ context.Context, apt *model.Appointment) error {
	f.appointments = append(f.appointments, apt)
	return nil
}

func (f *fakeAppointmentRepo) Get(context.Context, uuid.UUID) (*model.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointmentRepo) Update(context.Context, *model.Appointment) error { return nil }
func (f *fakeAppointmentRepo) Delete(context.Context, uuid.UUID) error          { return nil }

func (f *fakeAppointmentRepo) List(_ context.Context, _ *model.AppointmentFilters) ([]*model.Appointment, error) {
	return f.appointments, nil
}

func newSummaryEngine(repo *fakeAppointmentRepo, storeEnabled bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(appointment.NewService(repo, nil))
	r := gin.New()
	grp := r.Group("")
	grp.Use(middleware.RequireStore(storeEnabled))
	h.RegisterRoutes(grp)
	return r
}

func TestSummaryUnavailableWhenStoreDisabled(t *testing.T) {
	r := newSummaryEngine(nil, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/analysis", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var result model.ActionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
}

func TestSummaryCountsByStatus(t *testing.T) {
	repo := &fakeAppointmentRepo{appointments: []*model.Appointment{
		{Date: "2026-03-10", Status: model.AppointmentStatusScheduled},
		{Date: "2026-03-10", Status: model.AppointmentStatusScheduled},
		{Date: "2026-03-10", Status: model.AppointmentStatusCancelled},
	}}
	r := newSummaryEngine(repo, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/analysis?date=2026-03-10", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Date     string         `json:"date"`
			Total    int            `json:"total"`
			ByStatus map[string]int `json:"by_status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2026-03-10", resp.Data.Date)
	assert.Equal(t, 3, resp.Data.Total)
	assert.Equal(t, 2, resp.Data.ByStatus["agendado"])
	assert.Equal(t, 1, resp.Data.ByStatus["cancelado"])
}

func TestSummaryRejectsMalformedDate(t *testing.T) {
	r := newSummaryEngine(&fakeAppointmentRepo{}, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/analysis?date=10-03-2026", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
