package unit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicflow/clinic-api/internal/model"
	unitsvc "github.com/clinicflow/clinic-api/internal/service/unit"
	apperrors "github.com/clinicflow/clinic-api/pkg/errors"
	"github.com/clinicflow/clinic-api/pkg/validator"
)

type fakeUnitRepo struct {
	units map[uuid.UUID]*model.Unit
}

func newFakeUnitRepo() *fakeUnitRepo {
	return &fakeUnitRepo{units: make(map[uuid.UUID]*model.Unit)}
}

func (f *fakeUnitRepo) Create(_ context.Context, u *model.Unit) error {
	u.ID = uuid.New()
	f.units[u.ID] = u
	return nil
}

func (f *fakeUnitRepo) Get(_ context.Context, id uuid.UUID) (*model.Unit, error) {
	u, ok := f.units[id]
	if !ok {
		return nil, apperrors.NotFound("unit", nil)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUnitRepo) Update(_ context.Context, u *model.Unit) error {
	if _, ok := f.units[u.ID]; !ok {
		return apperrors.NotFound("unit", nil)
	}
	f.units[u.ID] = u
	return nil
}

func (f *fakeUnitRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.units[id]; !ok {
		return apperrors.NotFound("unit", nil)
	}
	delete(f.units, id)
	return nil
}

func (f *fakeUnitRepo) List(_ context.Context) ([]*model.Unit, error) {
	out := make([]*model.Unit, 0, len(f.units))
	for _, u := range f.units {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeUnitRepo) CreateHealthPlan(context.Context, *model.HealthPlan) error { return nil }
func (f *fakeUnitRepo) UpdateHealthPlan(context.Context, *model.HealthPlan) error { return nil }
func (f *fakeUnitRepo) DeleteHealthPlan(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}
func (f *fakeUnitRepo) ListHealthPlans(context.Context, uuid.UUID) ([]model.HealthPlan, error) {
	return nil, nil
}

func newTestRouter(repo *fakeUnitRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(unitsvc.NewService(repo), nil, validator.New())
	r := gin.New()
	api := r.Group("/api/v1")
	h.RegisterRoutes(api)
	h.RegisterAdminRoutes(api)
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestDeleteAbsentUnitReturnsFailedAction(t *testing.T) {
	r := newTestRouter(newFakeUnitRepo())

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/api/v1/units/%s", uuid.New()), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var result model.ActionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
	assert.Nil(t, result.Errors)
}

func TestCreateUnitValidationErrors(t *testing.T) {
	r := newTestRouter(newFakeUnitRepo())

	w := doJSON(r, http.MethodPost, "/api/v1/units", map[string]interface{}{
		"address": "Rua das Flores 10",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var result model.ActionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Empty(t, result.Message)
	assert.NotEmpty(t, result.Errors["name"])
}

func TestUnitLifecycleOverHTTP(t *testing.T) {
	repo := newFakeUnitRepo()
	r := newTestRouter(repo)

	w := doJSON(r, http.MethodPost, "/api/v1/units", map[string]interface{}{
		"name":    "Unidade Centro",
		"address": "Rua das Flores 10",
		"rooms":   []string{"Sala 1", "Sala 2"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data model.Unit `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEqual(t, uuid.Nil, created.Data.ID)

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/v1/units/%s", created.Data.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var result model.ActionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Nil(t, result.Errors)
}
