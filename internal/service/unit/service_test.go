package unit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicflow/clinic-api/internal/model"
	apperrors "github.com/clinicflow/clinic-api/pkg/errors"
)

type fakeUnitRepo struct {
	units map[uuid.UUID]*model.Unit
	plans map[uuid.UUID][]model.HealthPlan
}

func newFakeUnitRepo() *fakeUnitRepo {
	return &fakeUnitRepo{
		units: make(map[uuid.UUID]*model.Unit),
		plans: make(map[uuid.UUID][]model.HealthPlan),
	}
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

func (f *fakeUnitRepo) CreateHealthPlan(_ context.Context, plan *model.HealthPlan) error {
	plan.ID = uuid.New()
	f.plans[plan.UnitID] = append(f.plans[plan.UnitID], *plan)
	return nil
}

func (f *fakeUnitRepo) UpdateHealthPlan(_ context.Context, plan *model.HealthPlan) error {
	plans := f.plans[plan.UnitID]
	for i := range plans {
		if plans[i].ID == plan.ID {
			plans[i] = *plan
			return nil
		}
	}
	return apperrors.NotFound("health plan", nil)
}

func (f *fakeUnitRepo) DeleteHealthPlan(_ context.Context, unitID, planID uuid.UUID) error {
	plans := f.plans[unitID]
	for i := range plans {
		if plans[i].ID == planID {
			f.plans[unitID] = append(plans[:i], plans[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFound("health plan", nil)
}

func (f *fakeUnitRepo) ListHealthPlans(_ context.Context, unitID uuid.UUID) ([]model.HealthPlan, error) {
	return f.plans[unitID], nil
}

func TestDeleteAbsentUnit(t *testing.T) {
	svc := NewService(newFakeUnitRepo())

	result := svc.DeleteUnit(context.Background(), uuid.New())

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
	assert.Nil(t, result.Errors)
}

func TestDeleteExistingUnit(t *testing.T) {
	repo := newFakeUnitRepo()
	svc := NewService(repo)

	u, err := svc.CreateUnit(context.Background(), &model.Unit{Name: "Unidade Centro"})
	require.NoError(t, err)

	result := svc.DeleteUnit(context.Background(), u.ID)
	assert.True(t, result.Success)
	assert.Empty(t, repo.units)
}

func TestListUnitsServedFromSnapshot(t *testing.T) {
	repo := newFakeUnitRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.CreateUnit(ctx, &model.Unit{Name: "Unidade Centro"})
	require.NoError(t, err)

	units, err := svc.ListUnits(ctx)
	require.NoError(t, err)
	require.Len(t, units, 1)
	gen := svc.DirectoryGeneration()

	// A mutation invalidates the snapshot; the next list refetches under a
	// newer generation.
	_, err = svc.CreateUnit(ctx, &model.Unit{Name: "Unidade Norte"})
	require.NoError(t, err)

	units, err = svc.ListUnits(ctx)
	require.NoError(t, err)
	assert.Len(t, units, 2)
	assert.Greater(t, svc.DirectoryGeneration(), gen)
}

func TestHealthPlanLifecycle(t *testing.T) {
	repo := newFakeUnitRepo()
	svc := NewService(repo)
	ctx := context.Background()

	u, err := svc.CreateUnit(ctx, &model.Unit{Name: "Unidade Centro"})
	require.NoError(t, err)

	plan, err := svc.AddHealthPlan(ctx, &model.HealthPlan{UnitID: u.ID, Name: "Plano Ouro", Active: true})
	require.NoError(t, err)

	plan.Coverage = "fisioterapia e fono"
	require.NoError(t, svc.UpdateHealthPlan(ctx, plan))

	got, err := svc.GetUnit(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got.HealthPlans, 1)
	assert.Equal(t, "fisioterapia e fono", got.HealthPlans[0].Coverage)

	require.NoError(t, svc.DeleteHealthPlan(ctx, u.ID, plan.ID))
	got, err = svc.GetUnit(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.HealthPlans)
}

func TestAddHealthPlanToAbsentUnit(t *testing.T) {
	svc := NewService(newFakeUnitRepo())

	_, err := svc.AddHealthPlan(context.Background(), &model.HealthPlan{
		UnitID: uuid.New(),
		Name:   "Plano Prata",
	})
	assert.Error(t, err)
}
