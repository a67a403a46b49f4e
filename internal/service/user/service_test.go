package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicflow/clinic-api/internal/model"
	apperrors "github.com/clinicflow/clinic-api/pkg/errors"
	"github.com/clinicflow/clinic-api/pkg/security"
)

type fakeUserRepo struct {
	byID    map[uuid.UUID]*model.User
	byEmail map[string]*model.User
	slots   map[uuid.UUID][]model.AvailabilitySlot
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[uuid.UUID]*model.User),
		byEmail: make(map[string]*model.User),
		slots:   make(map[uuid.UUID][]model.AvailabilitySlot),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	u.ID = uuid.New()
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	return u, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return apperrors.NotFound("user", nil)
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := f.byID[id]
	if !ok {
		return apperrors.NotFound("user", nil)
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	u, ok := f.byID[id]
	if !ok {
		return apperrors.NotFound("user", nil)
	}
	delete(f.byEmail, u.Email)
	delete(f.byID, id)
	return nil
}

func (f *fakeUserRepo) List(context.Context, *model.UserFilters) ([]*model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) SetUnits(context.Context, uuid.UUID, []uuid.UUID) error { return nil }

func (f *fakeUserRepo) ReplaceAvailability(_ context.Context, userID uuid.UUID, slots []model.AvailabilitySlot) error {
	f.slots[userID] = slots
	return nil
}

func (f *fakeUserRepo) ListAvailability(_ context.Context, userID uuid.UUID) ([]model.AvailabilitySlot, error) {
	return f.slots[userID], nil
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc := NewService(newFakeUserRepo())

	u, err := svc.CreateUser(context.Background(), &model.User{
		Name:     "Ana",
		Email:    "ana@clinic.example",
		Password: "correct horse battery",
		Role:     model.RoleTherapist,
	})

	require.NoError(t, err)
	assert.Empty(t, u.Password)
	assert.NotEmpty(t, u.PasswordHash)
	assert.True(t, security.CheckPassword(u.PasswordHash, "correct horse battery"))
	assert.Equal(t, model.UserStatusActive, u.Status)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, &model.User{Name: "Ana", Email: "ana@clinic.example", Password: "password1", Role: model.RoleAdmin})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, &model.User{Name: "Outra Ana", Email: "ana@clinic.example", Password: "password2", Role: model.RoleAdmin})
	assert.Error(t, err)
}

func TestWeeklyFreeHours(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, &model.User{Name: "Ana", Email: "ana@clinic.example", Password: "password1", Role: model.RoleTherapist})
	require.NoError(t, err)

	err = svc.ReplaceAvailability(ctx, u.ID, []model.AvailabilitySlot{
		{Day: "monday", StartTime: "08:00", EndTime: "12:00", Type: model.SlotTypeFree},
		{Day: "monday", StartTime: "13:00", EndTime: "14:00", Type: model.SlotTypeBusy},
		{Day: "tuesday", StartTime: "09:00", EndTime: "10:30", Type: model.SlotTypeFree},
	})
	require.NoError(t, err)

	hours, err := svc.WeeklyFreeHours(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.5, hours)
}

func TestWeeklyFreeHoursNoSlots(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, &model.User{Name: "Ana", Email: "ana@clinic.example", Password: "password1", Role: model.RoleTherapist})
	require.NoError(t, err)

	hours, err := svc.WeeklyFreeHours(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, hours)
}

func TestReplaceAvailabilityUnknownUser(t *testing.T) {
	svc := NewService(newFakeUserRepo())
	err := svc.ReplaceAvailability(context.Background(), uuid.New(), nil)
	assert.Error(t, err)
}
