package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicflow/clinic-api/internal/model"
	apperrors "github.com/clinicflow/clinic-api/pkg/errors"
)

type fakeNotificationRepo struct {
	byID map[uuid.UUID]*model.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{byID: make(map[uuid.UUID]*model.Notification)}
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	n.ID = uuid.New()
	f.byID[n.ID] = n
	return nil
}

func (f *fakeNotificationRepo) Get(_ context.Context, id uuid.UUID) (*model.Notification, error) {
	n, ok := f.byID[id]
	if !ok {
		return nil, apperrors.NotFound("notification", nil)
	}
	return n, nil
}

func (f *fakeNotificationRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return apperrors.NotFound("notification", nil)
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeNotificationRepo) ListVisible(_ context.Context, userID uuid.UUID, role string, unitIDs []uuid.UUID) ([]*model.Notification, error) {
	units := make(map[uuid.UUID]bool, len(unitIDs))
	for _, id := range unitIDs {
		units[id] = true
	}

	var out []*model.Notification
	for _, n := range f.byID {
		switch n.Target {
		case model.NotificationTargetAll:
			out = append(out, n)
		case model.NotificationTargetRole:
			if n.TargetRole == role {
				out = append(out, n)
			}
		case model.NotificationTargetUnit:
			if n.TargetUnitID != nil && units[*n.TargetUnitID] {
				out = append(out, n)
			}
		case model.NotificationTargetSpecific:
			if n.TargetUserID != nil && *n.TargetUserID == userID {
				out = append(out, n)
			}
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkSeen(_ context.Context, notificationID, userID uuid.UUID) error {
	n, ok := f.byID[notificationID]
	if !ok {
		return apperrors.NotFound("notification", nil)
	}
	if !n.HasSeen(userID) {
		n.SeenBy = append(n.SeenBy, userID)
	}
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	return u, nil
}

func (f *fakeUserRepo) Create(context.Context, *model.User) error { return nil }
func (f *fakeUserRepo) GetByEmail(context.Context, string) (*model.User, error) {
	return nil, apperrors.NotFound("user", nil)
}
func (f *fakeUserRepo) Update(context.Context, *model.User) error               { return nil }
func (f *fakeUserRepo) UpdatePassword(context.Context, uuid.UUID, string) error { return nil }
func (f *fakeUserRepo) Delete(context.Context, uuid.UUID) error                 { return nil }
func (f *fakeUserRepo) List(context.Context, *model.UserFilters) ([]*model.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) SetUnits(context.Context, uuid.UUID, []uuid.UUID) error { return nil }
func (f *fakeUserRepo) ReplaceAvailability(context.Context, uuid.UUID, []model.AvailabilitySlot) error {
	return nil
}
func (f *fakeUserRepo) ListAvailability(context.Context, uuid.UUID) ([]model.AvailabilitySlot, error) {
	return nil, nil
}

func newTestService(users map[uuid.UUID]*model.User) (*Service, *fakeNotificationRepo) {
	repo := newFakeNotificationRepo()
	return NewService(repo, &fakeUserRepo{users: users}), repo
}

func TestCountUnread(t *testing.T) {
	userID := uuid.New()
	other := uuid.New()

	list := []*model.Notification{
		{Title: "a"},
		{Title: "b", SeenBy: []uuid.UUID{userID}},
		{Title: "c", SeenBy: []uuid.UUID{other}},
	}

	assert.Equal(t, 2, CountUnread(list, userID))
	assert.Equal(t, 0, CountUnread(nil, userID))
}

func TestUnreadCountNeverNegative(t *testing.T) {
	userID := uuid.New()
	users := map[uuid.UUID]*model.User{
		userID: {Base: model.Base{ID: userID}, Role: model.RoleTherapist},
	}
	svc, repo := newTestService(users)

	n := &model.Notification{Title: "aviso", Content: "x", Target: model.NotificationTargetAll}
	_, err := svc.CreateNotification(context.Background(), n)
	require.NoError(t, err)

	count, err := svc.UnreadCount(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Marking seen repeatedly keeps the count at zero, never below.
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.MarkSeen(context.Background(), n.ID, userID))
	}
	count, err = svc.UnreadCount(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Len(t, repo.byID[n.ID].SeenBy, 1)
}

func TestVisibilityTargeting(t *testing.T) {
	unitID := uuid.New()
	therapist := uuid.New()
	admin := uuid.New()
	users := map[uuid.UUID]*model.User{
		therapist: {Base: model.Base{ID: therapist}, Role: model.RoleTherapist, UnitIDs: []uuid.UUID{unitID}},
		admin:     {Base: model.Base{ID: admin}, Role: model.RoleAdmin},
	}
	svc, _ := newTestService(users)

	ctx := context.Background()
	_, err := svc.CreateNotification(ctx, &model.Notification{Title: "todos", Content: "x", Target: model.NotificationTargetAll})
	require.NoError(t, err)
	_, err = svc.CreateNotification(ctx, &model.Notification{Title: "terapeutas", Content: "x", Target: model.NotificationTargetRole, TargetRole: model.RoleTherapist})
	require.NoError(t, err)
	_, err = svc.CreateNotification(ctx, &model.Notification{Title: "unidade", Content: "x", Target: model.NotificationTargetUnit, TargetUnitID: &unitID})
	require.NoError(t, err)
	_, err = svc.CreateNotification(ctx, &model.Notification{Title: "direto", Content: "x", Target: model.NotificationTargetSpecific, TargetUserID: &admin})
	require.NoError(t, err)

	forTherapist, err := svc.ListForUser(ctx, therapist)
	require.NoError(t, err)
	assert.Len(t, forTherapist, 3)

	forAdmin, err := svc.ListForUser(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, forAdmin, 2)
}

func TestCreateNotificationTargetValidation(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	tests := []struct {
		name string
		n    *model.Notification
	}{
		{"role target without role", &model.Notification{Title: "t", Content: "c", Target: model.NotificationTargetRole}},
		{"unit target without unit", &model.Notification{Title: "t", Content: "c", Target: model.NotificationTargetUnit}},
		{"specific target without user", &model.Notification{Title: "t", Content: "c", Target: model.NotificationTargetSpecific}},
		{"unknown target", &model.Notification{Title: "t", Content: "c", Target: "EVERYONE"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateNotification(ctx, tt.n)
			assert.Error(t, err)
		})
	}
}
