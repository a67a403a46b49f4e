package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicflow/clinic-api/internal/email"
	"github.com/clinicflow/clinic-api/internal/model"
	pkgauth "github.com/clinicflow/clinic-api/pkg/auth"
	apperrors "github.com/clinicflow/clinic-api/pkg/errors"
	"github.com/clinicflow/clinic-api/pkg/security"
)

type fakeUserRepo struct {
	byID    map[uuid.UUID]*model.User
	byEmail map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[uuid.UUID]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (f *fakeUserRepo) add(u *model.User) {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	u.ID = uuid.New()
	f.add(u)
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

func (f *fakeUserRepo) Update(context.Context, *model.User) error { return nil }

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := f.byID[id]
	if !ok {
		return apperrors.NotFound("user", nil)
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUserRepo) Delete(context.Context, uuid.UUID) error { return nil }
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

type fakeTokenRepo struct {
	tokens map[string]uuid.UUID
	expiry map[string]time.Time
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{
		tokens: make(map[string]uuid.UUID),
		expiry: make(map[string]time.Time),
	}
}

func (f *fakeTokenRepo) StoreResetToken(_ context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	f.tokens[token] = userID
	f.expiry[token] = expiresAt
	return nil
}

func (f *fakeTokenRepo) ConsumeResetToken(_ context.Context, token string) (uuid.UUID, error) {
	userID, ok := f.tokens[token]
	if !ok || time.Now().After(f.expiry[token]) {
		return uuid.Nil, apperrors.NotFound("reset token", nil)
	}
	delete(f.tokens, token)
	return userID, nil
}

type captureMailer struct {
	to    string
	token string
}

func (m *captureMailer) SendPasswordReset(to, _, token string) error {
	m.to = to
	m.token = token
	return nil
}

func newTestService(users *fakeUserRepo, tokens *fakeTokenRepo, mailer email.Sender) *Service {
	ts := pkgauth.NewTokenService(pkgauth.Config{Secret: "test-secret", ExpiryHours: 1})
	return NewService(users, tokens, ts, mailer)
}

func seedUser(t *testing.T, users *fakeUserRepo, password string) *model.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	require.NoError(t, err)
	u := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Name:         "Ana",
		Email:        "ana@clinic.example",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Status:       model.UserStatusActive,
	}
	users.add(u)
	return u
}

func TestLoginSuccess(t *testing.T) {
	users := newFakeUserRepo()
	u := seedUser(t, users, "secret-password")
	svc := newTestService(users, newFakeTokenRepo(), email.NopSender{})

	resp, err := svc.Login(context.Background(), u.Email, "secret-password")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, model.RoleAdmin, resp.Role)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "secret-password")
	svc := newTestService(users, newFakeTokenRepo(), email.NopSender{})
	ctx := context.Background()

	_, wrongPassword := svc.Login(ctx, "ana@clinic.example", "not-the-password")
	_, unknownEmail := svc.Login(ctx, "nobody@clinic.example", "whatever-pass")

	assert.ErrorIs(t, wrongPassword, model.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, model.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLoginInactiveUser(t *testing.T) {
	users := newFakeUserRepo()
	u := seedUser(t, users, "secret-password")
	u.Status = model.UserStatusInactive
	svc := newTestService(users, newFakeTokenRepo(), email.NopSender{})

	_, err := svc.Login(context.Background(), u.Email, "secret-password")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestPasswordResetFlow(t *testing.T) {
	users := newFakeUserRepo()
	u := seedUser(t, users, "old-password")
	tokens := newFakeTokenRepo()
	mailer := &captureMailer{}
	svc := newTestService(users, tokens, mailer)
	ctx := context.Background()

	require.NoError(t, svc.RequestPasswordReset(ctx, u.Email))
	require.NotEmpty(t, mailer.token)
	assert.Equal(t, u.Email, mailer.to)

	require.NoError(t, svc.ConfirmPasswordReset(ctx, mailer.token, "new-password-123"))
	assert.True(t, security.CheckPassword(u.PasswordHash, "new-password-123"))

	// The token is single use.
	assert.Error(t, svc.ConfirmPasswordReset(ctx, mailer.token, "another-password"))
}

func TestPasswordResetUnknownEmailReportsSuccess(t *testing.T) {
	users := newFakeUserRepo()
	mailer := &captureMailer{}
	svc := newTestService(users, newFakeTokenRepo(), mailer)

	err := svc.RequestPasswordReset(context.Background(), "nobody@clinic.example")
	assert.NoError(t, err)
	assert.Empty(t, mailer.token)
}
