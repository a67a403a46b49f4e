package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinicflow/clinic-api/internal/model"
	"github.com/clinicflow/clinic-api/internal/repository"
	"github.com/clinicflow/clinic-api/internal/service/availability"
	"github.com/clinicflow/clinic-api/pkg/security"
)

type Service struct {
	repo repository.UserRepository
}

func NewService(repo repository.UserRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if user.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if existing, _ := s.repo.GetByEmail(ctx, user.Email); existing != nil {
		return nil, fmt.Errorf("email %s is already registered", user.Email)
	}

	hash, err := security.HashPassword(user.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	user.Password = ""
	user.Status = model.UserStatusActive

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if len(user.UnitIDs) > 0 {
		if err := s.repo.SetUnits(ctx, user.ID, user.UnitIDs); err != nil {
			return nil, fmt.Errorf("failed to assign units: %w", err)
		}
	}

	log.Info().Str("user_id", user.ID.String()).Str("role", user.Role).Msg("user created")
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, user *model.User) error {
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if user.UnitIDs != nil {
		if err := s.repo.SetUnits(ctx, user.ID, user.UnitIDs); err != nil {
			return fmt.Errorf("failed to update user units: %w", err)
		}
	}
	return nil
}

func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *Service) ListUsers(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	users, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ReplaceAvailability swaps a professional's whole weekly slot list in one
// shot. Partial edits are not supported; the client always sends the full
// week.
func (s *Service) ReplaceAvailability(ctx context.Context, userID uuid.UUID, slots []model.AvailabilitySlot) error {
	if _, err := s.repo.Get(ctx, userID); err != nil {
		return fmt.Errorf("failed to resolve user: %w", err)
	}
	for i := range slots {
		slots[i].UserID = userID
	}
	if err := s.repo.ReplaceAvailability(ctx, userID, slots); err != nil {
		return fmt.Errorf("failed to replace availability: %w", err)
	}
	return nil
}

// WeeklyFreeHours sums a professional's free slots into hours, rounded to one
// decimal place.
func (s *Service) WeeklyFreeHours(ctx context.Context, userID uuid.UUID) (float64, error) {
	slots, err := s.repo.ListAvailability(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to list availability: %w", err)
	}
	return availability.FreeHours(slots), nil
}
