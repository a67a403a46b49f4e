package unit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinicflow/clinic-api/internal/model"
	"github.com/clinicflow/clinic-api/internal/repository"
	"github.com/clinicflow/clinic-api/internal/repository/snapshot"
	apperrors "github.com/clinicflow/clinic-api/pkg/errors"
)

const directoryTTL = 5 * time.Minute

// Service manages units and their nested health plans. The unit directory
// changes rarely, so list reads go through a snapshot cache that mutations
// invalidate.
type Service struct {
	repo  repository.UnitRepository
	cache *snapshot.Cache[[]*model.Unit]
}

func NewService(repo repository.UnitRepository) *Service {
	s := &Service{repo: repo}
	s.cache = snapshot.NewCache("unit-directory", directoryTTL, s.loadUnits)
	return s
}

func (s *Service) CreateUnit(ctx context.Context, unit *model.Unit) (*model.Unit, error) {
	if unit.Name == "" {
		return nil, fmt.Errorf("unit name is required")
	}
	if err := s.repo.Create(ctx, unit); err != nil {
		return nil, fmt.Errorf("failed to create unit: %w", err)
	}
	s.cache.Invalidate()
	log.Info().Str("unit_id", unit.ID.String()).Msg("unit created")
	return unit, nil
}

func (s *Service) GetUnit(ctx context.Context, id uuid.UUID) (*model.Unit, error) {
	unit, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get unit: %w", err)
	}
	plans, err := s.repo.ListHealthPlans(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list health plans: %w", err)
	}
	unit.HealthPlans = plans
	return unit, nil
}

func (s *Service) UpdateUnit(ctx context.Context, unit *model.Unit) error {
	if err := s.repo.Update(ctx, unit); err != nil {
		return fmt.Errorf("failed to update unit: %w", err)
	}
	s.cache.Invalidate()
	return nil
}

// DeleteUnit removes a unit. Deleting an id that does not exist is reported
// as a failed action, not an error; nothing about the store changed and the
// caller gets a message saying so.
func (s *Service) DeleteUnit(ctx context.Context, id uuid.UUID) *model.ActionResult {
	if err := s.repo.Delete(ctx, id); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrNotFound {
			return model.ActionFailed(fmt.Sprintf("unit %s does not exist", id))
		}
		log.Error().Err(err).Str("unit_id", id.String()).Msg("failed to delete unit")
		return model.ActionFailed("failed to delete unit")
	}
	s.cache.Invalidate()
	return model.ActionOK("unit deleted")
}

// ListUnits serves the directory from the snapshot cache.
func (s *Service) ListUnits(ctx context.Context) ([]*model.Unit, error) {
	snap, err := s.cache.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	return snap.Value, nil
}

// DirectoryGeneration exposes the cache generation, mostly for diagnostics.
func (s *Service) DirectoryGeneration() uint64 {
	return s.cache.Generation()
}

func (s *Service) loadUnits(ctx context.Context) ([]*model.Unit, error) {
	units, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, unit := range units {
		plans, err := s.repo.ListHealthPlans(ctx, unit.ID)
		if err != nil {
			return nil, err
		}
		unit.HealthPlans = plans
	}
	return units, nil
}

func (s *Service) AddHealthPlan(ctx context.Context, plan *model.HealthPlan) (*model.HealthPlan, error) {
	if _, err := s.repo.Get(ctx, plan.UnitID); err != nil {
		return nil, fmt.Errorf("failed to resolve unit: %w", err)
	}
	if err := s.repo.CreateHealthPlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create health plan: %w", err)
	}
	s.cache.Invalidate()
	return plan, nil
}

func (s *Service) UpdateHealthPlan(ctx context.Context, plan *model.HealthPlan) error {
	if err := s.repo.UpdateHealthPlan(ctx, plan); err != nil {
		return fmt.Errorf("failed to update health plan: %w", err)
	}
	s.cache.Invalidate()
	return nil
}

func (s *Service) DeleteHealthPlan(ctx context.Context, unitID, planID uuid.UUID) error {
	if err := s.repo.DeleteHealthPlan(ctx, unitID, planID); err != nil {
		return fmt.Errorf("failed to delete health plan: %w", err)
	}
	s.cache.Invalidate()
	return nil
}
