package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicflow/clinic-api/internal/model"
	"github.com/clinicflow/clinic-api/internal/repository"
	apperrors "github.com/clinicflow/clinic-api/pkg/errors"
)

type unitRepository struct {
	BaseRepository
}

func NewUnitRepository(db *sqlx.DB) repository.UnitRepository {
	return &unitRepository{NewBaseRepository(db)}
}

func (r *unitRepository) Create(ctx context.Context, unit *model.Unit) error {
	query := `
		INSERT INTO units (
			id, name, address, rooms, services, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	unit.ID = uuid.New()
	unit.CreatedAt = time.Now()
	unit.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		unit.ID,
		unit.Name,
		unit.Address,
		unit.Rooms,
		unit.Services,
		unit.CreatedAt,
		unit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create unit: %w", err)
	}
	return nil
}

func (r *unitRepository) Get(ctx context.Context, id uuid.UUID) (*model.Unit, error) {
	query := `
		SELECT id, name, address, rooms, services, created_at, updated_at
		FROM units
		WHERE id = $1
	`
	var unit model.Unit
	err := r.db.GetContext(ctx, &unit, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("unit", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get unit: %w", err)
	}

	if unit.HealthPlans, err = r.ListHealthPlans(ctx, id); err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepository) Update(ctx context.Context, unit *model.Unit) error {
	query := `
		UPDATE units
		SET name = $1, address = $2, rooms = $3, services = $4, updated_at = $5
		WHERE id = $6
	`
	unit.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		unit.Name,
		unit.Address,
		unit.Rooms,
		unit.Services,
		unit.UpdatedAt,
		unit.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update unit: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("unit", nil)
	}
	return nil
}

func (r *unitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM units WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete unit: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("unit", nil)
	}
	return nil
}

func (r *unitRepository) List(ctx context.Context) ([]*model.Unit, error) {
	query := `
		SELECT id, name, address, rooms, services, created_at, updated_at
		FROM units
		ORDER BY name ASC
	`
	var units []*model.Unit
	err := r.db.SelectContext(ctx, &units, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	return units, nil
}

func (r *unitRepository) CreateHealthPlan(ctx context.Context, plan *model.HealthPlan) error {
	query := `
		INSERT INTO health_plans (
			id, unit_id, name, coverage, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	plan.ID = uuid.New()
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		plan.ID,
		plan.UnitID,
		plan.Name,
		plan.Coverage,
		plan.Active,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create health plan: %w", err)
	}
	return nil
}

func (r *unitRepository) UpdateHealthPlan(ctx context.Context, plan *model.HealthPlan) error {
	query := `
		UPDATE health_plans
		SET name = $1, coverage = $2, active = $3, updated_at = $4
		WHERE id = $5 AND unit_id = $6
	`
	plan.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		plan.Name,
		plan.Coverage,
		plan.Active,
		plan.UpdatedAt,
		plan.ID,
		plan.UnitID,
	)
	if err != nil {
		return fmt.Errorf("failed to update health plan: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("health plan", nil)
	}
	return nil
}

func (r *unitRepository) DeleteHealthPlan(ctx context.Context, unitID, planID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM health_plans WHERE id = $1 AND unit_id = $2`, planID, unitID)
	if err != nil {
		return fmt.Errorf("failed to delete health plan: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("health plan", nil)
	}
	return nil
}

func (r *unitRepository) ListHealthPlans(ctx context.Context, unitID uuid.UUID) ([]model.HealthPlan, error) {
	query := `
		SELECT id, unit_id, name, coverage, active, created_at, updated_at
		FROM health_plans
		WHERE unit_id = $1
		ORDER BY name ASC
	`
	var plans []model.HealthPlan
	err := r.db.SelectContext(ctx, &plans, query, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to list health plans: %w", err)
	}
	return plans, nil
}
