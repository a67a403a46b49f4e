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

type userRepository struct {
	BaseRepository
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{NewBaseRepository(db)}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			id, name, email, password_hash, role, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			user.ID,
			user.Name,
			user.Email,
			user.PasswordHash,
			user.Role,
			user.Status,
			user.CreatedAt,
			user.UpdatedAt,
		)
		if err != nil {
			return err
		}
		return setUserUnits(ctx, tx, user.ID, user.UnitIDs)
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, status, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var user model.User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("user", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.UnitIDs, err = r.listUnits(ctx, id); err != nil {
		return nil, err
	}
	if user.Availability, err = r.ListAvailability(ctx, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, status, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	var user model.User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("user", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, role = $3, status = $4, updated_at = $5
		WHERE id = $6
	`
	user.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		user.Name,
		user.Email,
		user.Role,
		user.Status,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("user", nil)
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		passwordHash, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("user", nil)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("user", nil)
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	query := `
		SELECT DISTINCT u.id, u.name, u.email, u.password_hash, u.role,
		       u.status, u.created_at, u.updated_at
		FROM users u
		LEFT JOIN user_units uu ON uu.user_id = u.id
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.UnitID != uuid.Nil {
			query += fmt.Sprintf(" AND uu.unit_id = $%d", argCount)
			args = append(args, filters.UnitID)
			argCount++
		}
		if filters.Role != "" {
			query += fmt.Sprintf(" AND u.role = $%d", argCount)
			args = append(args, filters.Role)
			argCount++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND u.status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
	}

	page := model.Pagination{}
	if filters != nil {
		page = filters.Pagination
	}
	query += fmt.Sprintf(" ORDER BY u.name ASC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, page.Limit(), page.Offset())

	var users []*model.User
	err := r.db.SelectContext(ctx, &users, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) SetUnits(ctx context.Context, userID uuid.UUID, unitIDs []uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		return setUserUnits(ctx, tx, userID, unitIDs)
	})
}

func setUserUnits(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, unitIDs []uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_units WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear user units: %w", err)
	}
	for _, unitID := range unitIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO user_units (user_id, unit_id) VALUES ($1, $2)`,
			userID, unitID,
		)
		if err != nil {
			return fmt.Errorf("failed to add user unit: %w", err)
		}
	}
	return nil
}

func (r *userRepository) listUnits(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids,
		`SELECT unit_id FROM user_units WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user units: %w", err)
	}
	return ids, nil
}

// ReplaceAvailability swaps the full weekly slot list in one transaction. The
// list is stored as-is; overlaps are not rejected.
func (r *userRepository) ReplaceAvailability(ctx context.Context, userID uuid.UUID, slots []model.AvailabilitySlot) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM availability_slots WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("failed to clear availability: %w", err)
		}
		for i := range slots {
			slots[i].ID = uuid.New()
			slots[i].UserID = userID
			_, err := tx.ExecContext(ctx,
				`INSERT INTO availability_slots (id, user_id, day, start_time, end_time, slot_type)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				slots[i].ID, userID, slots[i].Day, slots[i].StartTime, slots[i].EndTime, slots[i].Type,
			)
			if err != nil {
				return fmt.Errorf("failed to insert availability slot: %w", err)
			}
		}
		return nil
	})
}

func (r *userRepository) ListAvailability(ctx context.Context, userID uuid.UUID) ([]model.AvailabilitySlot, error) {
	query := `
		SELECT id, user_id, day, start_time, end_time, slot_type
		FROM availability_slots
		WHERE user_id = $1
		ORDER BY day, start_time
	`
	var slots []model.AvailabilitySlot
	err := r.db.SelectContext(ctx, &slots, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}
	return slots, nil
}
