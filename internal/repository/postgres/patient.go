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

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{NewBaseRepository(db)}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, name, email, phone, date_of_birth, guardian_name,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			patient.ID,
			patient.Name,
			patient.Email,
			patient.Phone,
			patient.DateOfBirth,
			patient.GuardianName,
			patient.Status,
			patient.CreatedAt,
			patient.UpdatedAt,
		)
		if err != nil {
			return err
		}
		return setPatientUnits(ctx, tx, patient.ID, patient.UnitIDs)
	})
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `
		SELECT id, name, email, phone, date_of_birth, guardian_name,
		       status, created_at, updated_at
		FROM patients
		WHERE id = $1
	`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	if patient.UnitIDs, err = r.listUnits(ctx, id); err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET name = $1, email = $2, phone = $3, guardian_name = $4,
		    status = $5, updated_at = $6
		WHERE id = $7
	`
	patient.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		patient.Name,
		patient.Email,
		patient.Phone,
		patient.GuardianName,
		patient.Status,
		patient.UpdatedAt,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("patient", nil)
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("patient", nil)
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	query := `
		SELECT DISTINCT p.id, p.name, p.email, p.phone, p.date_of_birth,
		       p.guardian_name, p.status, p.created_at, p.updated_at
		FROM patients p
		LEFT JOIN patient_units pu ON pu.patient_id = p.id
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.UnitID != uuid.Nil {
			query += fmt.Sprintf(" AND pu.unit_id = $%d", argCount)
			args = append(args, filters.UnitID)
			argCount++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND p.status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
		if filters.Search != "" {
			query += fmt.Sprintf(" AND p.name ILIKE $%d", argCount)
			args = append(args, "%"+filters.Search+"%")
			argCount++
		}
	}

	page := model.Pagination{}
	if filters != nil {
		page = filters.Pagination
	}
	query += fmt.Sprintf(" ORDER BY p.name ASC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, page.Limit(), page.Offset())

	var patients []*model.Patient
	err := r.db.SelectContext(ctx, &patients, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) SetUnits(ctx context.Context, patientID uuid.UUID, unitIDs []uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		return setPatientUnits(ctx, tx, patientID, unitIDs)
	})
}

func setPatientUnits(ctx context.Context, tx *sqlx.Tx, patientID uuid.UUID, unitIDs []uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM patient_units WHERE patient_id = $1`, patientID); err != nil {
		return fmt.Errorf("failed to clear patient units: %w", err)
	}
	for _, unitID := range unitIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO patient_units (patient_id, unit_id) VALUES ($1, $2)`,
			patientID, unitID,
		)
		if err != nil {
			return fmt.Errorf("failed to add patient unit: %w", err)
		}
	}
	return nil
}

func (r *patientRepository) listUnits(ctx context.Context, patientID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids,
		`SELECT unit_id FROM patient_units WHERE patient_id = $1`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patient units: %w", err)
	}
	return ids, nil
}

func (r *patientRepository) AddEvolutionRecord(ctx context.Context, record *model.EvolutionRecord) error {
	query := `
		INSERT INTO evolution_records (
			id, patient_id, author_id, author_name, discipline, content,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	record.ID = uuid.New()
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.PatientID,
		record.AuthorID,
		record.AuthorName,
		record.Discipline,
		record.Content,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add evolution record: %w", err)
	}
	return nil
}

func (r *patientRepository) ListEvolutionRecords(ctx context.Context, patientID uuid.UUID) ([]*model.EvolutionRecord, error) {
	query := `
		SELECT id, patient_id, author_id, author_name, discipline, content,
		       created_at, updated_at
		FROM evolution_records
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`
	var records []*model.EvolutionRecord
	err := r.db.SelectContext(ctx, &records, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evolution records: %w", err)
	}
	return records, nil
}

func (r *patientRepository) GetEvolutionRecord(ctx context.Context, patientID, recordID uuid.UUID) (*model.EvolutionRecord, error) {
	query := `
		SELECT id, patient_id, author_id, author_name, discipline, content,
		       created_at, updated_at
		FROM evolution_records
		WHERE id = $1 AND patient_id = $2
	`
	var record model.EvolutionRecord
	err := r.db.GetContext(ctx, &record, query, recordID, patientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("evolution record", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get evolution record: %w", err)
	}
	return &record, nil
}
