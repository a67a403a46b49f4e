package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinicflow/clinic-api/internal/model"
	"github.com/clinicflow/clinic-api/internal/repository"
)

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreatePatient(ctx context.Context, patient *model.Patient) (*model.Patient, error) {
	if patient.Name == "" {
		return nil, fmt.Errorf("patient name is required")
	}
	patient.Status = model.PatientStatusActive

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	if len(patient.UnitIDs) > 0 {
		if err := s.repo.SetUnits(ctx, patient.ID, patient.UnitIDs); err != nil {
			return nil, fmt.Errorf("failed to assign units: %w", err)
		}
	}

	log.Info().Str("patient_id", patient.ID.String()).Msg("patient created")
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return patient, nil
}

func (s *Service) UpdatePatient(ctx context.Context, patient *model.Patient) error {
	if err := s.repo.Update(ctx, patient); err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	if patient.UnitIDs != nil {
		if err := s.repo.SetUnits(ctx, patient.ID, patient.UnitIDs); err != nil {
			return fmt.Errorf("failed to update patient units: %w", err)
		}
	}
	return nil
}

// DeactivatePatient is the soft delete: the record stays, the status flips.
func (s *Service) DeactivatePatient(ctx context.Context, id uuid.UUID) error {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get patient: %w", err)
	}
	patient.Status = model.PatientStatusInactive
	if err := s.repo.Update(ctx, patient); err != nil {
		return fmt.Errorf("failed to deactivate patient: %w", err)
	}
	return nil
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	log.Info().Str("patient_id", id.String()).Msg("patient deleted")
	return nil
}

func (s *Service) ListPatients(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	patients, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (s *Service) AddEvolutionRecord(ctx context.Context, record *model.EvolutionRecord) (*model.EvolutionRecord, error) {
	if _, err := s.repo.Get(ctx, record.PatientID); err != nil {
		return nil, fmt.Errorf("failed to resolve patient: %w", err)
	}
	if err := s.repo.AddEvolutionRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to add evolution record: %w", err)
	}
	return record, nil
}

func (s *Service) ListEvolutionRecords(ctx context.Context, patientID uuid.UUID) ([]*model.EvolutionRecord, error) {
	records, err := s.repo.ListEvolutionRecords(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evolution records: %w", err)
	}
	return records, nil
}

func (s *Service) GetEvolutionRecord(ctx context.Context, patientID, recordID uuid.UUID) (*model.EvolutionRecord, error) {
	record, err := s.repo.GetEvolutionRecord(ctx, patientID, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get evolution record: %w", err)
	}
	return record, nil
}
