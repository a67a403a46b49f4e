package appointment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/clinicflow/clinic-api/internal/model"
	"github.com/clinicflow/clinic-api/internal/repository"
	"github.com/clinicflow/clinic-api/internal/service/availability"
)

const dateLayout = "2006-01-02"

type Service struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
}

func NewService(repo repository.AppointmentRepository, patientRepo repository.PatientRepository) *Service {
	return &Service{repo: repo, patientRepo: patientRepo}
}

func (s *Service) CreateAppointment(ctx context.Context, apt *model.Appointment) (*model.Appointment, error) {
	if err := validateAppointment(apt); err != nil {
		return nil, fmt.Errorf("invalid appointment: %w", err)
	}

	// Denormalize the patient name for the schedule view.
	patient, err := s.patientRepo.Get(ctx, apt.PatientID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve patient: %w", err)
	}
	apt.PatientName = patient.Name
	apt.Status = model.AppointmentStatusScheduled

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return apt, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return apt, nil
}

func (s *Service) UpdateAppointment(ctx context.Context, apt *model.Appointment) error {
	if err := s.repo.Update(ctx, apt); err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return nil
}

func (s *Service) CancelAppointment(ctx context.Context, id uuid.UUID) error {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get appointment: %w", err)
	}

	if apt.Status == model.AppointmentStatusCancelled {
		return fmt.Errorf("appointment is already cancelled")
	}
	if apt.Status == model.AppointmentStatusDone {
		return fmt.Errorf("cannot cancel a completed appointment")
	}

	apt.Status = model.AppointmentStatusCancelled
	if err := s.repo.Update(ctx, apt); err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}
	return nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// DaySchedule returns the bookings for one calendar date within a unit,
// sorted by start time. The filter and sort run over the already-loaded list;
// no further store round trips happen here.
func (s *Service) DaySchedule(ctx context.Context, unitID uuid.UUID, date string) ([]*model.Appointment, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	appointments, err := s.repo.List(ctx, &model.AppointmentFilters{UnitID: unitID})
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return AppointmentsOn(day, appointments), nil
}

// AppointmentsOn filters a flat appointment list down to the entries whose
// date matches the selected day (day/month/year equality) and sorts them by
// start time. Entries with unparseable dates are excluded.
func AppointmentsOn(day time.Time, list []*model.Appointment) []*model.Appointment {
	matched := make([]*model.Appointment, 0)
	for _, apt := range list {
		d, err := time.Parse(dateLayout, apt.Date)
		if err != nil {
			continue
		}
		if sameDay(d, day) {
			matched = append(matched, apt)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		mi, _ := availability.Minutes(matched[i].StartTime)
		mj, _ := availability.Minutes(matched[j].StartTime)
		return mi < mj
	})
	return matched
}

func sameDay(a, b time.Time) bool {
	return a.Day() == b.Day() && a.Month() == b.Month() && a.Year() == b.Year()
}

func validateAppointment(apt *model.Appointment) error {
	if apt.PatientID == uuid.Nil {
		return fmt.Errorf("patient ID is required")
	}
	if apt.UnitID == uuid.Nil {
		return fmt.Errorf("unit ID is required")
	}
	if apt.Professional == "" {
		return fmt.Errorf("professional is required")
	}
	if _, err := time.Parse(dateLayout, apt.Date); err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}
	start, ok := availability.Minutes(apt.StartTime)
	if !ok {
		return fmt.Errorf("invalid start time")
	}
	end, ok := availability.Minutes(apt.EndTime)
	if !ok {
		return fmt.Errorf("invalid end time")
	}
	if end <= start {
		return fmt.Errorf("end time must be after start time")
	}
	// Overlapping bookings for the same room or professional are accepted;
	// the schedule view surfaces them instead of the store rejecting them.
	return nil
}
