package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicflow/clinic-api/internal/model"
)

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
	SetUnits(ctx context.Context, patientID uuid.UUID, unitIDs []uuid.UUID) error
	AddEvolutionRecord(ctx context.Context, record *model.EvolutionRecord) error
	ListEvolutionRecords(ctx context.Context, patientID uuid.UUID) ([]*model.EvolutionRecord, error)
	GetEvolutionRecord(ctx context.Context, patientID, recordID uuid.UUID) (*model.EvolutionRecord, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error)
	SetUnits(ctx context.Context, userID uuid.UUID, unitIDs []uuid.UUID) error
	ReplaceAvailability(ctx context.Context, userID uuid.UUID, slots []model.AvailabilitySlot) error
	ListAvailability(ctx context.Context, userID uuid.UUID) ([]model.AvailabilitySlot, error)
}

type UnitRepository interface {
	Create(ctx context.Context, unit *model.Unit) error
	Get(ctx context.Context, id uuid.UUID) (*model.Unit, error)
	Update(ctx context.Context, unit *model.Unit) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*model.Unit, error)
	CreateHealthPlan(ctx context.Context, plan *model.HealthPlan) error
	UpdateHealthPlan(ctx context.Context, plan *model.HealthPlan) error
	DeleteHealthPlan(ctx context.Context, unitID, planID uuid.UUID) error
	ListHealthPlans(ctx context.Context, unitID uuid.UUID) ([]model.HealthPlan, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Update(ctx context.Context, appointment *model.Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	Get(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListVisible(ctx context.Context, userID uuid.UUID, role string, unitIDs []uuid.UUID) ([]*model.Notification, error)
	MarkSeen(ctx context.Context, notificationID, userID uuid.UUID) error
}

type TokenRepository interface {
	StoreResetToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, retryCount int) error
}
