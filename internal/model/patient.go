package model

import (
	"time"

	"github.com/google/uuid"
)

type PatientStatus string

const (
	PatientStatusActive   PatientStatus = "active"
	PatientStatusInactive PatientStatus = "inactive"
)

type Patient struct {
	Base
	Name         string        `db:"name" json:"name"`
	Email        string        `db:"email" json:"email"`
	Phone        string        `db:"phone" json:"phone"`
	DateOfBirth  *time.Time    `db:"date_of_birth" json:"date_of_birth,omitempty"`
	GuardianName string        `db:"guardian_name" json:"guardian_name,omitempty"`
	Status       PatientStatus `db:"status" json:"status"`
	UnitIDs      []uuid.UUID   `db:"-" json:"unit_ids"`
}

// EvolutionRecord is a dated therapist note nested under a patient.
type EvolutionRecord struct {
	Base
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	AuthorID   uuid.UUID `db:"author_id" json:"author_id"`
	AuthorName string    `db:"author_name" json:"author_name"`
	Discipline string    `db:"discipline" json:"discipline"`
	Content    string    `db:"content" json:"content"`
}

type CreatePatientRequest struct {
	Name         string   `json:"name" validate:"required"`
	Email        string   `json:"email" validate:"required,email"`
	Phone        string   `json:"phone"`
	DateOfBirth  string   `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	GuardianName string   `json:"guardian_name"`
	UnitIDs      []string `json:"unit_ids" validate:"required,min=1,dive,uuid"`
}

type UpdatePatientRequest struct {
	Name         *string  `json:"name"`
	Email        *string  `json:"email" validate:"omitempty,email"`
	Phone        *string  `json:"phone"`
	GuardianName *string  `json:"guardian_name"`
	Status       *string  `json:"status" validate:"omitempty,oneof=active inactive"`
	UnitIDs      []string `json:"unit_ids" validate:"omitempty,dive,uuid"`
}

type CreateEvolutionRecordRequest struct {
	Discipline string `json:"discipline" validate:"required"`
	Content    string `json:"content" validate:"required,max=10000"`
}

type PatientFilters struct {
	UnitID uuid.UUID
	Status PatientStatus
	Search string
	Pagination
}
