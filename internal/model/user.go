package model

import (
	"github.com/google/uuid"
)

// Staff roles. Role gates access to admin-only views such as health-plan
// management and notification authoring.
const (
	RoleAdmin        = "admin"
	RoleTherapist    = "therapist"
	RoleReceptionist = "receptionist"
	RoleCoordinator  = "coordinator"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User represents a staff member
type User struct {
	Base
	Name         string             `db:"name" json:"name"`
	Email        string             `db:"email" json:"email"`
	Password     string             `db:"-" json:"password,omitempty"`
	PasswordHash string             `db:"password_hash" json:"-"`
	Role         string             `db:"role" json:"role"`
	Status       string             `db:"status" json:"status"`
	UnitIDs      []uuid.UUID        `db:"-" json:"unit_ids"`
	Availability []AvailabilitySlot `db:"-" json:"availability"`
}

type CreateUserRequest struct {
	Name     string   `json:"name" validate:"required"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	Role     string   `json:"role" validate:"required,oneof=admin therapist receptionist coordinator"`
	UnitIDs  []string `json:"unit_ids" validate:"omitempty,dive,uuid"`
}

type UpdateUserRequest struct {
	Name    *string  `json:"name"`
	Email   *string  `json:"email" validate:"omitempty,email"`
	Role    *string  `json:"role" validate:"omitempty,oneof=admin therapist receptionist coordinator"`
	Status  *string  `json:"status" validate:"omitempty,oneof=active inactive"`
	UnitIDs []string `json:"unit_ids" validate:"omitempty,dive,uuid"`
}

// UpdateAvailabilityRequest replaces a professional's weekly slot list.
type UpdateAvailabilityRequest struct {
	Slots []AvailabilitySlotRequest `json:"slots" validate:"required,dive"`
}

type AvailabilitySlotRequest struct {
	Day       string `json:"day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=free busy"`
}

type UserFilters struct {
	UnitID uuid.UUID
	Role   string
	Status string
	Pagination
}
