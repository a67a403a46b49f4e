package model

import (
	"github.com/google/uuid"
)

type AppointmentStatus string

// Appointment lifecycle statuses, kept in the product's source language.
const (
	AppointmentStatusScheduled AppointmentStatus = "agendado"
	AppointmentStatusDone      AppointmentStatus = "realizado"
	AppointmentStatusMissed    AppointmentStatus = "faltou"
	AppointmentStatusCancelled AppointmentStatus = "cancelado"
)

// Appointment is a booking on the schedule view. Date is an ISO date string
// and the times are "HH:MM". Overlaps for the same room or professional are
// not rejected at this layer.
type Appointment struct {
	Base
	PatientID    uuid.UUID         `db:"patient_id" json:"patient_id"`
	PatientName  string            `db:"patient_name" json:"patient_name"`
	Professional string            `db:"professional" json:"professional"`
	Discipline   string            `db:"discipline" json:"discipline"`
	Date         string            `db:"date" json:"date"`
	StartTime    string            `db:"start_time" json:"start_time"`
	EndTime      string            `db:"end_time" json:"end_time"`
	Room         string            `db:"room" json:"room"`
	UnitID       uuid.UUID         `db:"unit_id" json:"unit_id"`
	Status       AppointmentStatus `db:"status" json:"status"`
	Color        string            `db:"color" json:"color,omitempty"`
}

type CreateAppointmentRequest struct {
	PatientID    string `json:"patient_id" validate:"required,uuid"`
	Professional string `json:"professional" validate:"required"`
	Discipline   string `json:"discipline" validate:"required"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime    string `json:"start_time" validate:"required"`
	EndTime      string `json:"end_time" validate:"required"`
	Room         string `json:"room"`
	UnitID       string `json:"unit_id" validate:"required,uuid"`
	Color        string `json:"color"`
}

type UpdateAppointmentRequest struct {
	Date      *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Room      *string `json:"room"`
	Status    *string `json:"status" validate:"omitempty,oneof=agendado realizado faltou cancelado"`
	Color     *string `json:"color"`
}

type AppointmentFilters struct {
	UnitID       uuid.UUID
	PatientID    uuid.UUID
	Professional string
	Status       AppointmentStatus
	Date         string
}
