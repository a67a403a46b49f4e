package model

import (
	"github.com/google/uuid"
)

type SlotType string

const (
	SlotTypeFree SlotType = "free"
	SlotTypeBusy SlotType = "busy"
)

// AvailabilitySlot is one entry of a professional's weekly schedule. Times are
// "HH:MM" strings; the list is flat and not checked for overlaps.
type AvailabilitySlot struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Day       string    `db:"day" json:"day"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	Type      SlotType  `db:"slot_type" json:"type"`
}
