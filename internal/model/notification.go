package model

import (
	"github.com/google/uuid"
)

type NotificationTarget string

const (
	NotificationTargetAll      NotificationTarget = "ALL"
	NotificationTargetRole     NotificationTarget = "ROLE"
	NotificationTargetUnit     NotificationTarget = "UNIT"
	NotificationTargetSpecific NotificationTarget = "SPECIFIC"
)

// Notification is an authored staff announcement. SeenBy holds the ids of
// users who have opened it; a user's unread count is the visible list minus
// the ids already in SeenBy.
type Notification struct {
	Base
	Title        string             `db:"title" json:"title"`
	Content      string             `db:"content" json:"content"`
	Target       NotificationTarget `db:"target" json:"target"`
	TargetRole   string             `db:"target_role" json:"target_role,omitempty"`
	TargetUnitID *uuid.UUID         `db:"target_unit_id" json:"target_unit_id,omitempty"`
	TargetUserID *uuid.UUID         `db:"target_user_id" json:"target_user_id,omitempty"`
	AuthorID     uuid.UUID          `db:"author_id" json:"author_id"`
	SeenBy       []uuid.UUID        `db:"-" json:"seen_by"`
}

type CreateNotificationRequest struct {
	Title        string `json:"title" validate:"required,max=200"`
	Content      string `json:"content" validate:"required,max=5000"`
	Target       string `json:"target" validate:"required,oneof=ALL ROLE UNIT SPECIFIC"`
	TargetRole   string `json:"target_role" validate:"required_if=Target ROLE,omitempty,oneof=admin therapist receptionist coordinator"`
	TargetUnitID string `json:"target_unit_id" validate:"required_if=Target UNIT,omitempty,uuid"`
	TargetUserID string `json:"target_user_id" validate:"required_if=Target SPECIFIC,omitempty,uuid"`
}

// SeenBy reports whether userID has already seen the notification.
func (n *Notification) HasSeen(userID uuid.UUID) bool {
	for _, id := range n.SeenBy {
		if id == userID {
			return true
		}
	}
	return false
}
