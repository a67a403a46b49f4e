package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinicflow/clinic-api/internal/model"
	"github.com/clinicflow/clinic-api/internal/repository"
)

type Service struct {
	repo     repository.NotificationRepository
	userRepo repository.UserRepository
}

func NewService(repo repository.NotificationRepository, userRepo repository.UserRepository) *Service {
	return &Service{repo: repo, userRepo: userRepo}
}

func (s *Service) CreateNotification(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	if err := validateTarget(n); err != nil {
		return nil, fmt.Errorf("invalid notification target: %w", err)
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	log.Info().
		Str("notification_id", n.ID.String()).
		Str("target", string(n.Target)).
		Msg("notification created")
	return n, nil
}

func (s *Service) GetNotification(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

func (s *Service) DeleteNotification(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

// ListForUser returns the notifications visible to a user given their role and
// unit memberships. Visibility is computed per request; there is no per-user
// inbox materialized anywhere.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	list, err := s.repo.ListVisible(ctx, userID, user.Role, user.UnitIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return list, nil
}

// UnreadCount is the number of visible notifications the user has not seen.
// It never goes negative: marking an already-seen notification again is a
// no-op at the store.
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	list, err := s.ListForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return CountUnread(list, userID), nil
}

func (s *Service) MarkSeen(ctx context.Context, notificationID, userID uuid.UUID) error {
	if err := s.repo.MarkSeen(ctx, notificationID, userID); err != nil {
		return fmt.Errorf("failed to mark notification seen: %w", err)
	}
	return nil
}

// CountUnread counts the entries of a visible list not yet seen by userID.
func CountUnread(list []*model.Notification, userID uuid.UUID) int {
	unread := 0
	for _, n := range list {
		if !n.HasSeen(userID) {
			unread++
		}
	}
	return unread
}

func validateTarget(n *model.Notification) error {
	switch n.Target {
	case model.NotificationTargetAll:
		return nil
	case model.NotificationTargetRole:
		if n.TargetRole == "" {
			return fmt.Errorf("target role is required")
		}
	case model.NotificationTargetUnit:
		if n.TargetUnitID == nil {
			return fmt.Errorf("target unit is required")
		}
	case model.NotificationTargetSpecific:
		if n.TargetUserID == nil {
			return fmt.Errorf("target user is required")
		}
	default:
		return fmt.Errorf("unknown target %q", n.Target)
	}
	return nil
}
