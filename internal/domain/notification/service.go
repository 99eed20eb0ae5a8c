package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrNotAuthorized is returned when a notification is not addressed
	// to the caller. The HTTP layer reports it as 401.
	ErrNotAuthorized   = errors.New("not authorized")
	ErrInvalidCategory = errors.New("invalid notification category")
)

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log.With().Str("component", "notification").Logger()}
}

// Notify stores a notification addressed to userID. It joins any
// transaction already on the context, so appointment writes and their
// notifications commit together.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, title, message string, category Category, appointmentID *uuid.UUID) (*Notification, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, category)
	}
	n := &Notification{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         title,
		Message:       message,
		Category:      category,
		AppointmentID: appointmentID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// ListForUser returns the caller's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

// MarkRead marks one notification read. Only the addressee may do so.
func (s *Service) MarkRead(ctx context.Context, callerID, id uuid.UUID) (*Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != callerID {
		return nil, ErrNotAuthorized
	}
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return nil, err
	}
	n.Read = true
	return n, nil
}

// MarkAllRead marks every unread notification of the caller read and
// returns how many were updated.
func (s *Service) MarkAllRead(ctx context.Context, callerID uuid.UUID) (int, error) {
	count, err := s.repo.MarkAllRead(ctx, callerID)
	if err != nil {
		return 0, err
	}
	s.log.Debug().Str("user_id", callerID.String()).Int("count", count).Msg("notifications marked read")
	return count, nil
}
