package doctor

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medbook/medbook/internal/domain/identity"
)

// ErrNotAuthorized is returned when the caller may not change the
// profile. The HTTP layer reports it as 401.
var ErrNotAuthorized = errors.New("not authorized")

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log.With().Str("component", "doctor").Logger()}
}

// CreateProfile creates the profile row for a newly registered doctor
// account with an empty weekly schedule.
func (s *Service) CreateProfile(ctx context.Context, userID uuid.UUID, in identity.DoctorProfileInput) (uuid.UUID, error) {
	p := &Profile{
		ID:              uuid.New(),
		UserID:          userID,
		Specialization:  in.Specialization,
		Description:     in.Description,
		ExperienceYears: in.ExperienceYears,
		ConsultationFee: in.ConsultationFee,
		AvailableSlots:  []DayAvailability{},
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return uuid.Nil, err
	}
	return p.ID, nil
}

// ProfileIDByUserID resolves the profile belonging to a doctor account.
func (s *Service) ProfileIDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	return p.ID, nil
}

// List returns every doctor profile joined with account display fields.
func (s *Service) List(ctx context.Context) ([]*Info, error) {
	return s.repo.ListInfo(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Info, error) {
	return s.repo.GetInfo(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateAvailability replaces the weekly schedule wholesale. An empty
// slot list clears the schedule. Only the owning doctor or an admin
// may write.
func (s *Service) UpdateAvailability(ctx context.Context, callerID uuid.UUID, callerRole string, profileID uuid.UUID, slots []DayAvailability) error {
	p, err := s.repo.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	if callerRole != identity.RoleAdmin && p.UserID != callerID {
		return ErrNotAuthorized
	}
	if err := s.repo.UpdateSlots(ctx, profileID, slots); err != nil {
		return err
	}
	s.log.Info().Str("doctor_id", profileID.String()).Int("days", len(slots)).Msg("availability updated")
	return nil
}
