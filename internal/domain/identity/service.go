package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medbook/medbook/internal/platform/auth"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("invalid role")
)

// DoctorProfileInput carries the professional details collected at
// doctor registration, alongside the account fields.
type DoctorProfileInput struct {
	Specialization  string
	Description     string
	ExperienceYears int
	ConsultationFee float64
}

// DoctorRegistrar creates and resolves the doctor profile row tied to
// a doctor account.
type DoctorRegistrar interface {
	CreateProfile(ctx context.Context, userID uuid.UUID, in DoctorProfileInput) (uuid.UUID, error)
	ProfileIDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

// TxRunner executes fn inside a database transaction.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	repo    Repository
	doctors DoctorRegistrar
	runTx   TxRunner
	log     zerolog.Logger
}

func NewService(repo Repository, doctors DoctorRegistrar, runTx TxRunner, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		doctors: doctors,
		runTx:   runTx,
		log:     log.With().Str("component", "identity").Logger(),
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    *string
	Role     string
}

// Register creates a patient account. An empty role defaults to
// patient; admin accounts cannot be self-provisioned.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	role := in.Role
	if role == "" {
		role = RolePatient
	}
	if role != RolePatient && role != RoleDoctor {
		return nil, ErrInvalidRole
	}
	return s.create(ctx, in, role)
}

// RegisterDoctor creates a doctor account and its profile in one
// transaction, so a failed profile write never leaves an orphaned
// doctor account.
func (s *Service) RegisterDoctor(ctx context.Context, in RegisterInput, profile DoctorProfileInput) (*User, uuid.UUID, error) {
	var (
		user      *User
		profileID uuid.UUID
	)
	err := s.runTx(ctx, func(ctx context.Context) error {
		u, err := s.create(ctx, in, RoleDoctor)
		if err != nil {
			return err
		}
		pid, err := s.doctors.CreateProfile(ctx, u.ID, profile)
		if err != nil {
			return fmt.Errorf("create doctor profile: %w", err)
		}
		user, profileID = u, pid
		return nil
	})
	if err != nil {
		return nil, uuid.Nil, err
	}
	s.log.Info().Str("user_id", user.ID.String()).Msg("doctor registered")
	return user, profileID, nil
}

func (s *Service) create(ctx context.Context, in RegisterInput, role string) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Phone:        in.Phone,
		Role:         role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", u.ID.String()).Str("role", role).Msg("user registered")
	return u, nil
}

// Authenticate verifies the email and password and returns the
// matching user. Unknown emails and wrong passwords are reported
// identically.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// DoctorProfileID resolves the doctor profile that belongs to a
// doctor account.
func (s *Service) DoctorProfileID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	return s.doctors.ProfileIDByUserID(ctx, userID)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByRole(ctx context.Context, role string) ([]*User, error) {
	return s.repo.ListByRole(ctx, role)
}

func (s *Service) CountByRole(ctx context.Context, role string) (int, error) {
	return s.repo.CountByRole(ctx, role)
}
