package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medbook/medbook/internal/domain/doctor"
	"github.com/medbook/medbook/internal/domain/identity"
	"github.com/medbook/medbook/internal/domain/notification"
)

var (
	ErrDoctorNotFound = errors.New("doctor not found")
	// ErrNotAuthorized is returned when the caller may not read or
	// change the appointment. The HTTP layer reports it as 401.
	ErrNotAuthorized     = errors.New("not authorized")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// DoctorDirectory resolves doctor profiles for booking and ownership
// checks. Satisfied by doctor.Service.
type DoctorDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*doctor.Profile, error)
	ProfileIDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

// Notifier stores a notification, joining any transaction already on
// the context. Satisfied by notification.Service.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message string, category notification.Category, appointmentID *uuid.UUID) (*notification.Notification, error)
}

// TxRunner executes fn inside a database transaction.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	repo     Repository
	doctors  DoctorDirectory
	notifier Notifier
	runTx    TxRunner
	log      zerolog.Logger
}

func NewService(repo Repository, doctors DoctorDirectory, notifier Notifier, runTx TxRunner, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		doctors:  doctors,
		notifier: notifier,
		runTx:    runTx,
		log:      log.With().Str("component", "appointment").Logger(),
	}
}

type BookInput struct {
	DoctorID uuid.UUID
	Date     time.Time
	Slot     TimeSlot
	Issue    string
}

// Book creates a pending appointment and notifies the doctor. The
// appointment row and the notification commit in one transaction.
func (s *Service) Book(ctx context.Context, patientID uuid.UUID, in BookInput) (*Appointment, error) {
	profile, err := s.doctors.GetByID(ctx, in.DoctorID)
	if err != nil {
		if errors.Is(err, doctor.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	a := &Appointment{
		ID:        uuid.New(),
		PatientID: patientID,
		DoctorID:  in.DoctorID,
		Date:      in.Date,
		Slot:      in.Slot,
		Status:    StatusPending,
		Issue:     in.Issue,
	}
	err = s.runTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, a); err != nil {
			return err
		}
		msg := fmt.Sprintf("New appointment request for %s at %s",
			a.Date.Format("2006-01-02"), a.Slot.StartTime)
		_, err := s.notifier.Notify(ctx, profile.UserID, "New Appointment Request", msg, notification.CategoryConfirmation, &a.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("appointment_id", a.ID.String()).Str("doctor_id", in.DoctorID.String()).Msg("appointment booked")
	return a, nil
}

// ListFor returns the appointments visible to the caller: a patient's
// own, a doctor's schedule, or everything for an admin.
func (s *Service) ListFor(ctx context.Context, callerID uuid.UUID, role string) ([]*Detail, error) {
	switch role {
	case identity.RoleDoctor:
		pid, err := s.doctors.ProfileIDByUserID(ctx, callerID)
		if err != nil {
			if errors.Is(err, doctor.ErrNotFound) {
				return nil, ErrDoctorNotFound
			}
			return nil, err
		}
		return s.repo.ListByDoctor(ctx, pid)
	case identity.RoleAdmin:
		return s.repo.ListAll(ctx)
	default:
		return s.repo.ListByPatient(ctx, callerID)
	}
}

// Get returns one appointment with joined display fields. Only the
// patient, the owning doctor, or an admin may read it.
func (s *Service) Get(ctx context.Context, callerID uuid.UUID, role string, id uuid.UUID) (*Detail, error) {
	d, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != identity.RoleAdmin && d.PatientID != callerID && d.DoctorUserID != callerID {
		return nil, ErrNotAuthorized
	}
	return d, nil
}

type UpdateInput struct {
	Status *Status
	Notes  *string
}

// Update applies a status and/or notes change. Patients may only
// cancel their own pending or confirmed appointments; doctors may only
// change appointments on their own schedule; admins may change any.
// The status write and the resulting notification share a transaction.
func (s *Service) Update(ctx context.Context, callerID uuid.UUID, role string, id uuid.UUID, in UpdateInput) (*Detail, error) {
	d, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	switch role {
	case identity.RolePatient:
		return s.patientCancel(ctx, callerID, d, in)
	case identity.RoleDoctor:
		if d.DoctorUserID != callerID {
			return nil, ErrNotAuthorized
		}
	case identity.RoleAdmin:
	default:
		return nil, ErrNotAuthorized
	}
	return s.staffUpdate(ctx, d, in)
}

func (s *Service) patientCancel(ctx context.Context, callerID uuid.UUID, d *Detail, in UpdateInput) (*Detail, error) {
	if d.PatientID != callerID {
		return nil, ErrNotAuthorized
	}
	if in.Status == nil || *in.Status != StatusCancelled {
		return nil, ErrNotAuthorized
	}
	if !d.Status.CanTransitionTo(StatusCancelled) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, d.Status, StatusCancelled)
	}

	err := s.runTx(ctx, func(ctx context.Context) error {
		if err := s.repo.SetStatusNotes(ctx, d.ID, StatusCancelled, d.Notes); err != nil {
			return err
		}
		msg := fmt.Sprintf("%s cancelled the appointment on %s at %s",
			d.PatientName, d.Date.Format("2006-01-02"), d.Slot.StartTime)
		_, err := s.notifier.Notify(ctx, d.DoctorUserID, "Appointment Cancelled", msg, notification.CategoryCancellation, &d.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	d.Status = StatusCancelled
	s.log.Info().Str("appointment_id", d.ID.String()).Msg("appointment cancelled by patient")
	return d, nil
}

func (s *Service) staffUpdate(ctx context.Context, d *Detail, in UpdateInput) (*Detail, error) {
	status := d.Status
	if in.Status != nil && *in.Status != d.Status {
		if !in.Status.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *in.Status)
		}
		if !d.Status.CanTransitionTo(*in.Status) {
			return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, d.Status, *in.Status)
		}
		status = *in.Status
	}
	notes := d.Notes
	if in.Notes != nil {
		notes = *in.Notes
	}

	statusChanged := status != d.Status
	err := s.runTx(ctx, func(ctx context.Context) error {
		if err := s.repo.SetStatusNotes(ctx, d.ID, status, notes); err != nil {
			return err
		}
		if !statusChanged {
			return nil
		}
		msg := fmt.Sprintf("Your appointment with %s on %s is %s",
			d.DoctorName, d.Date.Format("2006-01-02"), status)
		_, err := s.notifier.Notify(ctx, d.PatientID, statusTitle[status], msg, statusCategory[status], &d.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	d.Status = status
	d.Notes = notes
	if statusChanged {
		s.log.Info().Str("appointment_id", d.ID.String()).Str("status", string(status)).Msg("appointment updated")
	}
	return d, nil
}
