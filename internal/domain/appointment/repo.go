package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no appointment matches the given id.
var ErrNotFound = errors.New("appointment not found")

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*Detail, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Detail, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Detail, error)
	ListAll(ctx context.Context) ([]*Detail, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
	SetStatusNotes(ctx context.Context, id uuid.UUID, status Status, notes string) error
}
