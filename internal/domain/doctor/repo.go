package doctor

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no profile matches the given key.
var ErrNotFound = errors.New("doctor not found")

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	GetInfo(ctx context.Context, id uuid.UUID) (*Info, error)
	ListInfo(ctx context.Context) ([]*Info, error)
	UpdateSlots(ctx context.Context, id uuid.UUID, slots []DayAvailability) error
}
