package notification

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies a notification. The set is closed; writes with a
// category outside it are rejected.
type Category string

const (
	CategoryConfirmation Category = "appointment_confirmation" // new booking request for a doctor
	CategoryConfirmed    Category = "appointment_confirmed"
	CategoryCancelled    Category = "appointment_cancelled"
	CategoryCancellation Category = "appointment_cancellation" // patient cancelled, addressed to the doctor
	CategoryPending      Category = "appointment_pending"
	CategoryCompleted    Category = "appointment_completed"
	CategoryReminder     Category = "appointment_reminder"
	CategoryGeneral      Category = "general"
)

var validCategories = map[Category]struct{}{
	CategoryConfirmation: {},
	CategoryConfirmed:    {},
	CategoryCancelled:    {},
	CategoryCancellation: {},
	CategoryPending:      {},
	CategoryCompleted:    {},
	CategoryReminder:     {},
	CategoryGeneral:      {},
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := validCategories[c]
	return ok
}

type Notification struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	UserID        uuid.UUID  `db:"user_id" json:"userId"`
	Title         string     `db:"title" json:"title"`
	Message       string     `db:"message" json:"message"`
	Category      Category   `db:"category" json:"category"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointmentId,omitempty"`
	Read          bool       `db:"is_read" json:"isRead"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
}
