package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/medbook/medbook/internal/domain/notification"
)

// Status is the lifecycle state of an appointment. The set is closed
// and transitions are restricted to the table below.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// validTransitions lists the allowed next statuses per current status.
// Cancelled and completed are terminal.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// statusCategory maps a newly written status to the notification
// category sent to the patient.
var statusCategory = map[Status]notification.Category{
	StatusPending:   notification.CategoryPending,
	StatusConfirmed: notification.CategoryConfirmed,
	StatusCancelled: notification.CategoryCancelled,
	StatusCompleted: notification.CategoryCompleted,
}

// statusTitle maps a newly written status to the notification title
// shown to the patient.
var statusTitle = map[Status]string{
	StatusPending:   "Appointment Pending",
	StatusConfirmed: "Appointment Confirmed",
	StatusCancelled: "Appointment Cancelled",
	StatusCompleted: "Appointment Completed",
}

// TimeSlot is a booked window within the appointment date, free-text
// times matching the doctor's published availability.
type TimeSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Appointment maps to the appointments table. Issue is the patient's
// complaint given at booking; Notes is doctor-authored and the two
// never overwrite each other.
type Appointment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patientId"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctorId"`
	Date      time.Time `db:"date" json:"date"`
	Slot      TimeSlot  `json:"timeSlot"`
	Status    Status    `db:"status" json:"status"`
	Issue     string    `db:"issue" json:"issue"`
	Notes     string    `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Detail is an appointment joined with counterparty display fields.
// DoctorUserID backs the ownership check and is not serialized.
type Detail struct {
	Appointment
	PatientName     string    `json:"patientName"`
	PatientEmail    string    `json:"patientEmail"`
	DoctorName      string    `json:"doctorName"`
	DoctorUserID    uuid.UUID `json:"-"`
	Specialization  string    `json:"specialization"`
	ConsultationFee float64   `json:"consultationFee"`
}
