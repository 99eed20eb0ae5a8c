package doctor

import (
	"time"

	"github.com/google/uuid"
)

// SlotRange is a bookable window within a day, stored as free-text
// times ("09:00", "10:30").
type SlotRange struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// DayAvailability holds the slot ranges a doctor offers on one weekday.
type DayAvailability struct {
	Day   string      `json:"day"`
	Slots []SlotRange `json:"slots"`
}

// Profile is a doctor's professional record, linked one-to-one with a
// doctor user account. AvailableSlots is persisted as a JSONB document.
type Profile struct {
	ID              uuid.UUID         `db:"id" json:"id"`
	UserID          uuid.UUID         `db:"user_id" json:"userId"`
	Specialization  string            `db:"specialization" json:"specialization"`
	Description     string            `db:"description" json:"description"`
	ExperienceYears int               `db:"experience_years" json:"experienceYears"`
	ConsultationFee float64           `db:"consultation_fee" json:"consultationFee"`
	AvailableSlots  []DayAvailability `db:"available_slots" json:"availableSlots"`
	CreatedAt       time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updatedAt"`
}

// Info is a profile joined with the display fields of its user
// account, the shape served by the public directory.
type Info struct {
	Profile
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}
