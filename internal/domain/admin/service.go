package admin

import (
	"context"

	"github.com/medbook/medbook/internal/domain/appointment"
	"github.com/medbook/medbook/internal/domain/doctor"
	"github.com/medbook/medbook/internal/domain/identity"
)

// AppointmentStore is the slice of the appointment domain the admin
// views need. Satisfied by appointment.PgRepository.
type AppointmentStore interface {
	ListAll(ctx context.Context) ([]*appointment.Detail, error)
	CountByStatus(ctx context.Context) (map[appointment.Status]int, error)
}

// DoctorStore lists the doctor directory. Satisfied by doctor.Service.
type DoctorStore interface {
	List(ctx context.Context) ([]*doctor.Info, error)
}

// UserStore reads user accounts by role. Satisfied by identity.Service.
type UserStore interface {
	ListByRole(ctx context.Context, role string) ([]*identity.User, error)
	CountByRole(ctx context.Context, role string) (int, error)
}

// AppointmentCounts breaks the appointment population down by status.
type AppointmentCounts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
	Completed int `json:"completed"`
}

// Statistics is the admin dashboard aggregate, recomputed per request.
type Statistics struct {
	Appointments AppointmentCounts `json:"appointments"`
	Doctors      int               `json:"doctors"`
	Patients     int               `json:"patients"`
}

type Service struct {
	appointments AppointmentStore
	doctors      DoctorStore
	users        UserStore
}

func NewService(appointments AppointmentStore, doctors DoctorStore, users UserStore) *Service {
	return &Service{appointments: appointments, doctors: doctors, users: users}
}

func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	counts, err := s.appointments.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	doctors, err := s.users.CountByRole(ctx, identity.RoleDoctor)
	if err != nil {
		return nil, err
	}
	patients, err := s.users.CountByRole(ctx, identity.RolePatient)
	if err != nil {
		return nil, err
	}

	stats := &Statistics{Doctors: doctors, Patients: patients}
	for status, n := range counts {
		stats.Appointments.Total += n
		switch status {
		case appointment.StatusPending:
			stats.Appointments.Pending = n
		case appointment.StatusConfirmed:
			stats.Appointments.Confirmed = n
		case appointment.StatusCancelled:
			stats.Appointments.Cancelled = n
		case appointment.StatusCompleted:
			stats.Appointments.Completed = n
		}
	}
	return stats, nil
}

func (s *Service) ListAppointments(ctx context.Context) ([]*appointment.Detail, error) {
	return s.appointments.ListAll(ctx)
}

func (s *Service) ListDoctors(ctx context.Context) ([]*doctor.Info, error) {
	return s.doctors.List(ctx)
}

// ListPatients returns every patient account. Password hashes are
// excluded from serialization by the model.
func (s *Service) ListPatients(ctx context.Context) ([]*identity.User, error) {
	return s.users.ListByRole(ctx, identity.RolePatient)
}
