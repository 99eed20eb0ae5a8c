package admin

import (
	"context"
	"testing"

	"github.com/medbook/medbook/internal/domain/appointment"
	"github.com/medbook/medbook/internal/domain/doctor"
	"github.com/medbook/medbook/internal/domain/identity"
)

// -- Mock stores --

type mockAppointmentStore struct {
	details []*appointment.Detail
	counts  map[appointment.Status]int
}

func (m *mockAppointmentStore) ListAll(_ context.Context) ([]*appointment.Detail, error) {
	return m.details, nil
}

func (m *mockAppointmentStore) CountByStatus(_ context.Context) (map[appointment.Status]int, error) {
	return m.counts, nil
}

type mockDoctorStore struct {
	infos []*doctor.Info
}

func (m *mockDoctorStore) List(_ context.Context) ([]*doctor.Info, error) {
	return m.infos, nil
}

type mockUserStore struct {
	users map[string][]*identity.User
}

func (m *mockUserStore) ListByRole(_ context.Context, role string) ([]*identity.User, error) {
	return m.users[role], nil
}

func (m *mockUserStore) CountByRole(_ context.Context, role string) (int, error) {
	return len(m.users[role]), nil
}

// -- Tests --

func TestStatistics(t *testing.T) {
	svc := NewService(
		&mockAppointmentStore{counts: map[appointment.Status]int{
			appointment.StatusPending:   3,
			appointment.StatusConfirmed: 2,
			appointment.StatusCompleted: 1,
		}},
		&mockDoctorStore{},
		&mockUserStore{users: map[string][]*identity.User{
			identity.RoleDoctor:  make([]*identity.User, 4),
			identity.RolePatient: make([]*identity.User, 7),
		}},
	)

	stats, err := svc.Statistics(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Appointments.Total != 6 {
		t.Errorf("expected total 6, got %d", stats.Appointments.Total)
	}
	if stats.Appointments.Pending != 3 || stats.Appointments.Confirmed != 2 ||
		stats.Appointments.Completed != 1 || stats.Appointments.Cancelled != 0 {
		t.Errorf("unexpected breakdown: %+v", stats.Appointments)
	}
	if stats.Doctors != 4 {
		t.Errorf("expected 4 doctors, got %d", stats.Doctors)
	}
	if stats.Patients != 7 {
		t.Errorf("expected 7 patients, got %d", stats.Patients)
	}
}

func TestStatistics_Empty(t *testing.T) {
	svc := NewService(
		&mockAppointmentStore{counts: map[appointment.Status]int{}},
		&mockDoctorStore{},
		&mockUserStore{users: map[string][]*identity.User{}},
	)

	stats, err := svc.Statistics(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Appointments.Total != 0 || stats.Doctors != 0 || stats.Patients != 0 {
		t.Errorf("expected zeroes, got %+v", stats)
	}
}

func TestListPatients(t *testing.T) {
	users := &mockUserStore{users: map[string][]*identity.User{
		identity.RolePatient: {{Name: "Jane"}, {Name: "John"}},
	}}
	svc := NewService(&mockAppointmentStore{}, &mockDoctorStore{}, users)

	patients, err := svc.ListPatients(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(patients) != 2 {
		t.Errorf("expected 2 patients, got %d", len(patients))
	}
}
