package doctor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medbook/medbook/internal/domain/identity"
)

// -- Mock Profile Repository --

type mockProfileRepo struct {
	profiles map[uuid.UUID]*Profile
	accounts map[uuid.UUID]string // user id -> display name
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{
		profiles: make(map[uuid.UUID]*Profile),
		accounts: make(map[uuid.UUID]string),
	}
}

func (m *mockProfileRepo) Create(_ context.Context, p *Profile) error {
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.profiles[p.ID] = p
	return nil
}

func (m *mockProfileRepo) GetByID(_ context.Context, id uuid.UUID) (*Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*Profile, error) {
	for _, p := range m.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockProfileRepo) GetInfo(_ context.Context, id uuid.UUID) (*Info, error) {
	p, ok := m.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &Info{Profile: *p, Name: m.accounts[p.UserID]}, nil
}

func (m *mockProfileRepo) ListInfo(_ context.Context) ([]*Info, error) {
	var infos []*Info
	for _, p := range m.profiles {
		infos = append(infos, &Info{Profile: *p, Name: m.accounts[p.UserID]})
	}
	return infos, nil
}

func (m *mockProfileRepo) UpdateSlots(_ context.Context, id uuid.UUID, slots []DayAvailability) error {
	p, ok := m.profiles[id]
	if !ok {
		return ErrNotFound
	}
	if slots == nil {
		slots = []DayAvailability{}
	}
	p.AvailableSlots = slots
	return nil
}

func newTestService() (*Service, *mockProfileRepo) {
	repo := newMockProfileRepo()
	return NewService(repo, zerolog.Nop()), repo
}

func seedDoctor(repo *mockProfileRepo, name string) *Profile {
	p := &Profile{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Specialization: "Cardiology",
		Description:    "Senior cardiologist",
		AvailableSlots: []DayAvailability{},
	}
	repo.profiles[p.ID] = p
	repo.accounts[p.UserID] = name
	return p
}

// -- Tests --

func TestCreateProfile(t *testing.T) {
	svc, repo := newTestService()
	userID := uuid.New()

	pid, err := svc.CreateProfile(context.Background(), userID, identity.DoctorProfileInput{
		Specialization: "Dermatology", Description: "Paediatric dermatology", ExperienceYears: 5, ConsultationFee: 80,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := repo.profiles[pid]
	if p == nil {
		t.Fatal("expected profile to be stored")
	}
	if p.UserID != userID {
		t.Error("expected profile to be linked to the user")
	}
	if p.Description != "Paediatric dermatology" {
		t.Errorf("expected the description stored, got %q", p.Description)
	}
	if p.AvailableSlots == nil || len(p.AvailableSlots) != 0 {
		t.Error("expected an empty schedule")
	}
}

func TestProfileIDByUserID(t *testing.T) {
	svc, repo := newTestService()
	p := seedDoctor(repo, "Dr. Smith")

	pid, err := svc.ProfileIDByUserID(context.Background(), p.UserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pid != p.ID {
		t.Errorf("expected %s, got %s", p.ID, pid)
	}

	if _, err := svc.ProfileIDByUserID(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateAvailability_Owner(t *testing.T) {
	svc, repo := newTestService()
	p := seedDoctor(repo, "Dr. Smith")

	slots := []DayAvailability{{
		Day:   "Monday",
		Slots: []SlotRange{{StartTime: "09:00", EndTime: "10:00"}},
	}}
	err := svc.UpdateAvailability(context.Background(), p.UserID, identity.RoleDoctor, p.ID, slots)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.profiles[p.ID].AvailableSlots) != 1 {
		t.Error("expected schedule to be replaced")
	}
}

func TestUpdateAvailability_ClearsSchedule(t *testing.T) {
	svc, repo := newTestService()
	p := seedDoctor(repo, "Dr. Smith")
	p.AvailableSlots = []DayAvailability{{Day: "Monday"}}

	err := svc.UpdateAvailability(context.Background(), p.UserID, identity.RoleDoctor, p.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.profiles[p.ID].AvailableSlots) != 0 {
		t.Error("expected empty schedule after clearing")
	}
}

func TestUpdateAvailability_AdminAllowed(t *testing.T) {
	svc, repo := newTestService()
	p := seedDoctor(repo, "Dr. Smith")

	err := svc.UpdateAvailability(context.Background(), uuid.New(), identity.RoleAdmin, p.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateAvailability_OtherDoctorRejected(t *testing.T) {
	svc, repo := newTestService()
	p := seedDoctor(repo, "Dr. Smith")

	err := svc.UpdateAvailability(context.Background(), uuid.New(), identity.RoleDoctor, p.ID, nil)
	if !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestUpdateAvailability_UnknownProfile(t *testing.T) {
	svc, _ := newTestService()

	err := svc.UpdateAvailability(context.Background(), uuid.New(), identity.RoleAdmin, uuid.New(), nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
