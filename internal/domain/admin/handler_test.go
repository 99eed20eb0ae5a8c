package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/medbook/medbook/internal/domain/appointment"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc := NewService(
		&mockAppointmentStore{counts: map[appointment.Status]int{appointment.StatusPending: 1}},
		&mockDoctorStore{},
		&mockUserStore{},
	)
	return NewHandler(svc), echo.New()
}

func TestHandler_Statistics(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/statistics", nil)
	rec := httptest.NewRecorder()
	if err := h.Statistics(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var stats Statistics
	json.Unmarshal(rec.Body.Bytes(), &stats)
	if stats.Appointments.Pending != 1 {
		t.Errorf("expected 1 pending, got %d", stats.Appointments.Pending)
	}
}

func TestHandler_ListAppointments_Empty(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/appointments", nil)
	rec := httptest.NewRecorder()
	if err := h.ListAppointments(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected empty array, got %s", body)
	}
}

func TestHandler_ListPatients_Empty(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/patients", nil)
	rec := httptest.NewRecorder()
	if err := h.ListPatients(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected empty array, got %s", body)
	}
}
