package appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medbook/medbook/internal/domain/identity"
	"github.com/medbook/medbook/internal/platform/auth"
)

func newTestHandler() (*Handler, *fixture, *echo.Echo) {
	f := newFixture()
	return NewHandler(f.svc), f, echo.New()
}

func callerRequest(method, path, body string, userID uuid.UUID, role string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
	ctx = context.WithValue(ctx, auth.RoleKey, role)
	return req.WithContext(ctx)
}

func TestHandler_Book(t *testing.T) {
	h, f, e := newTestHandler()
	p := f.dir.add("Cardiology")
	patientID := uuid.New()

	body := `{"doctorId":"` + p.ID.String() + `","date":"2026-09-15","timeSlot":{"startTime":"09:00","endTime":"09:30"},"issue":"recurring migraines"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(callerRequest(http.MethodPost, "/api/appointments", body, patientID, identity.RolePatient), rec)

	if err := h.Book(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var a Appointment
	json.Unmarshal(rec.Body.Bytes(), &a)
	if a.Status != StatusPending {
		t.Errorf("expected pending, got %s", a.Status)
	}
	if a.PatientID != patientID {
		t.Error("expected the caller as patient")
	}
	if a.Issue != "recurring migraines" {
		t.Errorf("expected the issue echoed back, got %q", a.Issue)
	}
	if !strings.Contains(rec.Body.String(), `"timeSlot"`) {
		t.Error("expected the slot serialized under timeSlot")
	}
}

func TestHandler_Book_MissingIssue(t *testing.T) {
	h, f, e := newTestHandler()
	p := f.dir.add("Cardiology")

	body := `{"doctorId":"` + p.ID.String() + `","date":"2026-09-15","timeSlot":{"startTime":"09:00","endTime":"09:30"}}`
	c := e.NewContext(callerRequest(http.MethodPost, "/api/appointments", body, uuid.New(), identity.RolePatient), httptest.NewRecorder())

	err := h.Book(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without an issue, got %v", err)
	}
}

func TestHandler_Book_MissingSlot(t *testing.T) {
	h, f, e := newTestHandler()
	p := f.dir.add("Cardiology")

	body := `{"doctorId":"` + p.ID.String() + `","date":"2026-09-15","issue":"recurring migraines"}`
	c := e.NewContext(callerRequest(http.MethodPost, "/api/appointments", body, uuid.New(), identity.RolePatient), httptest.NewRecorder())

	err := h.Book(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without a timeSlot, got %v", err)
	}
}

func TestHandler_Book_UnknownDoctor(t *testing.T) {
	h, _, e := newTestHandler()

	body := `{"doctorId":"` + uuid.New().String() + `","date":"2026-09-15","timeSlot":{"startTime":"09:00","endTime":"09:30"},"issue":"recurring migraines"}`
	c := e.NewContext(callerRequest(http.MethodPost, "/api/appointments", body, uuid.New(), identity.RolePatient), httptest.NewRecorder())

	err := h.Book(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_Book_BadDate(t *testing.T) {
	h, f, e := newTestHandler()
	p := f.dir.add("Cardiology")

	body := `{"doctorId":"` + p.ID.String() + `","date":"next tuesday","timeSlot":{"startTime":"09:00","endTime":"09:30"},"issue":"recurring migraines"}`
	c := e.NewContext(callerRequest(http.MethodPost, "/api/appointments", body, uuid.New(), identity.RolePatient), httptest.NewRecorder())

	err := h.Book(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_List(t *testing.T) {
	h, f, e := newTestHandler()
	p := f.dir.add("Cardiology")
	patientID := uuid.New()
	f.book(t, patientID, p.ID)

	rec := httptest.NewRecorder()
	c := e.NewContext(callerRequest(http.MethodGet, "/api/appointments", "", patientID, identity.RolePatient), rec)
	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var list []Detail
	json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list) != 1 {
		t.Errorf("expected 1 appointment, got %d", len(list))
	}
}

func TestHandler_List_Empty(t *testing.T) {
	h, _, e := newTestHandler()

	rec := httptest.NewRecorder()
	c := e.NewContext(callerRequest(http.MethodGet, "/api/appointments", "", uuid.New(), identity.RolePatient), rec)
	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected empty array, got %s", body)
	}
}

func TestHandler_Get_Foreign(t *testing.T) {
	h, f, e := newTestHandler()
	p := f.dir.add("Cardiology")
	a := f.book(t, uuid.New(), p.ID)

	c := e.NewContext(callerRequest(http.MethodGet, "/api/appointments/"+a.ID.String(), "", uuid.New(), identity.RolePatient), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())

	err := h.Get(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestHandler_Update_InvalidStatus(t *testing.T) {
	h, f, e := newTestHandler()
	p := f.dir.add("Cardiology")
	a := f.book(t, uuid.New(), p.ID)

	c := e.NewContext(callerRequest(http.MethodPut, "/api/appointments/"+a.ID.String(),
		`{"status":"rescheduled"}`, p.UserID, identity.RoleDoctor), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())

	err := h.Update(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_Update_DoctorConfirms(t *testing.T) {
	h, f, e := newTestHandler()
	p := f.dir.add("Cardiology")
	a := f.book(t, uuid.New(), p.ID)

	rec := httptest.NewRecorder()
	c := e.NewContext(callerRequest(http.MethodPut, "/api/appointments/"+a.ID.String(),
		`{"status":"confirmed"}`, p.UserID, identity.RoleDoctor), rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())

	if err := h.Update(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var d Detail
	json.Unmarshal(rec.Body.Bytes(), &d)
	if d.Status != StatusConfirmed {
		t.Errorf("expected confirmed, got %s", d.Status)
	}
}

func TestHandler_Update_InvalidTransition(t *testing.T) {
	h, f, e := newTestHandler()
	p := f.dir.add("Cardiology")
	a := f.book(t, uuid.New(), p.ID)

	c := e.NewContext(callerRequest(http.MethodPut, "/api/appointments/"+a.ID.String(),
		`{"status":"completed"}`, p.UserID, identity.RoleDoctor), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())

	err := h.Update(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for pending to completed, got %v", err)
	}
}
