package appointment

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medbook/medbook/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the appointment endpoints on the
// authenticated group.
func (h *Handler) RegisterRoutes(secured *echo.Group) {
	secured.POST("/appointments", h.Book)
	secured.GET("/appointments", h.List)
	secured.GET("/appointments/:id", h.Get)
	secured.PUT("/appointments/:id", h.Update)
}

type bookRequest struct {
	DoctorID string   `json:"doctorId"`
	Date     string   `json:"date"`
	TimeSlot TimeSlot `json:"timeSlot"`
	Issue    string   `json:"issue"`
}

func (h *Handler) Book(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctorId")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
	}
	if req.TimeSlot.StartTime == "" || req.TimeSlot.EndTime == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "timeSlot startTime and endTime are required")
	}
	if req.Issue == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "issue is required")
	}

	callerID := auth.UserIDFromContext(c.Request().Context())
	a, err := h.svc.Book(c.Request().Context(), callerID, BookInput{
		DoctorID: doctorID,
		Date:     date,
		Slot:     req.TimeSlot,
		Issue:    req.Issue,
	})
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) List(c echo.Context) error {
	caller := auth.CallerFromContext(c.Request().Context())
	details, err := h.svc.ListFor(c.Request().Context(), caller.ID, caller.Role)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if details == nil {
		details = []*Detail{}
	}
	return c.JSON(http.StatusOK, details)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	caller := auth.CallerFromContext(c.Request().Context())

	d, err := h.svc.Get(c.Request().Context(), caller.ID, caller.Role, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		case errors.Is(err, ErrNotAuthorized):
			return echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}
	return c.JSON(http.StatusOK, d)
}

type updateRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var in UpdateInput
	if req.Status != nil {
		status := Status(*req.Status)
		if !status.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		in.Status = &status
	}
	in.Notes = req.Notes

	caller := auth.CallerFromContext(c.Request().Context())
	d, err := h.svc.Update(c.Request().Context(), caller.ID, caller.Role, id, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		case errors.Is(err, ErrNotAuthorized):
			return echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
		case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrInvalidStatus):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}
	return c.JSON(http.StatusOK, d)
}

// parseDate accepts a bare date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
