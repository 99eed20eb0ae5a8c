package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medbook/medbook/internal/domain/appointment"
	"github.com/medbook/medbook/internal/domain/doctor"
	"github.com/medbook/medbook/internal/domain/identity"
	"github.com/medbook/medbook/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the admin endpoints behind the admin role gate.
func (h *Handler) RegisterRoutes(secured *echo.Group) {
	g := secured.Group("/admin", auth.RequireRole(identity.RoleAdmin))
	g.GET("/statistics", h.Statistics)
	g.GET("/appointments", h.ListAppointments)
	g.GET("/doctors", h.ListDoctors)
	g.GET("/patients", h.ListPatients)
}

func (h *Handler) Statistics(c echo.Context) error {
	stats, err := h.svc.Statistics(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	list, err := h.svc.ListAppointments(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if list == nil {
		list = []*appointment.Detail{}
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	list, err := h.svc.ListDoctors(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if list == nil {
		list = []*doctor.Info{}
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) ListPatients(c echo.Context) error {
	list, err := h.svc.ListPatients(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if list == nil {
		list = []*identity.User{}
	}
	return c.JSON(http.StatusOK, list)
}
