package notification

import (
	"errors"
	"net/http"

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

// RegisterRoutes mounts the notification endpoints on the
// authenticated group.
func (h *Handler) RegisterRoutes(secured *echo.Group) {
	secured.GET("/notifications", h.List)
	secured.PUT("/notifications/:id", h.MarkRead)
	secured.PUT("/notifications", h.MarkAllRead)
}

func (h *Handler) List(c echo.Context) error {
	callerID := auth.UserIDFromContext(c.Request().Context())
	list, err := h.svc.ListForUser(c.Request().Context(), callerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if list == nil {
		list = []*Notification{}
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) MarkRead(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	callerID := auth.UserIDFromContext(c.Request().Context())

	n, err := h.svc.MarkRead(c.Request().Context(), callerID, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "notification not found")
		case errors.Is(err, ErrNotAuthorized):
			return echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) MarkAllRead(c echo.Context) error {
	callerID := auth.UserIDFromContext(c.Request().Context())

	count, err := h.svc.MarkAllRead(c.Request().Context(), callerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": "all notifications marked as read",
		"updated": count,
	})
}
