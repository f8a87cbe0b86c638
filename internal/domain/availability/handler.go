package availability

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/baqermajeed/farah-system-fainal/internal/platform/auth"
	"github.com/baqermajeed/farah-system-fainal/pkg/clinictime"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(auth.RoleDoctor, auth.RoleReceptionist))
	read.GET("/doctors/:id/working-hours", h.GetWorkingHours)
	read.GET("/doctors/:id/available-slots", h.AvailableSlots)
	read.GET("/doctors/:id/slot-available", h.SlotAvailable)

	manage := api.Group("", auth.RequireRole(auth.RoleReceptionist))
	manage.PUT("/doctors/:id/working-hours", h.SetWorkingHours)
	manage.DELETE("/doctors/:id/working-hours", h.DeleteWorkingHours)
}

func (h *Handler) GetWorkingHours(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	entries, err := h.svc.GetWorkingHours(c.Request().Context(), doctorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if entries == nil {
		entries = []*WorkingHours{}
	}
	return c.JSON(http.StatusOK, entries)
}

// SetWorkingHours replaces the doctor's full weekly schedule.
func (h *Handler) SetWorkingHours(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	var entries []*WorkingHours
	if err := c.Bind(&entries); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SetWorkingHours(c.Request().Context(), doctorID, entries); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) DeleteWorkingHours(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	if err := h.svc.DeleteWorkingHours(c.Request().Context(), doctorID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AvailableSlots(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	date, err := clinictime.Parse(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	slots, err := h.svc.AvailableSlots(c.Request().Context(), doctorID, date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"doctor_id": doctorID,
		"date":      date.String()[:10],
		"slots":     slots,
	})
}

func (h *Handler) SlotAvailable(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	date, err := clinictime.Parse(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	at := c.QueryParam("time")
	if at == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "time is required")
	}
	ok, reason, err := h.svc.IsSlotAvailable(c.Request().Context(), doctorID, date, at)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp := map[string]interface{}{"available": ok}
	if reason != "" {
		resp["reason"] = reason
	}
	return c.JSON(http.StatusOK, resp)
}
