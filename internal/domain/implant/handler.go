package implant

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/baqermajeed/farah-system-fainal/internal/domain/registry"
	"github.com/baqermajeed/farah-system-fainal/internal/platform/auth"
	"github.com/baqermajeed/farah-system-fainal/pkg/clinictime"
)

type Handler struct {
	seq *Sequencer
}

func NewHandler(seq *Sequencer) *Handler {
	return &Handler{seq: seq}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(auth.RoleDoctor, auth.RolePatient, auth.RoleReceptionist))
	read.GET("/patients/:id/implant-stages", h.ListStages)

	doctor := api.Group("", auth.RequireRole(auth.RoleDoctor))
	doctor.POST("/patients/:id/implant-stages/initialize", h.InitializeStages)
	doctor.PUT("/patients/:id/implant-stages/:stageName/complete", h.CompleteStage)
	doctor.PUT("/patients/:id/implant-stages/:stageName/uncomplete", h.UncompleteStage)
	doctor.PUT("/patients/:id/implant-stages/:stageName/date", h.UpdateStageDate)
}

// actingDoctor resolves the authenticated doctor's id from the token
// subject. Empty for non-doctor viewers.
func actingDoctor(c echo.Context) uuid.UUID {
	ctx := c.Request().Context()
	if !auth.HasRole(ctx, auth.RoleDoctor) {
		return uuid.Nil
	}
	id, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func stageHTTPError(err error) error {
	var predErr *PredecessorError
	switch {
	case errors.Is(err, registry.ErrPatientNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	case errors.Is(err, ErrStageNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "stage not found")
	case errors.Is(err, ErrNotYourPatient):
		return echo.NewHTTPError(http.StatusForbidden, "not your patient")
	case errors.Is(err, ErrUnknownStage):
		return echo.NewHTTPError(http.StatusBadRequest, "unknown stage")
	case errors.As(err, &predErr):
		return echo.NewHTTPError(http.StatusBadRequest, predErr.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (h *Handler) ListStages(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	stages, err := h.seq.List(c.Request().Context(), patientID, actingDoctor(c))
	if err != nil {
		return stageHTTPError(err)
	}
	if stages == nil {
		stages = []*Stage{}
	}
	return c.JSON(http.StatusOK, stages)
}

func (h *Handler) InitializeStages(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	doctorID := actingDoctor(c)
	if doctorID == uuid.Nil {
		return echo.NewHTTPError(http.StatusForbidden, "doctor identity required")
	}
	stages, err := h.seq.Initialize(c.Request().Context(), patientID, doctorID)
	if err != nil {
		return stageHTTPError(err)
	}
	return c.JSON(http.StatusCreated, stages)
}

func (h *Handler) CompleteStage(c echo.Context) error {
	return h.transition(c, h.seq.Complete)
}

func (h *Handler) UncompleteStage(c echo.Context) error {
	return h.transition(c, h.seq.Uncomplete)
}

func (h *Handler) transition(c echo.Context, op func(ctx context.Context, patientID, doctorID uuid.UUID, stageName string) (*Stage, error)) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	doctorID := actingDoctor(c)
	if doctorID == uuid.Nil {
		return echo.NewHTTPError(http.StatusForbidden, "doctor identity required")
	}
	st, err := op(c.Request().Context(), patientID, doctorID, c.Param("stageName"))
	if err != nil {
		return stageHTTPError(err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) UpdateStageDate(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	doctorID := actingDoctor(c)
	if doctorID == uuid.Nil {
		return echo.NewHTTPError(http.StatusForbidden, "doctor identity required")
	}
	var body struct {
		ScheduledAt clinictime.LocalTime `json:"scheduled_at"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if body.ScheduledAt.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "scheduled_at is required")
	}
	st, err := h.seq.UpdateDate(c.Request().Context(), patientID, doctorID, c.Param("stageName"), body.ScheduledAt)
	if err != nil {
		return stageHTTPError(err)
	}
	return c.JSON(http.StatusOK, st)
}
