package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Joseamica/backend/internal/repository"
)

// ShiftHandler serves the read-only shift surface.  Shifts are created
// by the POS sync path when order events reference them.
type ShiftHandler struct {
	Shifts *repository.ShiftRepo
}

// NewShiftHandler returns a ShiftHandler.
func NewShiftHandler(shifts *repository.ShiftRepo) *ShiftHandler {
	return &ShiftHandler{Shifts: shifts}
}

// GetShift handles GET /v1/shifts/:id.
func (h *ShiftHandler) GetShift(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	s, err := h.Shifts.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shift not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, ok(s))
}

// ListShifts handles GET /v1/venues/:id/shifts with pagination.
func (h *ShiftHandler) ListShifts(c echo.Context) error {
	venueID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	page, size, err := parsePagination(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	shifts, total, err := h.Shifts.ListByVenue(c.Request().Context(), venueID, page, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, okList(shifts, total, page, size))
}
