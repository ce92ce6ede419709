package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Joseamica/backend/internal/model"
	"github.com/Joseamica/backend/internal/repository"
	"github.com/Joseamica/backend/internal/utils"
)

// StaffHandler manages staff identities and their venue assignments.
// Staff rows can also be created implicitly by the POS sync path; this
// surface is for operator-driven management.
type StaffHandler struct {
	Staff  *repository.StaffRepo
	Venues *repository.VenueRepo
}

// NewStaffHandler returns a StaffHandler.
func NewStaffHandler(staff *repository.StaffRepo, venues *repository.VenueRepo) *StaffHandler {
	return &StaffHandler{Staff: staff, Venues: venues}
}

type createStaffRequest struct {
	VenueID    uint64  `json:"venueId" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	Email      string  `json:"email" validate:"omitempty,email"`
	Pin        string  `json:"pin" validate:"required,min=4,max=12"`
	Role       string  `json:"role" validate:"required,oneof=OWNER ADMIN MANAGER WAITER"`
	POSStaffID *string `json:"posStaffId"`
}

// CreateStaff handles POST /v1/staff.  It creates a staff identity under
// the venue's organization together with its venue assignment.
func (h *StaffHandler) CreateStaff(c echo.Context) error {
	var body createStaffRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	venue, err := h.Venues.GetByID(c.Request().Context(), body.VenueID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	hash, err := utils.HashPIN(body.Pin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not hash pin"})
	}
	st := &model.Staff{
		OrganizationID: venue.OrganizationID,
		Name:           strings.TrimSpace(body.Name),
		Email:          body.Email,
		PinHash:        hash,
		Active:         true,
	}
	if err := h.Staff.CreateWithVenue(c.Request().Context(), st, venue.ID,
		model.StaffRole(body.Role), body.POSStaffID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "staff member already assigned to venue"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create staff member"})
	}
	return c.JSON(http.StatusCreated, ok(echo.Map{
		"id":    st.ID,
		"name":  st.Name,
		"email": st.Email,
		"role":  body.Role,
	}))
}

// ListStaff handles GET /v1/venues/:id/staff with pagination.
func (h *StaffHandler) ListStaff(c echo.Context) error {
	venueID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	page, size, err := parsePagination(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	members, total, err := h.Staff.ListByVenue(c.Request().Context(), venueID, page, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, okList(members, total, page, size))
}
