package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Joseamica/backend/internal/model"
	"github.com/Joseamica/backend/internal/repository"
)

// VenueHandler covers the venue CRUD surface.  Venues are created under
// the caller's organization; listing is organization-scoped.
type VenueHandler struct {
	Venues *repository.VenueRepo
}

// NewVenueHandler returns a VenueHandler.
func NewVenueHandler(venues *repository.VenueRepo) *VenueHandler {
	return &VenueHandler{Venues: venues}
}

type venueRequest struct {
	OrganizationID uint64 `json:"organizationId" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Address        string `json:"address"`
	Timezone       string `json:"timezone"`
	Active         *bool  `json:"active"`
}

// CreateVenue handles POST /v1/venues.
func (h *VenueHandler) CreateVenue(c echo.Context) error {
	var body venueRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	tz := body.Timezone
	if tz == "" {
		tz = "UTC"
	}
	active := true
	if body.Active != nil {
		active = *body.Active
	}
	v := &model.Venue{
		OrganizationID: body.OrganizationID,
		Name:           name,
		Address:        body.Address,
		Timezone:       tz,
		Active:         active,
	}
	if err := h.Venues.Create(c.Request().Context(), v); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "venue name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create venue"})
	}
	return c.JSON(http.StatusCreated, ok(v))
}

// GetVenue handles GET /v1/venues/:id.
func (h *VenueHandler) GetVenue(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	v, err := h.Venues.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, ok(v))
}

// ListVenues handles GET /v1/organizations/:id/venues with pagination.
func (h *VenueHandler) ListVenues(c echo.Context) error {
	orgID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	page, size, err := parsePagination(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	venues, total, err := h.Venues.List(c.Request().Context(), orgID, page, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, okList(venues, total, page, size))
}

// UpdateVenue handles PUT /v1/venues/:id.
func (h *VenueHandler) UpdateVenue(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	v, err := h.Venues.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var body struct {
		Name     *string `json:"name"`
		Address  *string `json:"address"`
		Timezone *string `json:"timezone"`
		Active   *bool   `json:"active"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
		}
		v.Name = name
	}
	if body.Address != nil {
		v.Address = *body.Address
	}
	if body.Timezone != nil {
		v.Timezone = *body.Timezone
	}
	if body.Active != nil {
		v.Active = *body.Active
	}
	if err := h.Venues.Update(c.Request().Context(), v); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		case errors.Is(err, repository.ErrDuplicate):
			return c.JSON(http.StatusConflict, echo.Map{"error": "venue name already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	updated, err := h.Venues.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, ok(updated))
}

// DeleteVenue handles DELETE /v1/venues/:id.  Venues with recorded
// orders cannot be deleted.
func (h *VenueHandler) DeleteVenue(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Venues.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "venue has orders and cannot be deleted"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
