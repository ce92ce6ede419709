package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Joseamica/backend/internal/repository"
	"github.com/Joseamica/backend/internal/utils"
)

// AuthHandler issues staff access tokens.  Login is venue-scoped: a
// staff member enters their PIN on a venue terminal and receives a token
// carrying their role at that venue.
type AuthHandler struct {
	Staff     *repository.StaffRepo
	JWTSecret string
	TTLMin    int
}

// NewAuthHandler returns an AuthHandler.
func NewAuthHandler(staff *repository.StaffRepo, secret string, ttlMin int) *AuthHandler {
	return &AuthHandler{Staff: staff, JWTSecret: secret, TTLMin: ttlMin}
}

type loginRequest struct {
	VenueID uint64 `json:"venueId" validate:"required"`
	Pin     string `json:"pin" validate:"required,min=4,max=12"`
}

// Login handles POST /v1/auth/login.  PINs are stored as bcrypt hashes,
// so the presented PIN is compared against every active candidate for
// the venue; a wrong PIN and an unknown venue both yield the same 401 to
// avoid leaking which venues exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var body loginRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}

	candidates, err := h.Staff.LoginCandidates(c.Request().Context(), body.VenueID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	for i := range candidates {
		if !utils.CheckPIN(candidates[i].PinHash, body.Pin) {
			continue
		}
		tok, err := utils.NewAccessToken(h.JWTSecret, candidates[i].StaffID, body.VenueID,
			string(candidates[i].Role), h.TTLMin)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
		}
		return c.JSON(http.StatusOK, ok(echo.Map{
			"accessToken": tok.Token,
			"expiresAt":   tok.Exp,
			"staffId":     candidates[i].StaffID,
			"name":        candidates[i].Name,
			"role":        candidates[i].Role,
		}))
	}
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
}

// Me handles GET /v1/auth/me and echoes back the authenticated session.
func (h *AuthHandler) Me(c echo.Context) error {
	staffID, err := claimUint64(c, "staff_id")
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	st, err := h.Staff.GetByID(c.Request().Context(), staffID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown staff member"})
	}
	venueID, _ := claimUint64(c, "venue_id")
	return c.JSON(http.StatusOK, ok(echo.Map{
		"staffId": st.ID,
		"name":    st.Name,
		"email":   st.Email,
		"venueId": venueID,
		"role":    c.Get("role"),
	}))
}
