package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Joseamica/backend/internal/model"
	"github.com/Joseamica/backend/internal/repository"
)

// ReviewHandler records and lists customer reviews left for a venue.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
	Orders  *repository.OrderRepo
}

// NewReviewHandler returns a ReviewHandler.
func NewReviewHandler(reviews *repository.ReviewRepo, orders *repository.OrderRepo) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews, Orders: orders}
}

type reviewRequest struct {
	VenueID uint64  `json:"venueId" validate:"required"`
	OrderID *uint64 `json:"orderId"`
	Stars   uint8   `json:"stars" validate:"required,min=1,max=5"`
	Comment string  `json:"comment" validate:"max=2000"`
}

// CreateReview handles POST /v1/reviews.  When an order is referenced it
// must exist and belong to the review's venue.
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	var body reviewRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	if body.OrderID != nil {
		order, err := h.Orders.GetByID(c.Request().Context(), *body.OrderID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if order.VenueID != body.VenueID {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "order belongs to another venue"})
		}
	}
	rv := &model.Review{
		VenueID: body.VenueID,
		OrderID: body.OrderID,
		Stars:   body.Stars,
		Comment: body.Comment,
	}
	if err := h.Reviews.Create(c.Request().Context(), rv); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record review"})
	}
	return c.JSON(http.StatusCreated, ok(rv))
}

// ListReviews handles GET /v1/venues/:id/reviews with pagination.
func (h *ReviewHandler) ListReviews(c echo.Context) error {
	venueID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	page, size, err := parsePagination(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	reviews, total, err := h.Reviews.ListByVenue(c.Request().Context(), venueID, page, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, okList(reviews, total, page, size))
}
