package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Joseamica/backend/internal/model"
	"github.com/Joseamica/backend/internal/repository"
)

// OrderHandler serves the read-only order surface.  Orders are written
// exclusively by the POS sync path; the REST API exposes them for
// dashboards and reporting.
type OrderHandler struct {
	Orders   *repository.OrderRepo
	Payments *repository.PaymentRepo
}

// NewOrderHandler returns an OrderHandler.
func NewOrderHandler(orders *repository.OrderRepo, payments *repository.PaymentRepo) *OrderHandler {
	return &OrderHandler{Orders: orders, Payments: payments}
}

// GetOrder handles GET /v1/orders/:id.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	o, err := h.Orders.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, ok(o))
}

// ListOrders handles GET /v1/venues/:id/orders with pagination and
// optional status / syncStatus filters.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	venueID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	page, size, err := parsePagination(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	filter := repository.OrderFilter{
		Status:     c.QueryParam("status"),
		SyncStatus: model.SyncStatus(c.QueryParam("syncStatus")),
	}
	orders, total, err := h.Orders.ListByVenue(c.Request().Context(), venueID, filter, page, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, okList(orders, total, page, size))
}

// ListOrderPayments handles GET /v1/orders/:id/payments.
func (h *OrderHandler) ListOrderPayments(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if _, err := h.Orders.GetByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	payments, err := h.Payments.ListByOrder(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, ok(payments))
}
