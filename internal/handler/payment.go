package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Joseamica/backend/internal/model"
	"github.com/Joseamica/backend/internal/repository"
)

// PaymentHandler records and lists payment allocations.  This is
// bookkeeping only; processor integration is out of scope.
type PaymentHandler struct {
	Payments *repository.PaymentRepo
	Orders   *repository.OrderRepo
}

// NewPaymentHandler returns a PaymentHandler.
func NewPaymentHandler(payments *repository.PaymentRepo, orders *repository.OrderRepo) *PaymentHandler {
	return &PaymentHandler{Payments: payments, Orders: orders}
}

type paymentRequest struct {
	OrderID      uint64  `json:"orderId" validate:"required"`
	Method       string  `json:"method" validate:"required"`
	Amount       float64 `json:"amount" validate:"required,gt=0"`
	TipAmount    float64 `json:"tipAmount" validate:"gte=0"`
	Status       string  `json:"status" validate:"omitempty,oneof=PENDING COMPLETED REFUNDED"`
	ProcessorRef *string `json:"processorRef"`
}

// CreatePayment handles POST /v1/payments.  The referenced order must
// exist; the payment inherits its venue so allocations never cross the
// tenancy boundary.
func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	var body paymentRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	order, err := h.Orders.GetByID(c.Request().Context(), body.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	status := model.PaymentStatus(body.Status)
	if status == "" {
		status = model.PaymentCompleted
	}
	p := &model.Payment{
		VenueID:      order.VenueID,
		OrderID:      order.ID,
		Method:       body.Method,
		Amount:       body.Amount,
		TipAmount:    body.TipAmount,
		Status:       status,
		ProcessorRef: body.ProcessorRef,
	}
	if err := h.Payments.Create(c.Request().Context(), p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record payment"})
	}
	return c.JSON(http.StatusCreated, ok(p))
}

// ListPayments handles GET /v1/venues/:id/payments with pagination.
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	venueID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	page, size, err := parsePagination(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	payments, total, err := h.Payments.ListByVenue(c.Request().Context(), venueID, page, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, okList(payments, total, page, size))
}
