package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Joseamica/backend/internal/model"
	"github.com/Joseamica/backend/internal/possync"
	"github.com/Joseamica/backend/internal/queue"
	"github.com/Joseamica/backend/internal/repository"
)

// SyncHandler exposes the POS bridge surface: order event ingestion,
// heartbeat recording, connection inspection/acknowledgment and command
// outbox access.  Ingestion endpoints are also fed by the AMQP consumer;
// this HTTP surface serves bridges that push over plain HTTPS.
type SyncHandler struct {
	Reconciler *possync.Reconciler
	Monitor    *possync.Monitor
	Outbox     *possync.Outbox
}

// NewSyncHandler constructs a SyncHandler; all dependencies must be non-nil.
func NewSyncHandler(rec *possync.Reconciler, mon *possync.Monitor, out *possync.Outbox) *SyncHandler {
	if rec == nil || mon == nil || out == nil {
		panic("nil dependency passed to NewSyncHandler")
	}
	return &SyncHandler{Reconciler: rec, Monitor: mon, Outbox: out}
}

// PostOrderEvent handles POST /v1/pos/events/order.  It reconciles one
// POS order event and returns the resulting canonical order.  A missing
// venue yields 404; reconciliation failures yield 500 after the row has
// been marked FAILED, and the caller is expected to retry the whole
// event.
func (h *SyncHandler) PostOrderEvent(c echo.Context) error {
	var body queue.OrderSyncEvent
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	order, err := h.Reconciler.ProcessOrderEvent(c.Request().Context(), body.ToOrderEvent())
	if err != nil {
		switch {
		case errors.Is(err, possync.ErrVenueNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		case errors.Is(err, possync.ErrMissingExternalID):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "order sync failed"})
		}
	}
	return c.JSON(http.StatusOK, ok(order))
}

// PostHeartbeat handles POST /v1/pos/heartbeat.  The response reports
// the resulting connection state and whether the POS instance changed,
// which the bridge surfaces to operators.
func (h *SyncHandler) PostHeartbeat(c echo.Context) error {
	var body queue.HeartbeatEvent
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	cs, changed, err := h.Monitor.RecordHeartbeat(c.Request().Context(), body.ToHeartbeat())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record heartbeat"})
	}
	return c.JSON(http.StatusOK, ok(echo.Map{
		"status":          cs.Status,
		"instanceChanged": changed,
	}))
}

// GetConnection handles GET /v1/venues/:id/pos/connection.
func (h *SyncHandler) GetConnection(c echo.Context) error {
	venueID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	cs, err := h.Monitor.Status(c.Request().Context(), venueID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no POS connection recorded for venue"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, ok(cs))
}

// AcknowledgeConnection handles POST /v1/venues/:id/pos/connection/acknowledge.
// It is the explicit operator action that clears NEEDS_RECONCILIATION.
func (h *SyncHandler) AcknowledgeConnection(c echo.Context) error {
	venueID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	cs, err := h.Monitor.Acknowledge(c.Request().Context(), venueID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no POS connection recorded for venue"})
		case errors.Is(err, possync.ErrNotReconciling):
			return c.JSON(http.StatusConflict, echo.Map{"error": "connection is not awaiting reconciliation"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	}
	return c.JSON(http.StatusOK, ok(cs))
}

// createCommandRequest is the body of POST /v1/pos/commands.
type createCommandRequest struct {
	VenueID     uint64          `json:"venueId" validate:"required"`
	EntityType  string          `json:"entityType" validate:"required"`
	EntityID    uint64          `json:"entityId" validate:"required"`
	CommandType string          `json:"commandType" validate:"required,oneof=CREATE UPDATE DELETE CANCEL"`
	Payload     json.RawMessage `json:"payload"`
}

// CreateCommand handles POST /v1/pos/commands and enqueues an outbound
// mutation for the dispatcher to deliver.
func (h *SyncHandler) CreateCommand(c echo.Context) error {
	var body createCommandRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	cmd, err := h.Outbox.Enqueue(c.Request().Context(), body.VenueID, body.EntityType,
		body.EntityID, model.CommandType(body.CommandType), body.Payload)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not enqueue command"})
	}
	return c.JSON(http.StatusCreated, ok(cmd))
}

// GetCommand handles GET /v1/pos/commands/:id.
func (h *SyncHandler) GetCommand(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cmd, err := h.Outbox.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "command not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, ok(cmd))
}
