package api

import (
	"errors"
	"log/slog"
	"net/http"

	"device-reservation/internal/events"
	"device-reservation/internal/usecase/commands"
	usecaseevents "device-reservation/internal/usecase/events"

	"github.com/gin-gonic/gin"
)

// EventsHandler receives push deliveries from the bus subscriptions of the
// Loan and Staff services. Domain-level failures are acknowledged so the
// bus does not retry an event that can never succeed; upstream failures
// return 5xx so the delivery is retried.
type EventsHandler struct {
	loan  usecaseevents.LoanEvents
	staff usecaseevents.StaffEvents
}

func NewEventsHandler(loan usecaseevents.LoanEvents, staff usecaseevents.StaffEvents) *EventsHandler {
	return &EventsHandler{
		loan:  loan,
		staff: staff,
	}
}

func (h *EventsHandler) LoanEvents(c *gin.Context) {
	batch, handled := h.bindBatch(c)
	if handled {
		return
	}

	for _, envelope := range batch {
		var err error
		switch envelope.EventType {
		case events.TypeLoanCreated:
			var ev events.LoanCreated
			if ev, err = events.Unmarshal[events.LoanCreated](envelope.Data); err == nil {
				err = h.loan.HandleLoanCreated(c.Request.Context(), ev)
			}
		case events.TypeLoanCancelled:
			var ev events.LoanCancelled
			if ev, err = events.Unmarshal[events.LoanCancelled](envelope.Data); err == nil {
				err = h.loan.HandleLoanCancelled(c.Request.Context(), ev)
			}
		default:
			slog.Info("skipping unknown loan event", "event_type", envelope.EventType)
			continue
		}

		if err != nil {
			if abortDelivery(c, envelope.EventType, err) {
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "accepted"})
}

func (h *EventsHandler) StaffEvents(c *gin.Context) {
	batch, handled := h.bindBatch(c)
	if handled {
		return
	}

	for _, envelope := range batch {
		var err error
		switch envelope.EventType {
		case events.TypeCollectionConfirmed:
			var ev events.CollectionConfirmed
			if ev, err = events.Unmarshal[events.CollectionConfirmed](envelope.Data); err == nil {
				err = h.staff.HandleCollectionConfirmed(c.Request.Context(), ev)
			}
		case events.TypeReturnConfirmed:
			var ev events.ReturnConfirmed
			if ev, err = events.Unmarshal[events.ReturnConfirmed](envelope.Data); err == nil {
				err = h.staff.HandleReturnConfirmed(c.Request.Context(), ev)
			}
		default:
			slog.Info("skipping unknown staff event", "event_type", envelope.EventType)
			continue
		}

		if err != nil {
			if abortDelivery(c, envelope.EventType, err) {
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "accepted"})
}

// bindBatch parses the delivery body and answers the subscription
// validation handshake synchronously, before any domain logic runs.
func (h *EventsHandler) bindBatch(c *gin.Context) ([]events.Envelope, bool) {
	var batch []events.Envelope
	if err := c.ShouldBindJSON(&batch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"message": "Invalid event batch format"},
		})
		return nil, true
	}

	for _, envelope := range batch {
		if envelope.EventType != events.TypeSubscriptionValidation {
			continue
		}
		validation, err := events.Unmarshal[events.SubscriptionValidation](envelope.Data)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{"message": "Invalid validation event"},
			})
			return nil, true
		}
		slog.Info("answering subscription validation handshake")
		c.JSON(http.StatusOK, events.ValidationResponse{ValidationResponse: validation.ValidationCode})
		return nil, true
	}

	return batch, false
}

// abortDelivery reports whether processing must stop. Only upstream
// failures are surfaced to the bus for redelivery; domain errors are
// logged and acknowledged because retrying them can never succeed.
func abortDelivery(c *gin.Context, eventType string, err error) bool {
	if errors.Is(err, commands.ErrRepositoryUnavailable) || errors.Is(err, commands.ErrPublishFailed) {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"message": "Upstream unavailable"},
		})
		return true
	}

	slog.Warn("dropping event after domain error", "event_type", eventType, "error", err)
	return false
}
