package events

import (
	"context"

	"device-reservation/internal/events"
	"device-reservation/internal/usecase/commands"
)

// StaffEvents maps the staff desk's physical hand-out/return confirmations
// onto the state machine. Duplicate confirmations are no-ops at the domain
// level, so these handlers stay thin.
type StaffEvents interface {
	HandleCollectionConfirmed(ctx context.Context, ev events.CollectionConfirmed) error
	HandleReturnConfirmed(ctx context.Context, ev events.ReturnConfirmed) error
}

type staffEventsImpl struct {
	commands commands.ReservationCommands
}

func NewStaffEvents(cmds commands.ReservationCommands) StaffEvents {
	return &staffEventsImpl{commands: cmds}
}

func (h *staffEventsImpl) HandleCollectionConfirmed(ctx context.Context, ev events.CollectionConfirmed) error {
	_, err := h.commands.MarkCollected(ctx, ev.ReservationID)
	return err
}

func (h *staffEventsImpl) HandleReturnConfirmed(ctx context.Context, ev events.ReturnConfirmed) error {
	_, err := h.commands.MarkReturned(ctx, ev.ReservationID)
	return err
}
