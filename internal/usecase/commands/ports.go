package commands

import (
	"context"

	"device-reservation/internal/domain/reservation"

	"github.com/google/uuid"
)

// ReservationRepository is the write-side persistence port. Update has
// upsert, last-write-wins semantics; there is no version check, so every
// caller must read-modify-write whole records and stay idempotent under
// replays.
type ReservationRepository interface {
	Create(ctx context.Context, res *reservation.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	FindByUser(ctx context.Context, userID string) ([]*reservation.Reservation, error)
	FindActiveByDevice(ctx context.Context, deviceID string) ([]*reservation.Reservation, error)
	Update(ctx context.Context, res *reservation.Reservation) error
}

// EventPublisher delivers outbound domain events at-least-once. Publish is
// awaited so that failures propagate to the caller and the bus can
// redeliver the triggering event.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}
