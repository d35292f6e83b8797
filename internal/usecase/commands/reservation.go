package commands

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"device-reservation/internal/domain/reservation"
	"device-reservation/internal/events"
	"device-reservation/internal/infra"
	"device-reservation/internal/pkg/clock"
	"device-reservation/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound        = errs.New("reservation not found")
	ErrDuplicateActiveReservation = errs.New("user already has an active reservation for this device")
	ErrNotOwner                   = errs.New("reservation belongs to another user")
	ErrInvalidTransition          = errs.New("invalid reservation status transition")
	ErrRepositoryUnavailable      = errs.New("repository operation failed")
	ErrPublishFailed              = errs.New("event publish failed")
)

// ReservationCommands is the write-side API: admission control at creation
// time, the FIFO promotion pass when a device frees up, and the staff
// collection/return confirmations.
type ReservationCommands interface {
	RequestReservation(ctx context.Context, userID, deviceID string) (*reservation.Reservation, error)
	CancelReservation(ctx context.Context, id uuid.UUID, actorID string, reason *string) (*reservation.Reservation, error)
	MarkCollected(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	MarkReturned(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
}

type reservationCommandsImpl struct {
	repo      ReservationRepository
	publisher EventPublisher
	clock     clock.Clock
}

func NewReservationCommands(
	repo ReservationRepository,
	publisher EventPublisher,
	clock clock.Clock,
) ReservationCommands {
	return &reservationCommandsImpl{
		repo:      repo,
		publisher: publisher,
		clock:     clock,
	}
}

// RequestReservation decides device assignment at creation time: the first
// active request for a device is granted immediately, everything else is
// appended to the tail of the per-device FIFO waitlist.
//
// The snapshot read and the create are not atomic, so two concurrent first
// requests for the same device can both be granted. The next promotion
// pass re-derives the queue from persisted state and heals the overlap.
func (c *reservationCommandsImpl) RequestReservation(ctx context.Context, userID, deviceID string) (*reservation.Reservation, error) {
	existing, err := c.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrRepositoryUnavailable)
	}
	for _, res := range existing {
		if res.DeviceID() == deviceID && res.IsActive() {
			return nil, ErrDuplicateActiveReservation
		}
	}

	active, err := c.repo.FindActiveByDevice(ctx, deviceID)
	if err != nil {
		return nil, errs.Mark(err, ErrRepositoryUnavailable)
	}

	now := c.clock.Now()
	res := reservation.NewReservation(uuid.Nil, userID, deviceID, now, now)

	if len(active) == 0 {
		if err := res.Confirm(now); err != nil {
			return nil, errs.Mark(err, ErrInvalidTransition)
		}
		if err := c.repo.Create(ctx, res); err != nil {
			return nil, errs.Mark(err, ErrRepositoryUnavailable)
		}
		if err := c.publishConfirmed(ctx, res); err != nil {
			return nil, err
		}
		return res, nil
	}

	pendingCount := 0
	for _, r := range active {
		if r.Status() == reservation.StatusPending {
			pendingCount++
		}
	}
	if err := res.PlaceOnWaitlist(pendingCount+1, now); err != nil {
		return nil, errs.Mark(err, ErrInvalidTransition)
	}
	if err := c.repo.Create(ctx, res); err != nil {
		return nil, errs.Mark(err, ErrRepositoryUnavailable)
	}

	return res, nil
}

// CancelReservation cancels on behalf of actorID, frees the device slot
// and re-runs the waitlist. Cancel, promotion and publish are each
// individually retryable; a redelivered cancellation replays them without
// further effect.
func (c *reservationCommandsImpl) CancelReservation(ctx context.Context, id uuid.UUID, actorID string, reason *string) (*reservation.Reservation, error) {
	res, err := c.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrReservationNotFound)
		}
		return nil, errs.Mark(err, ErrRepositoryUnavailable)
	}

	now := c.clock.Now()
	if err := res.Cancel(actorID, now); err != nil {
		return nil, markTransitionErr(err)
	}
	if err := c.repo.Update(ctx, res); err != nil {
		return nil, errs.Mark(err, ErrRepositoryUnavailable)
	}

	if err := c.releaseAndPromote(ctx, res.DeviceID()); err != nil {
		return nil, err
	}

	payload := events.ReservationCancelled{
		ReservationID: res.ID(),
		UserID:        res.UserID(),
		DeviceID:      res.DeviceID(),
		Reason:        reason,
		Timestamp:     now,
	}
	if err := c.publisher.Publish(ctx, events.TypeReservationCancelled, payload); err != nil {
		return nil, errs.Mark(err, ErrPublishFailed)
	}

	return res, nil
}

func (c *reservationCommandsImpl) MarkCollected(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, err := c.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrReservationNotFound)
		}
		return nil, errs.Mark(err, ErrRepositoryUnavailable)
	}

	now := c.clock.Now()
	if err := res.MarkCollected(now); err != nil {
		return nil, markTransitionErr(err)
	}
	if err := c.repo.Update(ctx, res); err != nil {
		return nil, errs.Mark(err, ErrRepositoryUnavailable)
	}

	payload := events.ReservationCollected{
		ReservationID: res.ID(),
		UserID:        res.UserID(),
		DeviceID:      res.DeviceID(),
		Timestamp:     now,
	}
	if err := c.publisher.Publish(ctx, events.TypeReservationCollected, payload); err != nil {
		return nil, errs.Mark(err, ErrPublishFailed)
	}

	return res, nil
}

func (c *reservationCommandsImpl) MarkReturned(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, err := c.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrReservationNotFound)
		}
		return nil, errs.Mark(err, ErrRepositoryUnavailable)
	}

	now := c.clock.Now()
	if err := res.MarkReturned(now); err != nil {
		return nil, markTransitionErr(err)
	}
	if err := c.repo.Update(ctx, res); err != nil {
		return nil, errs.Mark(err, ErrRepositoryUnavailable)
	}

	payload := events.ReservationReturned{
		ReservationID: res.ID(),
		UserID:        res.UserID(),
		DeviceID:      res.DeviceID(),
		Timestamp:     now,
	}
	if err := c.publisher.Publish(ctx, events.TypeReservationReturned, payload); err != nil {
		return nil, errs.Mark(err, ErrPublishFailed)
	}

	return res, nil
}

// releaseAndPromote re-runs the per-device FIFO queue from persisted
// state. It promotes the earliest pending request only when no confirmed
// holder remains, then renumbers the rest to a dense 1..N sequence.
// Each record is written independently; a crash mid-renumbering leaves
// positions stale until the next pass rebuilds them.
func (c *reservationCommandsImpl) releaseAndPromote(ctx context.Context, deviceID string) error {
	active, err := c.repo.FindActiveByDevice(ctx, deviceID)
	if err != nil {
		return errs.Mark(err, ErrRepositoryUnavailable)
	}

	hasHolder := false
	pending := make([]*reservation.Reservation, 0, len(active))
	for _, res := range active {
		switch res.Status() {
		case reservation.StatusConfirmed:
			hasHolder = true
		case reservation.StatusPending:
			pending = append(pending, res)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	// Earliest request wins; equal timestamps fall back to id order so the
	// outcome is deterministic.
	sort.Slice(pending, func(i, j int) bool {
		ci, cj := pending[i].CreatedAt(), pending[j].CreatedAt()
		if ci.Equal(cj) {
			return pending[i].ID().String() < pending[j].ID().String()
		}
		return ci.Before(cj)
	})

	now := c.clock.Now()

	if !hasHolder {
		head := pending[0]
		if err := head.Confirm(now); err != nil {
			return markTransitionErr(err)
		}
		if err := c.repo.Update(ctx, head); err != nil {
			return errs.Mark(err, ErrRepositoryUnavailable)
		}
		if err := c.publishConfirmed(ctx, head); err != nil {
			return err
		}
		slog.Info("promoted waitlisted reservation",
			"reservation_id", head.ID(), "device_id", deviceID)
		pending = pending[1:]
	}

	for i, res := range pending {
		if err := res.SetWaitlistPosition(i+1, now); err != nil {
			return markTransitionErr(err)
		}
		if err := c.repo.Update(ctx, res); err != nil {
			return errs.Mark(err, ErrRepositoryUnavailable)
		}
	}

	return nil
}

func (c *reservationCommandsImpl) publishConfirmed(ctx context.Context, res *reservation.Reservation) error {
	payload := events.ReservationConfirmed{
		ReservationID: res.ID(),
		DeviceID:      res.DeviceID(),
		UserID:        res.UserID(),
		StartDate:     res.StartDate(),
		DueDate:       res.DueDate(),
	}
	if err := c.publisher.Publish(ctx, events.TypeReservationConfirmed, payload); err != nil {
		return errs.Mark(err, ErrPublishFailed)
	}
	return nil
}

func markTransitionErr(err error) error {
	if errors.Is(err, reservation.ErrNotOwner) {
		return errs.Mark(err, ErrNotOwner)
	}
	return errs.Mark(err, ErrInvalidTransition)
}
