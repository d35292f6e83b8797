// Package events bridges inbound Loan and Staff bus deliveries onto the
// reservation state machine. The bus delivers at-least-once and in no
// particular order, so every handler here must be safe to re-invoke after
// any partial completion.
package events

import (
	"context"
	"errors"
	"log/slog"

	"device-reservation/internal/domain/reservation"
	"device-reservation/internal/events"
	"device-reservation/internal/infra"
	"device-reservation/internal/pkg/clock"
	"device-reservation/internal/pkg/errs"
	"device-reservation/internal/usecase/commands"
)

type LoanEvents interface {
	HandleLoanCreated(ctx context.Context, ev events.LoanCreated) error
	HandleLoanCancelled(ctx context.Context, ev events.LoanCancelled) error
}

type loanEventsImpl struct {
	repo      commands.ReservationRepository
	publisher commands.EventPublisher
	commands  commands.ReservationCommands
	clock     clock.Clock
}

func NewLoanEvents(
	repo commands.ReservationRepository,
	publisher commands.EventPublisher,
	cmds commands.ReservationCommands,
	clock clock.Clock,
) LoanEvents {
	return &loanEventsImpl{
		repo:      repo,
		publisher: publisher,
		commands:  cmds,
		clock:     clock,
	}
}

// HandleLoanCreated materializes a reservation for a loan the Loan service
// has already handed out, keyed by the loan's reservation id. A redelivery
// skips creation but always re-runs the confirm step: an earlier delivery
// may have persisted the record and then died before confirming or
// publishing, and re-confirming never regresses state.
func (h *loanEventsImpl) HandleLoanCreated(ctx context.Context, ev events.LoanCreated) error {
	res, err := h.repo.FindByID(ctx, ev.ReservationID)
	switch {
	case err == nil:
		slog.Info("reservation already exists, skipping creation",
			"reservation_id", ev.ReservationID)
	case infra.IsKind(err, infra.KindNotFound):
		now := h.clock.Now()
		res = reservation.NewReservation(ev.ReservationID, ev.UserID, ev.DeviceID, ev.StartDate, now)
		if createErr := h.repo.Create(ctx, res); createErr != nil {
			// A concurrent delivery may have created it between the lookup
			// and the insert; fall through to confirm in that case.
			if !infra.IsKind(createErr, infra.KindDuplicateKey) {
				return errs.Mark(createErr, commands.ErrRepositoryUnavailable)
			}
			res, err = h.repo.FindByID(ctx, ev.ReservationID)
			if err != nil {
				return errs.Mark(err, commands.ErrRepositoryUnavailable)
			}
		}
	default:
		return errs.Mark(err, commands.ErrRepositoryUnavailable)
	}

	return h.confirm(ctx, res)
}

// HandleLoanCancelled tolerates cancellations for reservations that never
// materialized; those are treated as already handled, not as errors.
func (h *loanEventsImpl) HandleLoanCancelled(ctx context.Context, ev events.LoanCancelled) error {
	_, err := h.commands.CancelReservation(ctx, ev.ReservationID, ev.UserID, ev.Reason)
	if errors.Is(err, commands.ErrReservationNotFound) {
		slog.Info("loan cancellation for unknown reservation, treating as handled",
			"reservation_id", ev.ReservationID)
		return nil
	}
	return err
}

func (h *loanEventsImpl) confirm(ctx context.Context, res *reservation.Reservation) error {
	now := h.clock.Now()
	if err := res.Confirm(now); err != nil {
		return errs.Mark(err, commands.ErrInvalidTransition)
	}
	if err := h.repo.Update(ctx, res); err != nil {
		return errs.Mark(err, commands.ErrRepositoryUnavailable)
	}

	payload := events.ReservationConfirmed{
		ReservationID: res.ID(),
		DeviceID:      res.DeviceID(),
		UserID:        res.UserID(),
		StartDate:     res.StartDate(),
		DueDate:       res.DueDate(),
	}
	if err := h.publisher.Publish(ctx, events.TypeReservationConfirmed, payload); err != nil {
		return errs.Mark(err, commands.ErrPublishFailed)
	}
	return nil
}
