package reservation

import (
	"fmt"
	"time"

	"device-reservation/internal/pkg/errs"

	"github.com/google/uuid"
)

// StandardLoanDays is the fixed loan duration applied to every reservation.
// The due date is computed once at creation and never recomputed on
// confirmation.
const StandardLoanDays = 2

var (
	ErrNotOwner           = errs.New("reservation belongs to another user")
	ErrInvalidWaitlistPos = errs.New("waitlist position must be positive")
	ErrNotWaitlistable    = errs.New("only pending reservations can hold a waitlist position")
)

type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// Reservation is the aggregate root. All mutation goes through the
// transition methods below; each transition stamps its own timestamp at
// most once, so a record can never end up with, say, both cancelledAt and
// completedAt set.
type Reservation struct {
	id               uuid.UUID
	userID           string
	deviceID         string
	startDate        time.Time
	dueDate          time.Time
	status           Status
	waitlistPosition *int
	createdAt        time.Time
	updatedAt        time.Time
	confirmedAt      *time.Time
	cancelledAt      *time.Time
	completedAt      *time.Time
}

// NewReservation creates a pending reservation. The id is generated unless
// the caller supplies one (inbound loan events carry their own correlation
// id). DueDate is derived from startDate here and nowhere else.
func NewReservation(id uuid.UUID, userID, deviceID string, startDate, now time.Time) *Reservation {
	if id == uuid.Nil {
		id = uuid.New()
	}

	return &Reservation{
		id:        id,
		userID:    userID,
		deviceID:  deviceID,
		startDate: startDate,
		dueDate:   startDate.AddDate(0, 0, StandardLoanDays),
		status:    StatusPending,
		createdAt: now,
		updatedAt: now,
	}
}

func ReconstructReservation(
	id uuid.UUID,
	userID, deviceID string,
	startDate, dueDate time.Time,
	status Status,
	waitlistPosition *int,
	createdAt, updatedAt time.Time,
	confirmedAt, cancelledAt, completedAt *time.Time,
) *Reservation {
	return &Reservation{
		id:               id,
		userID:           userID,
		deviceID:         deviceID,
		startDate:        startDate,
		dueDate:          dueDate,
		status:           status,
		waitlistPosition: waitlistPosition,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
		confirmedAt:      confirmedAt,
		cancelledAt:      cancelledAt,
		completedAt:      completedAt,
	}
}

// Confirm makes this reservation the device holder. Re-confirming an
// already-confirmed reservation is a no-op success so that redelivered
// loan events never regress state; only updatedAt advances.
func (r *Reservation) Confirm(now time.Time) error {
	switch r.status {
	case StatusPending:
		r.status = StatusConfirmed
		r.waitlistPosition = nil
		if r.confirmedAt == nil {
			t := now
			r.confirmedAt = &t
		}
		r.updatedAt = now
		return nil
	case StatusConfirmed:
		r.updatedAt = now
		return nil
	default:
		return &InvalidTransitionError{From: r.status, To: StatusConfirmed}
	}
}

// Cancel is legal from any non-terminal state and requires the actor to be
// the owner. Cancelling an already-cancelled reservation is idempotent.
func (r *Reservation) Cancel(actorID string, now time.Time) error {
	if actorID != r.userID {
		return ErrNotOwner
	}

	switch r.status {
	case StatusCancelled:
		r.updatedAt = now
		return nil
	case StatusPending, StatusConfirmed, StatusCollected:
		r.status = StatusCancelled
		r.waitlistPosition = nil
		if r.cancelledAt == nil {
			t := now
			r.cancelledAt = &t
		}
		r.updatedAt = now
		return nil
	default:
		return &InvalidTransitionError{From: r.status, To: StatusCancelled}
	}
}

// MarkCollected records the staff-confirmed physical hand-out. Repeating
// the call on a collected reservation is a no-op success, matching how
// duplicate staff confirmations are delivered.
func (r *Reservation) MarkCollected(now time.Time) error {
	switch r.status {
	case StatusConfirmed:
		r.status = StatusCollected
		r.updatedAt = now
		return nil
	case StatusCollected:
		r.updatedAt = now
		return nil
	default:
		return &InvalidTransitionError{From: r.status, To: StatusCollected}
	}
}

// MarkReturned records the staff-confirmed return and completes the loan.
func (r *Reservation) MarkReturned(now time.Time) error {
	switch r.status {
	case StatusCollected:
		r.status = StatusReturned
		if r.completedAt == nil {
			t := now
			r.completedAt = &t
		}
		r.updatedAt = now
		return nil
	case StatusReturned:
		r.updatedAt = now
		return nil
	default:
		return &InvalidTransitionError{From: r.status, To: StatusReturned}
	}
}

// PlaceOnWaitlist assigns the FIFO queue position at admission time.
func (r *Reservation) PlaceOnWaitlist(position int, now time.Time) error {
	if r.status != StatusPending {
		return ErrNotWaitlistable
	}
	if position < 1 {
		return ErrInvalidWaitlistPos
	}
	r.waitlistPosition = &position
	r.updatedAt = now
	return nil
}

// SetWaitlistPosition renumbers a pending reservation after a promotion
// pass. Same constraints as PlaceOnWaitlist.
func (r *Reservation) SetWaitlistPosition(position int, now time.Time) error {
	return r.PlaceOnWaitlist(position, now)
}

func (r *Reservation) ID() uuid.UUID           { return r.id }
func (r *Reservation) UserID() string          { return r.userID }
func (r *Reservation) DeviceID() string        { return r.deviceID }
func (r *Reservation) StartDate() time.Time    { return r.startDate }
func (r *Reservation) DueDate() time.Time      { return r.dueDate }
func (r *Reservation) Status() Status          { return r.status }
func (r *Reservation) WaitlistPosition() *int  { return r.waitlistPosition }
func (r *Reservation) CreatedAt() time.Time    { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time    { return r.updatedAt }
func (r *Reservation) ConfirmedAt() *time.Time { return r.confirmedAt }
func (r *Reservation) CancelledAt() *time.Time { return r.cancelledAt }
func (r *Reservation) CompletedAt() *time.Time { return r.completedAt }

func (r *Reservation) IsActive() bool {
	return r.status.IsActive()
}
