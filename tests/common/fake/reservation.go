//go:build unit

// Package fake provides stateful in-memory doubles for the write-side
// ports. The admission and promotion logic re-derives decisions from
// persisted state, so its tests need a repository that actually remembers
// writes; expectation-based mocks cannot express that.
package fake

import (
	"context"
	"sync"
	"time"

	"device-reservation/internal/domain/reservation"
	"device-reservation/internal/infra"

	"github.com/google/uuid"
)

type ReservationRepository struct {
	mu      sync.Mutex
	records map[uuid.UUID]*reservation.Reservation

	FailNext error // returned by the next repository call, then cleared
}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{
		records: make(map[uuid.UUID]*reservation.Reservation),
	}
}

func (r *ReservationRepository) Create(_ context.Context, res *reservation.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return err
	}
	if _, ok := r.records[res.ID()]; ok {
		return infra.WrapRepoErr("reservation already exists", nil, infra.KindDuplicateKey)
	}
	r.records[res.ID()] = clone(res)
	return nil
}

func (r *ReservationRepository) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return nil, err
	}
	res, ok := r.records[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return clone(res), nil
}

func (r *ReservationRepository) FindByUser(_ context.Context, userID string) ([]*reservation.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return nil, err
	}
	var result []*reservation.Reservation
	for _, res := range r.records {
		if res.UserID() == userID {
			result = append(result, clone(res))
		}
	}
	return result, nil
}

func (r *ReservationRepository) FindActiveByDevice(_ context.Context, deviceID string) ([]*reservation.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return nil, err
	}
	var result []*reservation.Reservation
	for _, res := range r.records {
		if res.DeviceID() == deviceID && res.Status().IsActive() {
			result = append(result, clone(res))
		}
	}
	return result, nil
}

func (r *ReservationRepository) Update(_ context.Context, res *reservation.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return err
	}
	r.records[res.ID()] = clone(res)
	return nil
}

// Get reads a record directly, bypassing the port, for assertions.
func (r *ReservationRepository) Get(id uuid.UUID) *reservation.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.records[id]
	if !ok {
		return nil
	}
	return clone(res)
}

func (r *ReservationRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func (r *ReservationRepository) takeFailure() error {
	if r.FailNext != nil {
		err := r.FailNext
		r.FailNext = nil
		return err
	}
	return nil
}

// clone keeps stored state isolated from caller-held entities; without it
// an entity mutation would be "persisted" before Update is called.
func clone(res *reservation.Reservation) *reservation.Reservation {
	return reservation.ReconstructReservation(
		res.ID(),
		res.UserID(),
		res.DeviceID(),
		res.StartDate(),
		res.DueDate(),
		res.Status(),
		copyIntPtr(res.WaitlistPosition()),
		res.CreatedAt(),
		res.UpdatedAt(),
		copyTimePtr(res.ConfirmedAt()),
		copyTimePtr(res.CancelledAt()),
		copyTimePtr(res.CompletedAt()),
	)
}

func copyIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyTimePtr(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
