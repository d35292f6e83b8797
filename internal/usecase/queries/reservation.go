package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReservationView is the read-model shape returned to API callers.
type ReservationView struct {
	ID               uuid.UUID
	UserID           string
	DeviceID         string
	StartDate        time.Time
	DueDate          time.Time
	Status           string
	WaitlistPosition *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ConfirmedAt      *time.Time
	CancelledAt      *time.Time
	CompletedAt      *time.Time
}

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindByUser(ctx context.Context, userID string) ([]*ReservationView, error)
	FindAll(ctx context.Context) ([]*ReservationView, error)
}

type ReservationQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListByUser(ctx context.Context, userID string) ([]*ReservationView, error)
	ListAll(ctx context.Context) ([]*ReservationView, error)
}

type reservationQueriesImpl struct {
	store ReservationReadStore
}

func NewReservationQueries(store ReservationReadStore) ReservationQueries {
	return &reservationQueriesImpl{store: store}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	return q.store.FindByID(ctx, id)
}

func (q *reservationQueriesImpl) ListByUser(ctx context.Context, userID string) ([]*ReservationView, error) {
	return q.store.FindByUser(ctx, userID)
}

func (q *reservationQueriesImpl) ListAll(ctx context.Context) ([]*ReservationView, error) {
	return q.store.FindAll(ctx)
}
