//go:build unit || e2e

package builder

import (
	"time"

	"device-reservation/internal/domain/reservation"
	"device-reservation/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	ID               uuid.UUID
	UserID           string
	DeviceID         string
	StartDate        time.Time
	Status           reservation.Status
	WaitlistPosition *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ConfirmedAt      *time.Time
	CancelledAt      *time.Time
	CompletedAt      *time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	return &ReservationBuilder{
		ID:        uuid.New(),
		UserID:    "student-1",
		DeviceID:  "device-1",
		StartDate: now,
		Status:    reservation.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) WithStatus(status reservation.Status) *ReservationBuilder {
	b.Status = status
	return b
}

func (b *ReservationBuilder) WithWaitlistPosition(pos int) *ReservationBuilder {
	b.WaitlistPosition = &pos
	return b
}

func (b *ReservationBuilder) WithCreatedAt(t time.Time) *ReservationBuilder {
	b.CreatedAt = t
	b.UpdatedAt = t
	return b
}

func (b *ReservationBuilder) BuildDomain() *reservation.Reservation {
	return reservation.ReconstructReservation(
		b.ID,
		b.UserID,
		b.DeviceID,
		b.StartDate,
		b.StartDate.AddDate(0, 0, reservation.StandardLoanDays),
		b.Status,
		b.WaitlistPosition,
		b.CreatedAt,
		b.UpdatedAt,
		b.ConfirmedAt,
		b.CancelledAt,
		b.CompletedAt,
	)
}

func (b *ReservationBuilder) BuildView() *queries.ReservationView {
	return &queries.ReservationView{
		ID:               b.ID,
		UserID:           b.UserID,
		DeviceID:         b.DeviceID,
		StartDate:        b.StartDate,
		DueDate:          b.StartDate.AddDate(0, 0, reservation.StandardLoanDays),
		Status:           b.Status.String(),
		WaitlistPosition: b.WaitlistPosition,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
		ConfirmedAt:      b.ConfirmedAt,
		CancelledAt:      b.CancelledAt,
		CompletedAt:      b.CompletedAt,
	}
}

func (b *ReservationBuilder) BuildCreateRequestDTO() map[string]any {
	return map[string]any{
		"userId":   b.UserID,
		"deviceId": b.DeviceID,
	}
}
