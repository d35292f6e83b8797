package response

import (
	"time"

	"device-reservation/internal/domain/reservation"
	"device-reservation/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID               uuid.UUID  `json:"id"`
	UserID           string     `json:"userId"`
	DeviceID         string     `json:"deviceId"`
	StartDate        time.Time  `json:"startDate"`
	DueDate          time.Time  `json:"dueDate"`
	Status           string     `json:"status"`
	WaitlistPosition *int       `json:"waitlistPosition,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	ConfirmedAt      *time.Time `json:"confirmedAt,omitempty"`
	CancelledAt      *time.Time `json:"cancelledAt,omitempty"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
}

func FromEntity(res *reservation.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:               res.ID(),
		UserID:           res.UserID(),
		DeviceID:         res.DeviceID(),
		StartDate:        res.StartDate(),
		DueDate:          res.DueDate(),
		Status:           res.Status().String(),
		WaitlistPosition: res.WaitlistPosition(),
		CreatedAt:        res.CreatedAt(),
		UpdatedAt:        res.UpdatedAt(),
		ConfirmedAt:      res.ConfirmedAt(),
		CancelledAt:      res.CancelledAt(),
		CompletedAt:      res.CompletedAt(),
	}
}

func FromView(view *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{
		ID:               view.ID,
		UserID:           view.UserID,
		DeviceID:         view.DeviceID,
		StartDate:        view.StartDate,
		DueDate:          view.DueDate,
		Status:           view.Status,
		WaitlistPosition: view.WaitlistPosition,
		CreatedAt:        view.CreatedAt,
		UpdatedAt:        view.UpdatedAt,
		ConfirmedAt:      view.ConfirmedAt,
		CancelledAt:      view.CancelledAt,
		CompletedAt:      view.CompletedAt,
	}
}

func FromViews(views []*queries.ReservationView) []*ReservationResponse {
	result := make([]*ReservationResponse, len(views))
	for i, view := range views {
		result[i] = FromView(view)
	}
	return result
}
