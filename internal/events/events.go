// Package events defines the wire contracts exchanged with the Loan and
// Staff services over the event bus. Inbound deliveries are at-least-once
// and unordered; every consumer of these types must tolerate duplicates.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Inbound event types.
const (
	TypeLoanCreated            = "Loan.Created"
	TypeLoanCancelled          = "Loan.Cancelled"
	TypeCollectionConfirmed    = "Staff.CollectionConfirmed"
	TypeReturnConfirmed        = "Staff.ReturnConfirmed"
	TypeSubscriptionValidation = "Subscription.Validation"
)

// Outbound event types.
const (
	TypeReservationConfirmed = "Reservation.Confirmed"
	TypeReservationCancelled = "Reservation.Cancelled"
	TypeReservationCollected = "Reservation.Collected"
	TypeReservationReturned  = "Reservation.Returned"
)

// Envelope is the push-delivery wrapper used on both directions of the
// bus. Data stays raw until the event type is known.
type Envelope struct {
	ID        string          `json:"id"`
	EventType string          `json:"eventType"`
	Subject   string          `json:"subject,omitempty"`
	Data      json.RawMessage `json:"data"`
	EventTime time.Time       `json:"eventTime"`
}

// SubscriptionValidation is the handshake sent when a push subscription is
// created; the endpoint must echo the code back synchronously.
type SubscriptionValidation struct {
	ValidationCode string `json:"validationCode"`
}

type ValidationResponse struct {
	ValidationResponse string `json:"validationResponse"`
}

type LoanCreated struct {
	ReservationID uuid.UUID `json:"reservationId"`
	UserID        string    `json:"userId"`
	DeviceID      string    `json:"deviceId"`
	StartDate     time.Time `json:"startDate"`
	DueDate       time.Time `json:"dueDate,omitempty"`
	Timestamp     time.Time `json:"timestamp,omitempty"`
}

type LoanCancelled struct {
	ReservationID uuid.UUID `json:"reservationId"`
	UserID        string    `json:"userId"`
	DeviceID      string    `json:"deviceId,omitempty"`
	Reason        *string   `json:"reason,omitempty"`
	Timestamp     time.Time `json:"timestamp,omitempty"`
}

type CollectionConfirmed struct {
	ReservationID uuid.UUID `json:"reservationId"`
}

type ReturnConfirmed struct {
	ReservationID uuid.UUID `json:"reservationId"`
}

type ReservationConfirmed struct {
	ReservationID uuid.UUID `json:"reservationId"`
	DeviceID      string    `json:"deviceId"`
	UserID        string    `json:"userId"`
	StartDate     time.Time `json:"startDate"`
	DueDate       time.Time `json:"dueDate"`
}

type ReservationCancelled struct {
	ReservationID uuid.UUID `json:"reservationId"`
	UserID        string    `json:"userId"`
	DeviceID      string    `json:"deviceId"`
	Reason        *string   `json:"reason,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

type ReservationCollected struct {
	ReservationID uuid.UUID `json:"reservationId"`
	UserID        string    `json:"userId"`
	DeviceID      string    `json:"deviceId"`
	Timestamp     time.Time `json:"timestamp"`
}

type ReservationReturned struct {
	ReservationID uuid.UUID `json:"reservationId"`
	UserID        string    `json:"userId"`
	DeviceID      string    `json:"deviceId"`
	Timestamp     time.Time `json:"timestamp"`
}

func Unmarshal[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, err
	}
	return t, nil
}
