package request

type CreateReservationRequest struct {
	UserID   string `json:"userId" binding:"required"`
	DeviceID string `json:"deviceId" binding:"required"`
}

type CancelReservationRequest struct {
	UserID string  `json:"userId" binding:"required"`
	Reason *string `json:"reason,omitempty"`
}
