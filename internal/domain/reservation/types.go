package reservation

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCollected Status = "collected"
	StatusReturned  Status = "returned"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCollected, StatusReturned:
		return true
	default:
		return false
	}
}

// IsActive reports whether a reservation in this status still occupies a
// slot on the device: the holder (confirmed) or a waitlisted request.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusReturned
}
