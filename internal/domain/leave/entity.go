package leave

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Request is a leave request over an inclusive date range.
type Request struct {
	ID           string
	EmployeeID   string
	StartDate    time.Time
	EndDate      time.Time
	NumberOfDays float64
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Overlaps reports whether the request's inclusive [StartDate, EndDate] range
// intersects the inclusive [from, to] window.
func (r Request) Overlaps(from, to time.Time) bool {
	return !r.StartDate.After(to) && !r.EndDate.Before(from)
}
