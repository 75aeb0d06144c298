package timesheet

import "time"

type Status string

const (
	StatusDraft     Status = "Draft"
	StatusSubmitted Status = "Submitted"
	StatusApproved  Status = "Approved"
)

// ParseStatus maps a configuration or storage value to a Status.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusDraft, StatusSubmitted, StatusApproved:
		return Status(s), true
	}
	return "", false
}

// Entry is one timesheet record per employee per work date.
type Entry struct {
	ID             string
	EmployeeID     string
	WorkDate       time.Time
	TotalHours     float64
	OvertimeHours  float64
	Status         Status
	OvertimeStatus Status
	ProjectID      *string
	ProjectName    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
