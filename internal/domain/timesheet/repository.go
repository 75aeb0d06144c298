package timesheet

import (
	"context"
	"time"
)

type Repository interface {
	// FindCountable returns the employee's entries within [from, to] whose
	// approval status is in statuses. Which statuses count toward totals is a
	// deployment decision, so the set is always passed in explicitly.
	FindCountable(ctx context.Context, employeeID string, from, to time.Time, statuses []Status) ([]Entry, error)
}
