package leave

import (
	"context"
	"time"
)

type Repository interface {
	// FindApprovedOverlapping returns approved requests whose [start, end]
	// interval intersects [from, to].
	FindApprovedOverlapping(ctx context.Context, employeeID string, from, to time.Time) ([]Request, error)
}
