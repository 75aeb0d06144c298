package attendance

import (
	"context"
	"time"
)

type Repository interface {
	// FindCheckInDates returns the distinct calendar dates (midnight UTC) with
	// at least one check-in for the user within [from, to].
	FindCheckInDates(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error)
}
