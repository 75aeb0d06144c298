package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/attendance"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) FindCheckInDates(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error) {
	q := GetQuerier(ctx, r.db)

	// A day with several check-in/check-out sessions still counts once.
	query := `
		SELECT DISTINCT check_in::date
		FROM attendances
		WHERE user_id = $1 AND check_in >= $2 AND check_in < $3
		ORDER BY check_in::date
	`

	rows, err := q.Query(ctx, query, userID, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to find check-in dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan check-in date: %w", err)
		}
		dates = append(dates, d)
	}

	return dates, nil
}
