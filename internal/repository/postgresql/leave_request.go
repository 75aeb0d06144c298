package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/leave"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/pkg/database"
)

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.Repository {
	return &leaveRequestRepository{db: db}
}

func (r *leaveRequestRepository) FindApprovedOverlapping(ctx context.Context, employeeID string, from, to time.Time) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	// Interval intersection, the SQL form of leave.Request.Overlaps: the
	// request starts before the window ends and ends after the window starts.
	query := `
		SELECT id, employee_id, start_date, end_date, number_of_days, status, created_at, updated_at
		FROM leave_requests
		WHERE employee_id = $1 AND status = 'approved'
		  AND start_date <= $3 AND end_date >= $2
		ORDER BY start_date
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to find approved leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		var lr leave.Request
		if err := rows.Scan(
			&lr.ID, &lr.EmployeeID, &lr.StartDate, &lr.EndDate, &lr.NumberOfDays, &lr.Status,
			&lr.CreatedAt, &lr.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}

	return requests, nil
}
