package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/timesheet"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/pkg/database"
)

type timesheetRepository struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.Repository {
	return &timesheetRepository{db: db}
}

func (r *timesheetRepository) FindCountable(ctx context.Context, employeeID string, from, to time.Time, statuses []timesheet.Status) ([]timesheet.Entry, error) {
	q := GetQuerier(ctx, r.db)

	statusStrs := make([]string, 0, len(statuses))
	for _, s := range statuses {
		statusStrs = append(statusStrs, string(s))
	}

	query := `
		SELECT id, employee_id, work_date, total_hours, ot_hours, status, ot_status,
			   project_id, project_name, created_at, updated_at
		FROM timesheet_entries
		WHERE employee_id = $1 AND work_date >= $2 AND work_date <= $3 AND status = ANY($4)
		ORDER BY work_date
	`

	rows, err := q.Query(ctx, query, employeeID, from, to, statusStrs)
	if err != nil {
		return nil, fmt.Errorf("failed to find countable timesheet entries: %w", err)
	}
	defer rows.Close()

	var entries []timesheet.Entry
	for rows.Next() {
		var e timesheet.Entry
		if err := rows.Scan(
			&e.ID, &e.EmployeeID, &e.WorkDate, &e.TotalHours, &e.OvertimeHours, &e.Status, &e.OvertimeStatus,
			&e.ProjectID, &e.ProjectName, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan timesheet entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}
