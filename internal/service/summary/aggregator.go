package summary

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/attendance"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/employee"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/leave"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/summary"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/timesheet"
)

// unassignedProject buckets timesheet entries that carry no project.
const unassignedProject = "Unassigned"

// Aggregation is the raw monthly totals for one employee, before any payroll
// math is applied.
type Aggregation struct {
	TotalWorkingDays   int
	TotalWorkedHours   float64
	TotalOvertimeHours float64
	ApprovedLeaves     float64
	AbsentDays         int
	WeekdaysInMonth    int
	ProjectBreakdown   []summary.ProjectBreakdown
}

type aggregator struct {
	attendanceRepo    attendance.Repository
	timesheetRepo     timesheet.Repository
	leaveRepo         leave.Repository
	countableStatuses []timesheet.Status
}

func newAggregator(
	attendanceRepo attendance.Repository,
	timesheetRepo timesheet.Repository,
	leaveRepo leave.Repository,
	countableStatuses []timesheet.Status,
) *aggregator {
	return &aggregator{
		attendanceRepo:    attendanceRepo,
		timesheetRepo:     timesheetRepo,
		leaveRepo:         leaveRepo,
		countableStatuses: countableStatuses,
	}
}

// Aggregate reads attendance, timesheet and leave records for one employee
// over one calendar month. Attendance is keyed by the employee's login
// account, so an employee without a linked user cannot be aggregated.
func (a *aggregator) Aggregate(ctx context.Context, emp employee.Employee, month, year int) (Aggregation, error) {
	if emp.UserID == nil || *emp.UserID == "" {
		return Aggregation{}, employee.ErrNoLinkedUser
	}

	from, to := monthWindow(month, year)

	checkInDates, err := a.attendanceRepo.FindCheckInDates(ctx, *emp.UserID, from, to)
	if err != nil {
		return Aggregation{}, err
	}

	entries, err := a.timesheetRepo.FindCountable(ctx, emp.ID, from, to, a.countableStatuses)
	if err != nil {
		return Aggregation{}, err
	}

	leaves, err := a.leaveRepo.FindApprovedOverlapping(ctx, emp.ID, from, to)
	if err != nil {
		return Aggregation{}, err
	}

	agg := Aggregation{
		TotalWorkingDays: len(checkInDates),
		WeekdaysInMonth:  weekdaysInMonth(month, year),
	}

	for _, e := range entries {
		agg.TotalWorkedHours += e.TotalHours
		agg.TotalOvertimeHours += e.OvertimeHours
	}
	for _, lr := range leaves {
		agg.ApprovedLeaves += lr.NumberOfDays
	}

	agg.AbsentDays = agg.WeekdaysInMonth - agg.TotalWorkingDays - int(math.Floor(agg.ApprovedLeaves))
	if agg.AbsentDays < 0 {
		agg.AbsentDays = 0
	}

	agg.ProjectBreakdown = buildProjectBreakdown(entries)

	return agg, nil
}

// buildProjectBreakdown groups countable entries by project, counting distinct
// work dates and summing hours, sorted descending by total hours.
func buildProjectBreakdown(entries []timesheet.Entry) []summary.ProjectBreakdown {
	type bucket struct {
		projectID *string
		name      string
		dates     map[string]struct{}
		hours     float64
		otHours   float64
	}

	buckets := map[string]*bucket{}
	for _, e := range entries {
		key := unassignedProject
		name := unassignedProject
		if e.ProjectID != nil && *e.ProjectID != "" {
			key = *e.ProjectID
			if e.ProjectName != nil && *e.ProjectName != "" {
				name = *e.ProjectName
			} else {
				name = *e.ProjectID
			}
		}

		b, ok := buckets[key]
		if !ok {
			b = &bucket{projectID: e.ProjectID, name: name, dates: map[string]struct{}{}}
			if key == unassignedProject {
				b.projectID = nil
			}
			buckets[key] = b
		}
		b.dates[e.WorkDate.Format("2006-01-02")] = struct{}{}
		b.hours += e.TotalHours
		b.otHours += e.OvertimeHours
	}

	breakdown := make([]summary.ProjectBreakdown, 0, len(buckets))
	for _, b := range buckets {
		breakdown = append(breakdown, summary.ProjectBreakdown{
			ProjectID:     b.projectID,
			ProjectName:   b.name,
			DaysWorked:    len(b.dates),
			TotalHours:    b.hours,
			OvertimeHours: b.otHours,
		})
	}

	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].TotalHours != breakdown[j].TotalHours {
			return breakdown[i].TotalHours > breakdown[j].TotalHours
		}
		return breakdown[i].ProjectName < breakdown[j].ProjectName
	})

	return breakdown
}

// monthWindow returns the first and last day of the month, both inclusive, at
// midnight UTC.
func monthWindow(month, year int) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return from, to
}

// weekdaysInMonth counts Monday through Friday dates in the month. There is no
// holiday calendar; weekends are the only non-working days.
func weekdaysInMonth(month, year int) int {
	from, to := monthWindow(month, year)
	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			count++
		}
	}
	return count
}
