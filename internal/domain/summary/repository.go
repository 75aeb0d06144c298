package summary

import (
	"context"
	"time"
)

type Filter struct {
	EmployeeID *string
	Month      *int
	Year       *int
	Status     *Status
}

// StaffSignature captures a staff sign-off.
type StaffSignature struct {
	Signature string
	SignedBy  string
	SignedAt  time.Time
}

// AdminDecision captures an admin approve or reject.
type AdminDecision struct {
	Approve   bool
	Signature *string
	Remarks   *string
	DecidedBy string
	DecidedAt time.Time
}

// Repository is the single storage interface for monthly summaries. All
// state-changing methods are conditional writes: they read the current status
// as part of the same statement that performs the write, so two concurrent
// callers cannot both succeed on the same record.
type Repository interface {
	GetByID(ctx context.Context, id string) (MonthlySummary, error)
	GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (MonthlySummary, error)
	List(ctx context.Context, filter Filter) ([]MonthlySummary, error)

	// Upsert inserts or overwrites the record keyed by (employee_id, month,
	// year). It returns ErrSummaryApproved if the existing record is APPROVED;
	// otherwise derived and payroll fields are replaced and status resets to
	// DRAFT, discarding prior signature state.
	Upsert(ctx context.Context, s MonthlySummary) (MonthlySummary, error)

	// MaxInvoiceSeq returns the highest invoice sequence issued for the
	// period, 0 when none.
	MaxInvoiceSeq(ctx context.Context, month, year int) (int, error)

	// SignByStaff transitions DRAFT|REJECTED → SIGNED_BY_STAFF. Returns
	// ErrAlreadySigned when the record is SIGNED_BY_STAFF or APPROVED.
	SignByStaff(ctx context.Context, id string, sig StaffSignature) (MonthlySummary, error)

	// Decide transitions SIGNED_BY_STAFF → APPROVED|REJECTED. Returns
	// ErrInvalidTransition from any other status.
	Decide(ctx context.Context, id string, d AdminDecision) (MonthlySummary, error)

	// BulkApprove validates that every id exists and is SIGNED_BY_STAFF, then
	// approves all of them in one conditional update. A *BulkStateError is
	// returned (and nothing is changed) when any member fails validation.
	BulkApprove(ctx context.Context, ids []string, d AdminDecision) ([]MonthlySummary, error)
}
