package summary

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/employee"
)

type Status string

const (
	StatusDraft         Status = "DRAFT"
	StatusSignedByStaff Status = "SIGNED_BY_STAFF"
	StatusApproved      Status = "APPROVED"
	StatusRejected      Status = "REJECTED"
)

// ProjectBreakdown is one row of a summary's per-project aggregation,
// persisted as an ordered JSON array.
type ProjectBreakdown struct {
	ProjectID     *string `json:"project_id"`
	ProjectName   string  `json:"project_name"`
	DaysWorked    int     `json:"days_worked"`
	TotalHours    float64 `json:"total_hours"`
	OvertimeHours float64 `json:"ot_hours"`
}

// MonthlySummary is the aggregate this subsystem owns: one record per
// (employee, month, year), carrying derived totals, the payroll snapshot and
// the approval workflow state.
type MonthlySummary struct {
	ID         string
	EmployeeID string
	Month      int
	Year       int

	TotalWorkingDays   int
	TotalWorkedHours   float64
	TotalOvertimeHours float64
	ApprovedLeaves     float64
	AbsentDays         int
	ProjectBreakdown   []ProjectBreakdown

	PaymentType   employee.PaymentType
	Subtotal      decimal.Decimal
	TaxPercentage decimal.Decimal
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	InvoiceNumber *string
	InvoiceSeq    *int

	Status          Status
	StaffSignature  *string
	StaffSignedAt   *time.Time
	StaffSignedBy   *string
	AdminSignature  *string
	AdminApprovedAt *time.Time
	AdminApprovedBy *string
	AdminRemarks    *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
}

// Signable reports whether the summary is in a state the owning employee may
// sign from.
func (s MonthlySummary) Signable() bool {
	return s.Status == StatusDraft || s.Status == StatusRejected
}
