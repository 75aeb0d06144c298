package summary

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitecrew-hq/sitecrew-backend-go/internal/pkg/validator"
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// ========== REQUEST DTOs ==========

type GenerateRequest struct {
	EmployeeID    string           `json:"employee_id"`
	Month         int              `json:"month"`
	Year          int              `json:"year"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage,omitempty"`
}

func (r *GenerateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	errs = append(errs, validatePeriod(r.Month, r.Year)...)
	errs = append(errs, validateTaxPercentage(r.TaxPercentage)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type GenerateAllRequest struct {
	Month         int              `json:"month"`
	Year          int              `json:"year"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage,omitempty"`
}

func (r *GenerateAllRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validatePeriod(r.Month, r.Year)...)
	errs = append(errs, validateTaxPercentage(r.TaxPercentage)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SignRequest struct {
	Signature string `json:"signature"`
}

func (r *SignRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Signature) {
		errs = append(errs, validator.ValidationError{Field: "signature", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DecideRequest struct {
	Action    string  `json:"action"` // "approve" or "reject"
	Signature *string `json:"signature,omitempty"`
	Remarks   *string `json:"remarks,omitempty"`
}

func (r *DecideRequest) Validate() error {
	var errs validator.ValidationErrors

	switch r.Action {
	case DecisionApprove:
		if r.Signature == nil || validator.IsEmpty(*r.Signature) {
			errs = append(errs, validator.ValidationError{Field: "signature", Message: "is required to approve"})
		}
	case DecisionReject:
		if r.Remarks == nil || validator.IsEmpty(*r.Remarks) {
			errs = append(errs, validator.ValidationError{Field: "remarks", Message: "are required to reject"})
		}
	default:
		errs = append(errs, validator.ValidationError{Field: "action", Message: "must be 'approve' or 'reject'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BulkApproveRequest struct {
	SummaryIDs []string `json:"summary_ids"`
	Signature  string   `json:"signature"`
	Remarks    *string  `json:"remarks,omitempty"`
}

func (r *BulkApproveRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.SummaryIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "summary_ids", Message: "at least one summary is required"})
	}
	if validator.IsEmpty(r.Signature) {
		errs = append(errs, validator.ValidationError{Field: "signature", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListRequest struct {
	EmployeeID *string
	Month      *int
	Year       *int
	Status     *Status
}

func (r *ListRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month != nil && (*r.Month < 1 || *r.Month > 12) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if r.Status != nil {
		switch *r.Status {
		case StatusDraft, StatusSignedByStaff, StatusApproved, StatusRejected:
		default:
			errs = append(errs, validator.ValidationError{Field: "status", Message: "is not a known status"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePeriod(month, year int) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if month < 1 || month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if year < 2000 || year > 2100 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 2100"})
	}
	return errs
}

func validateTaxPercentage(tax *decimal.Decimal) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if tax != nil && (tax.IsNegative() || tax.GreaterThan(decimal.NewFromInt(100))) {
		errs = append(errs, validator.ValidationError{Field: "tax_percentage", Message: "must be between 0 and 100"})
	}
	return errs
}

// ========== RESPONSE DTOs ==========

// SummaryResponse is the outbound shape of a summary. Financial fields are
// pointers so the redactor can drop them for non-admin callers.
type SummaryResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Month        int    `json:"month"`
	Year         int    `json:"year"`

	TotalWorkingDays   int                `json:"total_working_days"`
	TotalWorkedHours   float64            `json:"total_worked_hours"`
	TotalOvertimeHours float64            `json:"total_ot_hours"`
	ApprovedLeaves     float64            `json:"approved_leaves"`
	AbsentDays         int                `json:"absent_days"`
	ProjectBreakdown   []ProjectBreakdown `json:"project_breakdown"`

	PaymentType   *string          `json:"payment_type,omitempty"`
	Subtotal      *decimal.Decimal `json:"subtotal,omitempty"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage,omitempty"`
	TaxAmount     *decimal.Decimal `json:"tax_amount,omitempty"`
	TotalAmount   *decimal.Decimal `json:"total_amount,omitempty"`
	InvoiceNumber *string          `json:"invoice_number,omitempty"`

	Status          string  `json:"status"`
	StaffSignature  *string `json:"staff_signature,omitempty"`
	StaffSignedAt   *string `json:"staff_signed_at,omitempty"`
	StaffSignedBy   *string `json:"staff_signed_by,omitempty"`
	AdminSignature  *string `json:"admin_signature,omitempty"`
	AdminApprovedAt *string `json:"admin_approved_at,omitempty"`
	AdminApprovedBy *string `json:"admin_approved_by,omitempty"`
	AdminRemarks    *string `json:"admin_remarks,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type GenerateFailure struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

type GenerateAllResponse struct {
	Success []SummaryResponse `json:"success"`
	Failed  []GenerateFailure `json:"failed"`
}

type BulkApproveResponse struct {
	ApprovedCount int               `json:"approved_count"`
	Summaries     []SummaryResponse `json:"summaries"`
}

// MapToResponse converts a summary entity to its outbound shape. Redaction is
// applied separately, per caller role.
func MapToResponse(s MonthlySummary) SummaryResponse {
	paymentType := string(s.PaymentType)
	subtotal := s.Subtotal.Round(2)
	taxPct := s.TaxPercentage
	taxAmount := s.TaxAmount.Round(2)
	totalAmount := s.TotalAmount.Round(2)

	resp := SummaryResponse{
		ID:                 s.ID,
		EmployeeID:         s.EmployeeID,
		Month:              s.Month,
		Year:               s.Year,
		TotalWorkingDays:   s.TotalWorkingDays,
		TotalWorkedHours:   s.TotalWorkedHours,
		TotalOvertimeHours: s.TotalOvertimeHours,
		ApprovedLeaves:     s.ApprovedLeaves,
		AbsentDays:         s.AbsentDays,
		ProjectBreakdown:   s.ProjectBreakdown,
		PaymentType:        &paymentType,
		Subtotal:           &subtotal,
		TaxPercentage:      &taxPct,
		TaxAmount:          &taxAmount,
		TotalAmount:        &totalAmount,
		InvoiceNumber:      s.InvoiceNumber,
		Status:             string(s.Status),
		StaffSignature:     s.StaffSignature,
		StaffSignedAt:      formatTimePtr(s.StaffSignedAt),
		StaffSignedBy:      s.StaffSignedBy,
		AdminSignature:     s.AdminSignature,
		AdminApprovedAt:    formatTimePtr(s.AdminApprovedAt),
		AdminApprovedBy:    s.AdminApprovedBy,
		AdminRemarks:       s.AdminRemarks,
		CreatedAt:          s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          s.UpdatedAt.Format(time.RFC3339),
	}
	if s.EmployeeName != nil {
		resp.EmployeeName = *s.EmployeeName
	}
	return resp
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	str := t.Format(time.RFC3339)
	return &str
}
