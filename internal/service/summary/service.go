package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitecrew-hq/sitecrew-backend-go/internal/config"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/attendance"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/employee"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/leave"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/summary"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/timesheet"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/user"
)

type SummaryServiceImpl struct {
	summaryRepo  summary.Repository
	employeeRepo employee.Repository
	aggregator   *aggregator
	issuer       *invoiceIssuer
	publisher    summary.Publisher
	cfg          config.SummaryConfig
}

func NewSummaryService(
	summaryRepo summary.Repository,
	employeeRepo employee.Repository,
	attendanceRepo attendance.Repository,
	timesheetRepo timesheet.Repository,
	leaveRepo leave.Repository,
	publisher summary.Publisher,
	cfg config.SummaryConfig,
) summary.Service {
	return &SummaryServiceImpl{
		summaryRepo:  summaryRepo,
		employeeRepo: employeeRepo,
		aggregator:   newAggregator(attendanceRepo, timesheetRepo, leaveRepo, cfg.CountableStatuses),
		issuer:       newInvoiceIssuer(summaryRepo),
		publisher:    publisher,
		cfg:          cfg,
	}
}

// Helper to get the caller's identity from JWT context
func getClaimsFromContext(ctx context.Context) (userID string, employeeID *string, role user.Role, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", nil, "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", nil, "", fmt.Errorf("user_id claim is missing or invalid")
	}

	if empID, ok := claims["employee_id"].(string); ok && empID != "" {
		employeeID = &empID
	}

	roleStr, _ := claims["role"].(string)
	return userID, employeeID, user.Role(roleStr), nil
}

// ========== GENERATION ==========

func (s *SummaryServiceImpl) Generate(ctx context.Context, req summary.GenerateRequest) (summary.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return summary.SummaryResponse{}, err
	}

	_, _, role, err := getClaimsFromContext(ctx)
	if err != nil {
		return summary.SummaryResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return summary.SummaryResponse{}, err
	}

	generated, err := s.generateForEmployee(ctx, emp, req.Month, req.Year, req.TaxPercentage)
	if err != nil {
		return summary.SummaryResponse{}, err
	}

	return redact(summary.MapToResponse(generated), role), nil
}

func (s *SummaryServiceImpl) GenerateAll(ctx context.Context, req summary.GenerateAllRequest) (summary.GenerateAllResponse, error) {
	if err := req.Validate(); err != nil {
		return summary.GenerateAllResponse{}, err
	}

	_, _, role, err := getClaimsFromContext(ctx)
	if err != nil {
		return summary.GenerateAllResponse{}, err
	}

	employees, err := s.employeeRepo.GetActive(ctx)
	if err != nil {
		return summary.GenerateAllResponse{}, err
	}

	// One employee's failure must not abort the batch.
	resp := summary.GenerateAllResponse{
		Success: []summary.SummaryResponse{},
		Failed:  []summary.GenerateFailure{},
	}
	for _, emp := range employees {
		generated, err := s.generateForEmployee(ctx, emp, req.Month, req.Year, req.TaxPercentage)
		if err != nil {
			slog.Warn("Failed to generate monthly summary",
				"employee_id", emp.ID, "month", req.Month, "year", req.Year, "error", err)
			resp.Failed = append(resp.Failed, summary.GenerateFailure{
				EmployeeID: emp.ID,
				Reason:     err.Error(),
			})
			continue
		}
		resp.Success = append(resp.Success, redact(summary.MapToResponse(generated), role))
	}

	return resp, nil
}

// generateForEmployee runs the full pipeline for one employee: aggregate,
// compute payroll, assign an invoice number if one is due, upsert. The period
// lock covers the read-max-seq and the upsert so concurrent generations for
// the same period cannot reserve the same sequence.
func (s *SummaryServiceImpl) generateForEmployee(ctx context.Context, emp employee.Employee, month, year int, taxOverride *decimal.Decimal) (summary.MonthlySummary, error) {
	agg, err := s.aggregator.Aggregate(ctx, emp, month, year)
	if err != nil {
		return summary.MonthlySummary{}, err
	}

	taxPercentage := s.cfg.DefaultTaxPercentage
	if taxOverride != nil {
		taxPercentage = *taxOverride
	}
	payroll := computePayroll(emp, agg, taxPercentage)

	unlock := s.issuer.Lock(month, year)
	defer unlock()

	record := summary.MonthlySummary{
		EmployeeID:         emp.ID,
		Month:              month,
		Year:               year,
		TotalWorkingDays:   agg.TotalWorkingDays,
		TotalWorkedHours:   agg.TotalWorkedHours,
		TotalOvertimeHours: agg.TotalOvertimeHours,
		ApprovedLeaves:     agg.ApprovedLeaves,
		AbsentDays:         agg.AbsentDays,
		ProjectBreakdown:   agg.ProjectBreakdown,
		PaymentType:        emp.PaymentType,
		Subtotal:           payroll.Subtotal,
		TaxPercentage:      taxPercentage,
		TaxAmount:          payroll.TaxAmount,
		TotalAmount:        payroll.TotalAmount,
		Status:             summary.StatusDraft,
		EmployeeName:       &emp.FullName,
	}

	existing, err := s.summaryRepo.GetByEmployeePeriod(ctx, emp.ID, month, year)
	switch {
	case err == nil:
		if existing.Status == summary.StatusApproved {
			return summary.MonthlySummary{}, summary.ErrSummaryApproved
		}
		// An invoice number is assigned once; regeneration keeps it instead of
		// consuming a fresh sequence.
		record.InvoiceNumber = existing.InvoiceNumber
		record.InvoiceSeq = existing.InvoiceSeq
	case errors.Is(err, summary.ErrSummaryNotFound):
	default:
		return summary.MonthlySummary{}, err
	}

	if record.InvoiceNumber == nil && payroll.Subtotal.IsPositive() {
		number, seq, err := s.issuer.Next(ctx, month, year)
		if err != nil {
			return summary.MonthlySummary{}, err
		}
		record.InvoiceNumber = &number
		record.InvoiceSeq = &seq
	}

	saved, err := s.summaryRepo.Upsert(ctx, record)
	if err != nil {
		return summary.MonthlySummary{}, err
	}
	saved.EmployeeName = &emp.FullName

	s.publishEvent(ctx, summary.EventGenerated, saved)

	return saved, nil
}

// ========== READS ==========

func (s *SummaryServiceImpl) List(ctx context.Context, req summary.ListRequest) ([]summary.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	_, _, role, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	summaries, err := s.summaryRepo.List(ctx, summary.Filter{
		EmployeeID: req.EmployeeID,
		Month:      req.Month,
		Year:       req.Year,
		Status:     req.Status,
	})
	if err != nil {
		return nil, err
	}

	resps := make([]summary.SummaryResponse, 0, len(summaries))
	for _, sm := range summaries {
		resps = append(resps, summary.MapToResponse(sm))
	}

	return redactAll(resps, role), nil
}

func (s *SummaryServiceImpl) Get(ctx context.Context, id string) (summary.SummaryResponse, error) {
	_, _, role, err := getClaimsFromContext(ctx)
	if err != nil {
		return summary.SummaryResponse{}, err
	}

	sm, err := s.summaryRepo.GetByID(ctx, id)
	if err != nil {
		return summary.SummaryResponse{}, err
	}

	return redact(summary.MapToResponse(sm), role), nil
}

// ========== WORKFLOW ==========

func (s *SummaryServiceImpl) SignByStaff(ctx context.Context, id string, req summary.SignRequest) (summary.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return summary.SummaryResponse{}, err
	}

	userID, employeeID, role, err := getClaimsFromContext(ctx)
	if err != nil {
		return summary.SummaryResponse{}, err
	}

	sm, err := s.summaryRepo.GetByID(ctx, id)
	if err != nil {
		return summary.SummaryResponse{}, err
	}
	if employeeID == nil || sm.EmployeeID != *employeeID {
		return summary.SummaryResponse{}, summary.ErrNotSummaryOwner
	}

	signed, err := s.summaryRepo.SignByStaff(ctx, id, summary.StaffSignature{
		Signature: req.Signature,
		SignedBy:  userID,
		SignedAt:  time.Now(),
	})
	if err != nil {
		return summary.SummaryResponse{}, err
	}

	s.publishEvent(ctx, summary.EventSigned, signed)

	return redact(summary.MapToResponse(signed), role), nil
}

func (s *SummaryServiceImpl) Decide(ctx context.Context, id string, req summary.DecideRequest) (summary.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return summary.SummaryResponse{}, err
	}

	userID, _, role, err := getClaimsFromContext(ctx)
	if err != nil {
		return summary.SummaryResponse{}, err
	}

	decided, err := s.summaryRepo.Decide(ctx, id, summary.AdminDecision{
		Approve:   req.Action == summary.DecisionApprove,
		Signature: req.Signature,
		Remarks:   req.Remarks,
		DecidedBy: userID,
		DecidedAt: time.Now(),
	})
	if err != nil {
		return summary.SummaryResponse{}, err
	}

	eventType := summary.EventApproved
	if req.Action == summary.DecisionReject {
		eventType = summary.EventRejected
	}
	s.publishEvent(ctx, eventType, decided)

	return redact(summary.MapToResponse(decided), role), nil
}

func (s *SummaryServiceImpl) BulkApprove(ctx context.Context, req summary.BulkApproveRequest) (summary.BulkApproveResponse, error) {
	if err := req.Validate(); err != nil {
		return summary.BulkApproveResponse{}, err
	}

	userID, _, role, err := getClaimsFromContext(ctx)
	if err != nil {
		return summary.BulkApproveResponse{}, err
	}

	approved, err := s.summaryRepo.BulkApprove(ctx, dedupeIDs(req.SummaryIDs), summary.AdminDecision{
		Approve:   true,
		Signature: &req.Signature,
		Remarks:   req.Remarks,
		DecidedBy: userID,
		DecidedAt: time.Now(),
	})
	if err != nil {
		return summary.BulkApproveResponse{}, err
	}

	resps := make([]summary.SummaryResponse, 0, len(approved))
	for _, sm := range approved {
		s.publishEvent(ctx, summary.EventBulkApproved, sm)
		resps = append(resps, summary.MapToResponse(sm))
	}

	return summary.BulkApproveResponse{
		ApprovedCount: len(approved),
		Summaries:     redactAll(resps, role),
	}, nil
}

// dedupeIDs drops repeated ids, keeping first-seen order. The locked bulk
// query returns one row per distinct id, so a repeated id would otherwise be
// miscounted as missing.
func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// publishEvent notifies downstream consumers. Delivery is fire-and-forget;
// the workflow result stands whether or not anyone is listening.
func (s *SummaryServiceImpl) publishEvent(ctx context.Context, eventType summary.EventType, sm summary.MonthlySummary) {
	if s.publisher == nil {
		return
	}

	actorID, _, _, err := getClaimsFromContext(ctx)
	if err != nil {
		actorID = ""
	}

	s.publisher.Publish(summary.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		SummaryID:  sm.ID,
		EmployeeID: sm.EmployeeID,
		Month:      sm.Month,
		Year:       sm.Year,
		ActorID:    actorID,
		OccurredAt: time.Now(),
	})
}
