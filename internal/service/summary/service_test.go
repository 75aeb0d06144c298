package summary

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitecrew-hq/sitecrew-backend-go/internal/config"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/employee"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/summary"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/timesheet"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/user"
)

// ========== FAKES ==========

// fakeSummaryRepo mirrors the conditional-write semantics of the PostgreSQL
// repository against an in-memory map.
type fakeSummaryRepo struct {
	mu     sync.Mutex
	byID   map[string]summary.MonthlySummary
	nextID int
}

func newFakeSummaryRepo() *fakeSummaryRepo {
	return &fakeSummaryRepo{byID: map[string]summary.MonthlySummary{}}
}

func (f *fakeSummaryRepo) GetByID(_ context.Context, id string) (summary.MonthlySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return summary.MonthlySummary{}, summary.ErrSummaryNotFound
	}
	return s, nil
}

func (f *fakeSummaryRepo) GetByEmployeePeriod(_ context.Context, employeeID string, month, year int) (summary.MonthlySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.byID {
		if s.EmployeeID == employeeID && s.Month == month && s.Year == year {
			return s, nil
		}
	}
	return summary.MonthlySummary{}, summary.ErrSummaryNotFound
}

func (f *fakeSummaryRepo) List(_ context.Context, filter summary.Filter) ([]summary.MonthlySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []summary.MonthlySummary
	for _, s := range f.byID {
		if filter.EmployeeID != nil && s.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Month != nil && s.Month != *filter.Month {
			continue
		}
		if filter.Year != nil && s.Year != *filter.Year {
			continue
		}
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSummaryRepo) Upsert(_ context.Context, s summary.MonthlySummary) (summary.MonthlySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, existing := range f.byID {
		if existing.EmployeeID != s.EmployeeID || existing.Month != s.Month || existing.Year != s.Year {
			continue
		}
		if existing.Status == summary.StatusApproved {
			return summary.MonthlySummary{}, summary.ErrSummaryApproved
		}
		s.ID = id
		s.Status = summary.StatusDraft
		s.CreatedAt = existing.CreatedAt
		s.UpdatedAt = time.Now()
		f.byID[id] = s
		return s, nil
	}

	f.nextID++
	s.ID = fmt.Sprintf("sum-%d", f.nextID)
	s.Status = summary.StatusDraft
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	f.byID[s.ID] = s
	return s, nil
}

func (f *fakeSummaryRepo) MaxInvoiceSeq(_ context.Context, month, year int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	max := 0
	for _, s := range f.byID {
		if s.Month == month && s.Year == year && s.InvoiceSeq != nil && *s.InvoiceSeq > max {
			max = *s.InvoiceSeq
		}
	}
	return max, nil
}

func (f *fakeSummaryRepo) SignByStaff(_ context.Context, id string, sig summary.StaffSignature) (summary.MonthlySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return summary.MonthlySummary{}, summary.ErrSummaryNotFound
	}
	if !s.Signable() {
		return summary.MonthlySummary{}, summary.ErrAlreadySigned
	}
	s.Status = summary.StatusSignedByStaff
	s.StaffSignature = &sig.Signature
	s.StaffSignedAt = &sig.SignedAt
	s.StaffSignedBy = &sig.SignedBy
	f.byID[id] = s
	return s, nil
}

func (f *fakeSummaryRepo) Decide(_ context.Context, id string, d summary.AdminDecision) (summary.MonthlySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return summary.MonthlySummary{}, summary.ErrSummaryNotFound
	}
	if s.Status != summary.StatusSignedByStaff {
		return summary.MonthlySummary{}, summary.ErrInvalidTransition
	}
	if d.Approve {
		s.Status = summary.StatusApproved
		s.AdminSignature = d.Signature
		s.AdminApprovedAt = &d.DecidedAt
		s.AdminApprovedBy = &d.DecidedBy
	} else {
		s.Status = summary.StatusRejected
		s.AdminSignature = nil
		s.AdminApprovedAt = nil
		s.AdminApprovedBy = nil
	}
	s.AdminRemarks = d.Remarks
	f.byID[id] = s
	return s, nil
}

func (f *fakeSummaryRepo) BulkApprove(_ context.Context, ids []string, d summary.AdminDecision) ([]summary.MonthlySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	missing, notPending := 0, 0
	for _, id := range ids {
		s, ok := f.byID[id]
		if !ok {
			missing++
			continue
		}
		if s.Status != summary.StatusSignedByStaff {
			notPending++
		}
	}
	if missing > 0 || notPending > 0 {
		return nil, &summary.BulkStateError{Missing: missing, NotPending: notPending}
	}

	var out []summary.MonthlySummary
	for _, id := range ids {
		s := f.byID[id]
		s.Status = summary.StatusApproved
		s.AdminSignature = d.Signature
		s.AdminApprovedAt = &d.DecidedAt
		s.AdminApprovedBy = &d.DecidedBy
		s.AdminRemarks = d.Remarks
		f.byID[id] = s
		out = append(out, s)
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) GetActive(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []summary.Event
}

func (f *fakePublisher) Publish(event summary.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakePublisher) Types() []summary.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]summary.EventType, 0, len(f.events))
	for _, e := range f.events {
		types = append(types, e.Type)
	}
	return types
}

// ========== TEST WIRING ==========

var testTokenAuth = jwtauth.New("HS256", []byte("test-secret"), nil)

func ctxWithClaims(t *testing.T, userID string, employeeID string, role user.Role) context.Context {
	claims := map[string]interface{}{
		"user_id": userID,
		"role":    string(role),
		"type":    "access",
	}
	if employeeID != "" {
		claims["employee_id"] = employeeID
	}
	token, _, err := testTokenAuth.Encode(claims)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func adminCtx(t *testing.T) context.Context {
	return ctxWithClaims(t, "admin-user", "", user.RoleAdmin)
}

type testEnv struct {
	svc        summary.Service
	repo       *fakeSummaryRepo
	publisher  *fakePublisher
	employees  *fakeEmployeeRepo
	timesheets *fakeTimesheetRepo
	attendance *fakeAttendanceRepo
}

func newTestEnv(employees ...employee.Employee) *testEnv {
	empRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{}}
	for _, e := range employees {
		empRepo.employees[e.ID] = e
	}

	env := &testEnv{
		repo:      newFakeSummaryRepo(),
		publisher: &fakePublisher{},
		employees: empRepo,
		timesheets: &fakeTimesheetRepo{entries: []timesheet.Entry{
			{WorkDate: date(2024, time.March, 1), TotalHours: 8},
			{WorkDate: date(2024, time.March, 4), TotalHours: 8},
		}},
		attendance: &fakeAttendanceRepo{dates: []time.Time{
			date(2024, time.March, 1), date(2024, time.March, 4),
		}},
	}

	env.svc = NewSummaryService(
		env.repo,
		env.employees,
		env.attendance,
		env.timesheets,
		&fakeLeaveRepo{},
		env.publisher,
		config.SummaryConfig{
			DefaultTaxPercentage: decimal.RequireFromString("10"),
			CountableStatuses:    []timesheet.Status{timesheet.StatusApproved},
		},
	)
	return env
}

func hourlyEmployee(id string) employee.Employee {
	userID := "user-" + id
	rate := decimal.RequireFromString("20")
	return employee.Employee{
		ID:          id,
		UserID:      &userID,
		FullName:    "Worker " + id,
		PaymentType: employee.PaymentTypeHourly,
		HourlyRate:  &rate,
		IsActive:    true,
	}
}

// ========== GENERATION ==========

func TestSummaryService_Generate_CreatesDraft(t *testing.T) {
	env := newTestEnv(hourlyEmployee("emp-1"))

	resp, err := env.svc.Generate(adminCtx(t), summary.GenerateRequest{
		EmployeeID: "emp-1", Month: 3, Year: 2024,
	})
	require.NoError(t, err)

	assert.Equal(t, string(summary.StatusDraft), resp.Status)
	assert.Equal(t, 2, resp.TotalWorkingDays)
	require.NotNil(t, resp.Subtotal)
	// 16h × 20 = 320, tax 10% ⇒ total 352
	assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("320")))
	assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("352")))
	require.NotNil(t, resp.InvoiceNumber)
	assert.Equal(t, "INV-2024-03-0001", *resp.InvoiceNumber)

	assert.Equal(t, []summary.EventType{summary.EventGenerated}, env.publisher.Types())
}

func TestSummaryService_Generate_RegenerationKeepsInvoiceNumber(t *testing.T) {
	env := newTestEnv(hourlyEmployee("emp-1"))
	req := summary.GenerateRequest{EmployeeID: "emp-1", Month: 3, Year: 2024}

	first, err := env.svc.Generate(adminCtx(t), req)
	require.NoError(t, err)
	second, err := env.svc.Generate(adminCtx(t), req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, *first.InvoiceNumber, *second.InvoiceNumber)
	assert.Len(t, env.repo.byID, 1)
}

func TestSummaryService_Generate_ApprovedRecordRefused(t *testing.T) {
	env := newTestEnv(hourlyEmployee("emp-1"))
	req := summary.GenerateRequest{EmployeeID: "emp-1", Month: 3, Year: 2024}

	resp, err := env.svc.Generate(adminCtx(t), req)
	require.NoError(t, err)

	signCtx := ctxWithClaims(t, "user-emp-1", "emp-1", user.RoleStaff)
	_, err = env.svc.SignByStaff(signCtx, resp.ID, summary.SignRequest{Signature: "sig"})
	require.NoError(t, err)
	sig := "admin-sig"
	_, err = env.svc.Decide(adminCtx(t), resp.ID, summary.DecideRequest{Action: summary.DecisionApprove, Signature: &sig})
	require.NoError(t, err)

	_, err = env.svc.Generate(adminCtx(t), req)
	assert.ErrorIs(t, err, summary.ErrSummaryApproved)
}

func TestSummaryService_Generate_NoRateMeansNoInvoice(t *testing.T) {
	userID := "user-emp-2"
	env := newTestEnv(employee.Employee{
		ID: "emp-2", UserID: &userID, FullName: "No Rate",
		PaymentType: employee.PaymentTypeNone, IsActive: true,
	})

	resp, err := env.svc.Generate(adminCtx(t), summary.GenerateRequest{
		EmployeeID: "emp-2", Month: 3, Year: 2024,
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Subtotal)
	assert.True(t, resp.Subtotal.IsZero())
	assert.Nil(t, resp.InvoiceNumber)
}

func TestSummaryService_Generate_UnknownEmployee(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Generate(adminCtx(t), summary.GenerateRequest{
		EmployeeID: "ghost", Month: 3, Year: 2024,
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestSummaryService_Generate_ValidatesPeriod(t *testing.T) {
	env := newTestEnv(hourlyEmployee("emp-1"))

	_, err := env.svc.Generate(adminCtx(t), summary.GenerateRequest{
		EmployeeID: "emp-1", Month: 13, Year: 2024,
	})
	assert.Error(t, err)
	assert.Empty(t, env.repo.byID)
}

func TestSummaryService_GenerateAll_PerEmployeeIsolation(t *testing.T) {
	broken := employee.Employee{
		ID: "emp-broken", FullName: "No Login",
		PaymentType: employee.PaymentTypeHourly, IsActive: true,
	}
	env := newTestEnv(hourlyEmployee("emp-1"), broken)

	resp, err := env.svc.GenerateAll(adminCtx(t), summary.GenerateAllRequest{Month: 3, Year: 2024})
	require.NoError(t, err)

	require.Len(t, resp.Success, 1)
	require.Len(t, resp.Failed, 1)
	assert.Equal(t, "emp-broken", resp.Failed[0].EmployeeID)
	assert.NotEmpty(t, resp.Failed[0].Reason)
}

// ========== WORKFLOW ==========

func generateSigned(t *testing.T, env *testEnv, empID string) string {
	resp, err := env.svc.Generate(adminCtx(t), summary.GenerateRequest{
		EmployeeID: empID, Month: 3, Year: 2024,
	})
	require.NoError(t, err)

	ctx := ctxWithClaims(t, "user-"+empID, empID, user.RoleStaff)
	_, err = env.svc.SignByStaff(ctx, resp.ID, summary.SignRequest{Signature: "sig-" + empID})
	require.NoError(t, err)
	return resp.ID
}

func TestSummaryService_SignByStaff_FromDraft(t *testing.T) {
	env := newTestEnv(hourlyEmployee("emp-1"))
	resp, err := env.svc.Generate(adminCtx(t), summary.GenerateRequest{
		EmployeeID: "emp-1", Month: 3, Year: 2024,
	})
	require.NoError(t, err)

	ctx := ctxWithClaims(t, "user-emp-1", "emp-1", user.RoleStaff)
	signed, err := env.svc.SignByStaff(ctx, resp.ID, summary.SignRequest{Signature: "john-sig"})
	require.NoError(t, err)

	assert.Equal(t, string(summary.StatusSignedByStaff), signed.Status)
	require.NotNil(t, signed.StaffSignature)
	assert.Equal(t, "john-sig", *signed.StaffSignature)
	// A staff caller never sees financial fields.
	assert.Nil(t, signed.Subtotal)
	assert.Nil(t, signed.InvoiceNumber)
}

func TestSummaryService_SignByStaff_NotOwner(t *testing.T) {
	env := newTestEnv(hourlyEmployee("emp-1"))
	resp, err := env.svc.Generate(adminCtx(t), summary.GenerateRequest{
		EmployeeID: "emp-1", Month: 3, Year: 2024,
	})
	require.NoError(t, err)

	ctx := ctxWithClaims(t, "user-other", "emp-other", user.RoleStaff)
	_, err = env.svc.SignByStaff(ctx, resp.ID, summary.SignRequest{Signature: "sig"})
	assert.ErrorIs(t, err, summary.ErrNotSummaryOwner)
}

func TestSummaryService_SignByStaff_AlreadySigned(t *testing.T) {
	env := newTestEnv(hourlyEmployee("emp-1"))
	id := generateSigned(t, env, "emp-1")

	ctx := ctxWithClaims(t, "user-emp-1", "emp-1", user.RoleStaff)
	_, err := env.svc.SignByStaff(ctx, id, summary.SignRequest{Signature: "again"})
	assert.ErrorIs(t, err, summary.ErrAlreadySigned)
}

func TestSummaryService_Decide_Approve(t *testing.T) {
	env := newTestEnv(hourlyEmployee("emp-1"))
	id := generateSigned(t, env, "emp-1")

	sig := "admin-sig"
	resp, err := env.svc.Decide(adminCtx(t), id, summary.DecideRequest{
		Action: summary.DecisionApprove, Signature: &sig,
	})
	require.NoError(t, err)

	assert.Equal(t, string(summary.StatusApproved), resp.Status)
	require.NotNil(t, resp.AdminSignature)
	assert.Equal(t, "admin-sig", *resp.AdminSignature)
	assert.Contains(t, env.publisher.Types(), summary.EventApproved)
}

func TestSummaryService_Decide_RejectThenResign(t *testing.T) {
	env := newTestEnv(hourlyEmployee("emp-1"))
	id := generateSigned(t, env, "emp-1")

	remarks := "hours do not match the site log"
	resp, err := env.svc.Decide(adminCtx(t), id, summary.DecideRequest{
		Action: summary.DecisionReject, Remarks: &remarks,
	})
	require.NoError(t, err)
	assert.Equal(t, string(summary.StatusRejected), resp.Status)
	assert.Nil(t, resp.AdminSignature)
	require.NotNil(t, resp.AdminRemarks)
	assert.Equal(t, remarks, *resp.AdminRemarks)

	// A rejected summary re-enters the signable set.
	ctx := ctxWithClaims(t, "user-emp-1", "emp-1", user.RoleStaff)
	signed, err := env.svc.SignByStaff(ctx, id, summary.SignRequest{Signature: "second-try"})
	require.NoError(t, err)
	assert.Equal(t, string(summary.StatusSignedByStaff), signed.Status)
}

func TestSummaryService_Decide_InvalidFromDraft(t *testing.T) {
	env := newTestEnv(hourlyEmployee("emp-1"))
	resp, err := env.svc.Generate(adminCtx(t), summary.GenerateRequest{
		EmployeeID: "emp-1", Month: 3, Year: 2024,
	})
	require.NoError(t, err)

	sig := "admin-sig"
	_, err = env.svc.Decide(adminCtx(t), resp.ID, summary.DecideRequest{
		Action: summary.DecisionApprove, Signature: &sig,
	})
	assert.ErrorIs(t, err, summary.ErrInvalidTransition)
}

func TestSummaryService_Decide_ValidatesActionRequirements(t *testing.T) {
	env := newTestEnv(hourlyEmployee("emp-1"))
	id := generateSigned(t, env, "emp-1")

	// Approve without a signature and reject without remarks are both invalid.
	_, err := env.svc.Decide(adminCtx(t), id, summary.DecideRequest{Action: summary.DecisionApprove})
	assert.Error(t, err)
	_, err = env.svc.Decide(adminCtx(t), id, summary.DecideRequest{Action: summary.DecisionReject})
	assert.Error(t, err)
}

// ========== BULK APPROVAL ==========

func TestSummaryService_BulkApprove_AllSigned(t *testing.T) {
	env := newTestEnv(hourlyEmployee("emp-1"), hourlyEmployee("emp-2"), hourlyEmployee("emp-3"))
	ids := []string{
		generateSigned(t, env, "emp-1"),
		generateSigned(t, env, "emp-2"),
		generateSigned(t, env, "emp-3"),
	}

	resp, err := env.svc.BulkApprove(adminCtx(t), summary.BulkApproveRequest{
		SummaryIDs: ids, Signature: "bulk-sig",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.ApprovedCount)
	require.Len(t, resp.Summaries, 3)
	for _, s := range resp.Summaries {
		assert.Equal(t, string(summary.StatusApproved), s.Status)
	}
}

func TestSummaryService_BulkApprove_OneDraftRejectsWholeBatch(t *testing.T) {
	env := newTestEnv(hourlyEmployee("emp-1"), hourlyEmployee("emp-2"))
	signedID := generateSigned(t, env, "emp-1")

	draft, err := env.svc.Generate(adminCtx(t), summary.GenerateRequest{
		EmployeeID: "emp-2", Month: 3, Year: 2024,
	})
	require.NoError(t, err)

	_, err = env.svc.BulkApprove(adminCtx(t), summary.BulkApproveRequest{
		SummaryIDs: []string{signedID, draft.ID}, Signature: "bulk-sig",
	})

	var bulkErr *summary.BulkStateError
	require.True(t, errors.As(err, &bulkErr))
	assert.Equal(t, 0, bulkErr.Missing)
	assert.Equal(t, 1, bulkErr.NotPending)
	assert.ErrorIs(t, err, summary.ErrInvalidTransition)

	// Nothing transitioned.
	stored, err := env.repo.GetByID(context.Background(), signedID)
	require.NoError(t, err)
	assert.Equal(t, summary.StatusSignedByStaff, stored.Status)
}

func TestSummaryService_BulkApprove_DuplicateIDsCollapse(t *testing.T) {
	env := newTestEnv(hourlyEmployee("emp-1"))
	signedID := generateSigned(t, env, "emp-1")

	// A repeated id must not be miscounted as a missing record.
	resp, err := env.svc.BulkApprove(adminCtx(t), summary.BulkApproveRequest{
		SummaryIDs: []string{signedID, signedID}, Signature: "bulk-sig",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.ApprovedCount)
	require.Len(t, resp.Summaries, 1)
	assert.Equal(t, string(summary.StatusApproved), resp.Summaries[0].Status)
}

func TestSummaryService_BulkApprove_MissingIDRejectsWholeBatch(t *testing.T) {
	env := newTestEnv(hourlyEmployee("emp-1"))
	signedID := generateSigned(t, env, "emp-1")

	_, err := env.svc.BulkApprove(adminCtx(t), summary.BulkApproveRequest{
		SummaryIDs: []string{signedID, "ghost"}, Signature: "bulk-sig",
	})

	var bulkErr *summary.BulkStateError
	require.True(t, errors.As(err, &bulkErr))
	assert.Equal(t, 1, bulkErr.Missing)
}

// ========== READS ==========

func TestSummaryService_List_FiltersAndRedacts(t *testing.T) {
	env := newTestEnv(hourlyEmployee("emp-1"), hourlyEmployee("emp-2"))
	_, err := env.svc.Generate(adminCtx(t), summary.GenerateRequest{EmployeeID: "emp-1", Month: 3, Year: 2024})
	require.NoError(t, err)
	_, err = env.svc.Generate(adminCtx(t), summary.GenerateRequest{EmployeeID: "emp-2", Month: 3, Year: 2024})
	require.NoError(t, err)

	empID := "emp-1"
	staffCtx := ctxWithClaims(t, "user-emp-1", "emp-1", user.RoleStaff)
	resps, err := env.svc.List(staffCtx, summary.ListRequest{EmployeeID: &empID})
	require.NoError(t, err)

	require.Len(t, resps, 1)
	assert.Equal(t, "emp-1", resps[0].EmployeeID)
	assert.Nil(t, resps[0].Subtotal)

	adminResps, err := env.svc.List(adminCtx(t), summary.ListRequest{})
	require.NoError(t, err)
	require.Len(t, adminResps, 2)
	for _, r := range adminResps {
		assert.NotNil(t, r.Subtotal)
	}
}

func TestSummaryService_Get_NotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Get(adminCtx(t), "ghost")
	assert.ErrorIs(t, err, summary.ErrSummaryNotFound)
}

// ========== CONCURRENCY ==========

func TestSummaryService_ConcurrentGeneration_UniqueInvoiceNumbers(t *testing.T) {
	const workers = 12

	employees := make([]employee.Employee, 0, workers)
	for i := 0; i < workers; i++ {
		employees = append(employees, hourlyEmployee(fmt.Sprintf("emp-%d", i)))
	}
	env := newTestEnv(employees...)

	ctx := adminCtx(t)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(empID string) {
			defer wg.Done()
			_, err := env.svc.Generate(ctx, summary.GenerateRequest{
				EmployeeID: empID, Month: 3, Year: 2024,
			})
			assert.NoError(t, err)
		}(fmt.Sprintf("emp-%d", i))
	}
	wg.Wait()

	seen := map[int]bool{}
	for _, s := range env.repo.byID {
		require.NotNil(t, s.InvoiceSeq)
		assert.False(t, seen[*s.InvoiceSeq], "sequence %d issued twice", *s.InvoiceSeq)
		seen[*s.InvoiceSeq] = true
	}
	assert.Len(t, seen, workers)
}
