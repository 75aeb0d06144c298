package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/summary"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/pkg/database"
)

type summaryRepository struct {
	db *database.DB
}

// NewSummaryRepository returns the PostgreSQL-backed summary repository.
// Schema notes: monthly_summaries has a unique key on (employee_id, month,
// year) and a partial unique index on (year, month, invoice_seq), so a racing
// writer that slips past the issuer's critical section fails loudly instead
// of duplicating an invoice number.
func NewSummaryRepository(db *database.DB) summary.Repository {
	return &summaryRepository{db: db}
}

const summaryColumns = `
	ms.id, ms.employee_id, ms.month, ms.year,
	ms.total_working_days, ms.total_worked_hours, ms.total_ot_hours,
	ms.approved_leaves, ms.absent_days, ms.project_breakdown,
	ms.payment_type, ms.subtotal, ms.tax_percentage, ms.tax_amount, ms.total_amount,
	ms.invoice_number, ms.invoice_seq,
	ms.status, ms.staff_signature, ms.staff_signed_at, ms.staff_signed_by,
	ms.admin_signature, ms.admin_approved_at, ms.admin_approved_by, ms.admin_remarks,
	ms.created_at, ms.updated_at
`

func scanSummary(row pgx.Row, withEmployeeName bool) (summary.MonthlySummary, error) {
	var s summary.MonthlySummary
	var breakdownBytes []byte

	dest := []interface{}{
		&s.ID, &s.EmployeeID, &s.Month, &s.Year,
		&s.TotalWorkingDays, &s.TotalWorkedHours, &s.TotalOvertimeHours,
		&s.ApprovedLeaves, &s.AbsentDays, &breakdownBytes,
		&s.PaymentType, &s.Subtotal, &s.TaxPercentage, &s.TaxAmount, &s.TotalAmount,
		&s.InvoiceNumber, &s.InvoiceSeq,
		&s.Status, &s.StaffSignature, &s.StaffSignedAt, &s.StaffSignedBy,
		&s.AdminSignature, &s.AdminApprovedAt, &s.AdminApprovedBy, &s.AdminRemarks,
		&s.CreatedAt, &s.UpdatedAt,
	}
	if withEmployeeName {
		dest = append(dest, &s.EmployeeName)
	}

	if err := row.Scan(dest...); err != nil {
		return summary.MonthlySummary{}, err
	}
	if len(breakdownBytes) > 0 {
		if err := json.Unmarshal(breakdownBytes, &s.ProjectBreakdown); err != nil {
			return summary.MonthlySummary{}, fmt.Errorf("failed to decode project breakdown: %w", err)
		}
	}
	return s, nil
}

func (r *summaryRepository) GetByID(ctx context.Context, id string) (summary.MonthlySummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + summaryColumns + `, e.full_name AS employee_name
		FROM monthly_summaries ms
		JOIN employees e ON ms.employee_id = e.id
		WHERE ms.id = $1
	`

	s, err := scanSummary(q.QueryRow(ctx, query, id), true)
	if err != nil {
		if err == pgx.ErrNoRows {
			return summary.MonthlySummary{}, summary.ErrSummaryNotFound
		}
		return summary.MonthlySummary{}, fmt.Errorf("failed to get monthly summary: %w", err)
	}

	return s, nil
}

func (r *summaryRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (summary.MonthlySummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + summaryColumns + `, e.full_name AS employee_name
		FROM monthly_summaries ms
		JOIN employees e ON ms.employee_id = e.id
		WHERE ms.employee_id = $1 AND ms.month = $2 AND ms.year = $3
	`

	s, err := scanSummary(q.QueryRow(ctx, query, employeeID, month, year), true)
	if err != nil {
		if err == pgx.ErrNoRows {
			return summary.MonthlySummary{}, summary.ErrSummaryNotFound
		}
		return summary.MonthlySummary{}, fmt.Errorf("failed to get monthly summary: %w", err)
	}

	return s, nil
}

func (r *summaryRepository) List(ctx context.Context, filter summary.Filter) ([]summary.MonthlySummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + summaryColumns + `, e.full_name AS employee_name
		FROM monthly_summaries ms
		JOIN employees e ON ms.employee_id = e.id
		WHERE 1=1
	`
	var args []interface{}
	argIdx := 1

	if filter.EmployeeID != nil {
		query += fmt.Sprintf(" AND ms.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Month != nil {
		query += fmt.Sprintf(" AND ms.month = $%d", argIdx)
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		query += fmt.Sprintf(" AND ms.year = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND ms.status = $%d", argIdx)
		args = append(args, string(*filter.Status))
		argIdx++
	}

	query += " ORDER BY ms.year DESC, ms.month DESC, e.full_name"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly summaries: %w", err)
	}
	defer rows.Close()

	var summaries []summary.MonthlySummary
	for rows.Next() {
		s, err := scanSummary(rows, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan monthly summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, nil
}

func (r *summaryRepository) Upsert(ctx context.Context, s summary.MonthlySummary) (summary.MonthlySummary, error) {
	q := GetQuerier(ctx, r.db)

	breakdownJSON, err := json.Marshal(s.ProjectBreakdown)
	if err != nil {
		return summary.MonthlySummary{}, fmt.Errorf("failed to encode project breakdown: %w", err)
	}

	// The DO UPDATE predicate excludes APPROVED rows: the update silently
	// matches nothing and the missing RETURNING row is surfaced as a
	// conflict below. Regeneration resets the workflow to DRAFT and discards
	// prior signature state.
	query := `
		INSERT INTO monthly_summaries (
			employee_id, month, year,
			total_working_days, total_worked_hours, total_ot_hours,
			approved_leaves, absent_days, project_breakdown,
			payment_type, subtotal, tax_percentage, tax_amount, total_amount,
			invoice_number, invoice_seq, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, 'DRAFT')
		ON CONFLICT (employee_id, month, year) DO UPDATE SET
			total_working_days = EXCLUDED.total_working_days,
			total_worked_hours = EXCLUDED.total_worked_hours,
			total_ot_hours = EXCLUDED.total_ot_hours,
			approved_leaves = EXCLUDED.approved_leaves,
			absent_days = EXCLUDED.absent_days,
			project_breakdown = EXCLUDED.project_breakdown,
			payment_type = EXCLUDED.payment_type,
			subtotal = EXCLUDED.subtotal,
			tax_percentage = EXCLUDED.tax_percentage,
			tax_amount = EXCLUDED.tax_amount,
			total_amount = EXCLUDED.total_amount,
			invoice_number = EXCLUDED.invoice_number,
			invoice_seq = EXCLUDED.invoice_seq,
			status = 'DRAFT',
			staff_signature = NULL, staff_signed_at = NULL, staff_signed_by = NULL,
			admin_signature = NULL, admin_approved_at = NULL, admin_approved_by = NULL,
			admin_remarks = NULL,
			updated_at = NOW()
		WHERE monthly_summaries.status <> 'APPROVED'
		RETURNING ` + bareSummaryColumns()

	row := q.QueryRow(ctx, query,
		s.EmployeeID, s.Month, s.Year,
		s.TotalWorkingDays, s.TotalWorkedHours, s.TotalOvertimeHours,
		s.ApprovedLeaves, s.AbsentDays, breakdownJSON,
		s.PaymentType, s.Subtotal, s.TaxPercentage, s.TaxAmount, s.TotalAmount,
		s.InvoiceNumber, s.InvoiceSeq,
	)

	saved, err := scanSummary(row, false)
	if err != nil {
		if err == pgx.ErrNoRows {
			return summary.MonthlySummary{}, summary.ErrSummaryApproved
		}
		return summary.MonthlySummary{}, fmt.Errorf("failed to upsert monthly summary: %w", err)
	}

	saved.EmployeeName = s.EmployeeName
	return saved, nil
}

func (r *summaryRepository) MaxInvoiceSeq(ctx context.Context, month, year int) (int, error) {
	q := GetQuerier(ctx, r.db)

	var maxSeq int
	err := q.QueryRow(ctx, `
		SELECT COALESCE(MAX(invoice_seq), 0)
		FROM monthly_summaries
		WHERE month = $1 AND year = $2
	`, month, year).Scan(&maxSeq)
	if err != nil {
		return 0, fmt.Errorf("failed to read max invoice sequence: %w", err)
	}

	return maxSeq, nil
}

func (r *summaryRepository) SignByStaff(ctx context.Context, id string, sig summary.StaffSignature) (summary.MonthlySummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE monthly_summaries ms
		SET status = 'SIGNED_BY_STAFF',
			staff_signature = $2, staff_signed_at = $3, staff_signed_by = $4,
			updated_at = NOW()
		WHERE ms.id = $1 AND ms.status IN ('DRAFT', 'REJECTED')
		RETURNING ` + bareSummaryColumns()

	s, err := scanSummary(q.QueryRow(ctx, query, id, sig.Signature, sig.SignedAt, sig.SignedBy), false)
	if err != nil {
		if err == pgx.ErrNoRows {
			return summary.MonthlySummary{}, r.classifyMissedUpdate(ctx, id, summary.ErrAlreadySigned)
		}
		return summary.MonthlySummary{}, fmt.Errorf("failed to sign monthly summary: %w", err)
	}

	return s, nil
}

func (r *summaryRepository) Decide(ctx context.Context, id string, d summary.AdminDecision) (summary.MonthlySummary, error) {
	q := GetQuerier(ctx, r.db)

	var query string
	var args []interface{}
	if d.Approve {
		query = `
			UPDATE monthly_summaries ms
			SET status = 'APPROVED',
				admin_signature = $2, admin_approved_at = $3, admin_approved_by = $4,
				admin_remarks = $5, updated_at = NOW()
			WHERE ms.id = $1 AND ms.status = 'SIGNED_BY_STAFF'
			RETURNING ` + bareSummaryColumns()
		args = []interface{}{id, d.Signature, d.DecidedAt, d.DecidedBy, d.Remarks}
	} else {
		query = `
			UPDATE monthly_summaries ms
			SET status = 'REJECTED',
				admin_signature = NULL, admin_approved_at = NULL, admin_approved_by = NULL,
				admin_remarks = $2, updated_at = NOW()
			WHERE ms.id = $1 AND ms.status = 'SIGNED_BY_STAFF'
			RETURNING ` + bareSummaryColumns()
		args = []interface{}{id, d.Remarks}
	}

	s, err := scanSummary(q.QueryRow(ctx, query, args...), false)
	if err != nil {
		if err == pgx.ErrNoRows {
			return summary.MonthlySummary{}, r.classifyMissedUpdate(ctx, id, summary.ErrInvalidTransition)
		}
		return summary.MonthlySummary{}, fmt.Errorf("failed to decide monthly summary: %w", err)
	}

	return s, nil
}

func (r *summaryRepository) BulkApprove(ctx context.Context, ids []string, d summary.AdminDecision) ([]summary.MonthlySummary, error) {
	var approved []summary.MonthlySummary

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := ContextWithTx(ctx, tx)
		q := GetQuerier(txCtx, r.db)

		// Lock every member first so the validation below cannot race a
		// concurrent single-record decision.
		rows, err := q.Query(txCtx, `
			SELECT id, status FROM monthly_summaries WHERE id = ANY($1) FOR UPDATE
		`, ids)
		if err != nil {
			return fmt.Errorf("failed to lock summaries for bulk approval: %w", err)
		}

		found := 0
		notPending := 0
		for rows.Next() {
			var id string
			var status summary.Status
			if err := rows.Scan(&id, &status); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan summary status: %w", err)
			}
			found++
			if status != summary.StatusSignedByStaff {
				notPending++
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to read summaries for bulk approval: %w", err)
		}

		missing := len(ids) - found
		if missing > 0 || notPending > 0 {
			return &summary.BulkStateError{Missing: missing, NotPending: notPending}
		}

		updateRows, err := q.Query(txCtx, `
			UPDATE monthly_summaries ms
			SET status = 'APPROVED',
				admin_signature = $2, admin_approved_at = $3, admin_approved_by = $4,
				admin_remarks = $5, updated_at = NOW()
			WHERE ms.id = ANY($1) AND ms.status = 'SIGNED_BY_STAFF'
			RETURNING `+bareSummaryColumns(),
			ids, d.Signature, d.DecidedAt, d.DecidedBy, d.Remarks,
		)
		if err != nil {
			return fmt.Errorf("failed to bulk approve summaries: %w", err)
		}
		defer updateRows.Close()

		for updateRows.Next() {
			s, err := scanSummary(updateRows, false)
			if err != nil {
				return fmt.Errorf("failed to scan approved summary: %w", err)
			}
			approved = append(approved, s)
		}
		if err := updateRows.Err(); err != nil {
			return fmt.Errorf("failed to read approved summaries: %w", err)
		}

		if len(approved) != len(ids) {
			return &summary.BulkStateError{NotPending: len(ids) - len(approved)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return approved, nil
}

// classifyMissedUpdate distinguishes "record absent" from "record in the
// wrong state" after a conditional update matched no rows.
func (r *summaryRepository) classifyMissedUpdate(ctx context.Context, id string, stateErr error) error {
	q := GetQuerier(ctx, r.db)

	var status summary.Status
	err := q.QueryRow(ctx, `SELECT status FROM monthly_summaries WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return summary.ErrSummaryNotFound
		}
		return fmt.Errorf("failed to check summary status: %w", err)
	}
	return stateErr
}

// bareSummaryColumns is summaryColumns without the table alias, for
// INSERT/UPDATE ... RETURNING clauses.
func bareSummaryColumns() string {
	return `
		id, employee_id, month, year,
		total_working_days, total_worked_hours, total_ot_hours,
		approved_leaves, absent_days, project_breakdown,
		payment_type, subtotal, tax_percentage, tax_amount, total_amount,
		invoice_number, invoice_seq,
		status, staff_signature, staff_signed_at, staff_signed_by,
		admin_signature, admin_approved_at, admin_approved_by, admin_remarks,
		created_at, updated_at
	`
}
