package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/summary"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/pkg/database"
)

type summaryEventRepository struct {
	db *database.DB
}

// NewSummaryEventRepository returns the PostgreSQL-backed event store used by
// the notifier's background workers.
func NewSummaryEventRepository(db *database.DB) summary.EventStore {
	return &summaryEventRepository{db: db}
}

func (r *summaryEventRepository) CreateBatch(ctx context.Context, events []summary.Event) error {
	if len(events) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	valueStrings := make([]string, 0, len(events))
	valueArgs := make([]interface{}, 0, len(events)*8)

	for i, e := range events {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}

		base := i * 8
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8,
		))
		valueArgs = append(valueArgs,
			e.ID,
			string(e.Type),
			e.SummaryID,
			e.EmployeeID,
			e.Month,
			e.Year,
			e.ActorID,
			e.OccurredAt,
		)
	}

	query := `
		INSERT INTO summary_events (id, event_type, summary_id, employee_id, month, year, actor_id, occurred_at)
		VALUES ` + strings.Join(valueStrings, ", ")

	if _, err := q.Exec(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("failed to batch insert summary events: %w", err)
	}

	return nil
}
