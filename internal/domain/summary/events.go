package summary

import (
	"context"
	"time"
)

type EventType string

const (
	EventGenerated    EventType = "summary.generated"
	EventSigned       EventType = "summary.signed"
	EventApproved     EventType = "summary.approved"
	EventRejected     EventType = "summary.rejected"
	EventBulkApproved EventType = "summary.bulk_approved"
)

// Event is emitted after a successful generation or workflow transition.
// Consumers (email, push) run asynchronously; the core never waits on them.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	SummaryID  string    `json:"summary_id"`
	EmployeeID string    `json:"employee_id"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers events fire-and-forget. Implementations must not block
// the caller and must swallow delivery failures.
type Publisher interface {
	Publish(event Event)
}

// EventStore persists delivered events so downstream consumers (email, push)
// can pick them up out of band.
type EventStore interface {
	CreateBatch(ctx context.Context, events []Event) error
}
