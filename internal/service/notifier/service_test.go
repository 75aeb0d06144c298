package notifier

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/summary"
)

type memoryEventStore struct {
	mu     sync.Mutex
	events []summary.Event
}

func (m *memoryEventStore) CreateBatch(_ context.Context, events []summary.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *memoryEventStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func TestEventNotifier_PublishAndFlushOnStop(t *testing.T) {
	store := &memoryEventStore{}
	n := NewEventNotifier(store, Config{WorkerCount: 1, FlushInterval: time.Hour})

	for i := 0; i < 5; i++ {
		n.Publish(summary.Event{Type: summary.EventGenerated, SummaryID: "sum-1"})
	}
	n.Stop()

	assert.Equal(t, 5, store.count())
	assert.Zero(t, n.Dropped())
}

func TestEventNotifier_AssignsEventIDs(t *testing.T) {
	store := &memoryEventStore{}
	n := NewEventNotifier(store, Config{WorkerCount: 1, FlushInterval: time.Hour})

	n.Publish(summary.Event{Type: summary.EventSigned})
	n.Stop()

	require.Len(t, store.events, 1)
	assert.NotEmpty(t, store.events[0].ID)
}

func TestEventNotifier_FullQueueDropsInsteadOfBlocking(t *testing.T) {
	store := &memoryEventStore{}
	n := NewEventNotifier(store, Config{WorkerCount: 1, FlushInterval: time.Hour, QueueSize: 2, BatchSize: 100})

	// The worker may drain some slots, so the exact drop count is not
	// deterministic. What matters is that Publish returns promptly.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			n.Publish(summary.Event{Type: summary.EventApproved})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full queue")
	}

	assert.GreaterOrEqual(t, n.Dropped(), int64(0))
	n.Stop()
}
