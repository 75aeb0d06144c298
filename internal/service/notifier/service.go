package notifier

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/summary"
)

// Config holds notifier configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

// EventNotifier fans summary events out to background workers that persist them in
// batches. Publish never blocks and never fails the caller: when the queue is
// full the event is dropped and counted.
type EventNotifier struct {
	store  summary.EventStore
	config Config

	queue   chan summary.Event
	dropped atomic.Int64
	wg      sync.WaitGroup
	stopCh  chan struct{}
}

// NewEventNotifier creates a notifier with background workers already running.
func NewEventNotifier(store summary.EventStore, cfg Config) *EventNotifier {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &EventNotifier{
		store:  store,
		config: cfg,
		queue:  make(chan summary.Event, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("Event notifier started",
		"workers", cfg.WorkerCount, "batch_size", cfg.BatchSize, "flush_interval", cfg.FlushInterval)

	return s
}

var _ summary.Publisher = (*EventNotifier)(nil)

// Publish queues an event for async persistence. The workflow that emitted
// the event has already committed; a full queue loses the event rather than
// stalling a request.
func (s *EventNotifier) Publish(event summary.Event) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	select {
	case s.queue <- event:
	default:
		dropped := s.dropped.Add(1)
		slog.Warn("Event queue full, dropping event",
			"event_type", event.Type, "summary_id", event.SummaryID, "total_dropped", dropped)
	}
}

// Dropped reports how many events were lost to a full queue.
func (s *EventNotifier) Dropped() int64 {
	return s.dropped.Load()
}

// Stop flushes pending events and stops the workers.
func (s *EventNotifier) Stop() {
	close(s.stopCh)
	s.wg.Wait()
	slog.Info("Event notifier stopped", "dropped", s.dropped.Load())
}

func (s *EventNotifier) worker(id int) {
	defer s.wg.Done()

	batch := make([]summary.Event, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.store.CreateBatch(ctx, batch); err != nil {
			slog.Error("Failed to persist event batch", "worker", id, "count", len(batch), "error", err)
		}

		batch = batch[:0]
	}

	for {
		select {
		case event := <-s.queue:
			batch = append(batch, event)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// Drain whatever made it into the queue before shutdown.
			for {
				select {
				case event := <-s.queue:
					batch = append(batch, event)
				default:
					flush()
					return
				}
			}
		}
	}
}
