package summary

import (
	"context"
	"fmt"
	"sync"

	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/summary"
)

// invoiceIssuer serializes invoice numbering per (month, year). The
// read-max-then-increment step is a genuine race between concurrent
// generations for the same period, so each period gets its own critical
// section; the partial unique index on (year, month, invoice_seq) backstops
// other writers of the same table.
type invoiceIssuer struct {
	repo summary.Repository

	mu      sync.Mutex
	periods map[string]*sync.Mutex
}

func newInvoiceIssuer(repo summary.Repository) *invoiceIssuer {
	return &invoiceIssuer{
		repo:    repo,
		periods: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the period's critical section and returns its release
// function. The caller holds the lock across read-max, increment and upsert.
func (i *invoiceIssuer) Lock(month, year int) func() {
	key := fmt.Sprintf("%04d-%02d", year, month)

	i.mu.Lock()
	m, ok := i.periods[key]
	if !ok {
		m = &sync.Mutex{}
		i.periods[key] = m
	}
	i.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// Next reserves the next invoice sequence for the period. Callers must hold
// the period lock.
func (i *invoiceIssuer) Next(ctx context.Context, month, year int) (string, int, error) {
	maxSeq, err := i.repo.MaxInvoiceSeq(ctx, month, year)
	if err != nil {
		return "", 0, err
	}
	seq := maxSeq + 1
	return formatInvoiceNumber(year, month, seq), seq, nil
}

func formatInvoiceNumber(year, month, seq int) string {
	return fmt.Sprintf("INV-%d-%02d-%04d", year, month, seq)
}
