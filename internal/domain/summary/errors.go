package summary

import (
	"errors"
	"fmt"
)

var (
	ErrSummaryNotFound = errors.New("monthly summary not found")
	// ErrSummaryApproved guards approved records: regeneration must not
	// silently overwrite their computed or payroll fields.
	ErrSummaryApproved   = errors.New("monthly summary already approved, regeneration refused")
	ErrAlreadySigned     = errors.New("monthly summary already signed")
	ErrInvalidTransition = errors.New("invalid summary status transition")
	ErrNotSummaryOwner   = errors.New("signer is not the summary's owning employee")
)

// BulkStateError reports why a bulk approval was rejected as a whole: every
// member must exist and be SIGNED_BY_STAFF before any record is touched.
type BulkStateError struct {
	Missing    int
	NotPending int
}

func (e *BulkStateError) Error() string {
	return fmt.Sprintf("bulk approval rejected: %d missing, %d not pending admin approval", e.Missing, e.NotPending)
}

func (e *BulkStateError) Unwrap() error {
	return ErrInvalidTransition
}
