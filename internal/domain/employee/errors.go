package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrNoLinkedUser means the employee has no login account, so attendance
	// records cannot be resolved for them.
	ErrNoLinkedUser = errors.New("employee has no linked user account")
)
