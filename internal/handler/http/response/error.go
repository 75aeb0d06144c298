package response

import (
	"errors"
	"net/http"

	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/employee"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/summary"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/user"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Bulk approval failures carry the offending counts in their message.
	var bulkErr *summary.BulkStateError
	if errors.As(err, &bulkErr) {
		Conflict(w, bulkErr.Error())
		return
	}

	switch {
	// User domain errors
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrNoLinkedUser):
		NotFound(w, "Employee has no linked user account")

	// Summary domain errors
	case errors.Is(err, summary.ErrSummaryNotFound):
		NotFound(w, "Monthly summary not found")
	case errors.Is(err, summary.ErrSummaryApproved):
		Conflict(w, "Monthly summary already approved, regeneration refused")
	case errors.Is(err, summary.ErrAlreadySigned):
		Conflict(w, "Monthly summary already signed")
	case errors.Is(err, summary.ErrInvalidTransition):
		Conflict(w, "Monthly summary is not pending admin approval")
	case errors.Is(err, summary.ErrNotSummaryOwner):
		Forbidden(w, "Only the summary's owning employee may sign it")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
