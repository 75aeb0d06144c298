package employee

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/user"
)

type PaymentType string

const (
	PaymentTypeNone     PaymentType = "none"
	PaymentTypeHourly   PaymentType = "hourly"
	PaymentTypeDaily    PaymentType = "daily"
	PaymentTypeMonthly  PaymentType = "monthly"
	PaymentTypeContract PaymentType = "contract"
)

// Employee is owned by the administration module; this subsystem reads it to
// resolve the payment model and the login used for attendance records.
type Employee struct {
	ID             string
	UserID         *string
	FullName       string
	Email          string
	Role           user.Role
	PaymentType    PaymentType
	HourlyRate     *decimal.Decimal
	DailyRate      *decimal.Decimal
	MonthlySalary  *decimal.Decimal
	ContractAmount *decimal.Decimal
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Rate returns the rate matching the employee's payment model. The second
// return is false when no model or no rate is configured, which leaves the
// payroll section of a summary inert rather than failing generation.
func (e Employee) Rate() (decimal.Decimal, bool) {
	var r *decimal.Decimal
	switch e.PaymentType {
	case PaymentTypeHourly:
		r = e.HourlyRate
	case PaymentTypeDaily:
		r = e.DailyRate
	case PaymentTypeMonthly:
		r = e.MonthlySalary
	case PaymentTypeContract:
		r = e.ContractAmount
	default:
		return decimal.Zero, false
	}
	if r == nil || r.IsZero() {
		return decimal.Zero, false
	}
	return *r, true
}
