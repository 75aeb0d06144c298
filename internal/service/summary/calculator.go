package summary

import (
	"github.com/shopspring/decimal"

	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/employee"
)

var overtimeMultiplier = decimal.NewFromFloat(1.5)

// Payroll is the money section of a summary. Values keep full decimal
// precision; only TotalAmount is rounded, once, at the end.
type Payroll struct {
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal
}

// computePayroll derives the payroll figures for one employee's monthly
// aggregation. An employee with no payment model or no configured rate gets
// an all-zero payroll section, which is valid, not an error.
func computePayroll(emp employee.Employee, agg Aggregation, taxPercentage decimal.Decimal) Payroll {
	subtotal := computeSubtotal(emp, agg)
	taxAmount := subtotal.Mul(taxPercentage).Div(decimal.NewFromInt(100))
	return Payroll{
		Subtotal:    subtotal,
		TaxAmount:   taxAmount,
		TotalAmount: subtotal.Add(taxAmount).Round(2),
	}
}

func computeSubtotal(emp employee.Employee, agg Aggregation) decimal.Decimal {
	rate, ok := emp.Rate()
	if !ok {
		return decimal.Zero
	}

	switch emp.PaymentType {
	case employee.PaymentTypeHourly:
		regular := decimal.NewFromFloat(agg.TotalWorkedHours).Mul(rate)
		overtime := decimal.NewFromFloat(agg.TotalOvertimeHours).Mul(rate).Mul(overtimeMultiplier)
		return regular.Add(overtime)
	case employee.PaymentTypeDaily:
		return decimal.NewFromInt(int64(agg.TotalWorkingDays)).Mul(rate)
	case employee.PaymentTypeMonthly:
		// Prorated by presence against the month's weekday count, not a flat
		// salary figure.
		if agg.WeekdaysInMonth == 0 {
			return decimal.Zero
		}
		return rate.
			Mul(decimal.NewFromInt(int64(agg.TotalWorkingDays))).
			Div(decimal.NewFromInt(int64(agg.WeekdaysInMonth)))
	case employee.PaymentTypeContract:
		return rate
	default:
		return decimal.Zero
	}
}
