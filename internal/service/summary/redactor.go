package summary

import (
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/summary"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/user"
)

// redact drops the financial fields from a response unless the caller is an
// admin. Unknown roles are treated like staff. Pure projection, applied to
// every record that leaves the service.
func redact(resp summary.SummaryResponse, role user.Role) summary.SummaryResponse {
	if role == user.RoleAdmin {
		return resp
	}

	resp.PaymentType = nil
	resp.Subtotal = nil
	resp.TaxPercentage = nil
	resp.TaxAmount = nil
	resp.TotalAmount = nil
	resp.InvoiceNumber = nil
	return resp
}

func redactAll(resps []summary.SummaryResponse, role user.Role) []summary.SummaryResponse {
	if role == user.RoleAdmin {
		return resps
	}
	for i := range resps {
		resps[i] = redact(resps[i], role)
	}
	return resps
}
