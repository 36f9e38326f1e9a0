package billing

import (
	"github.com/backspacehq/backspace_backend/finance"
	"github.com/backspacehq/backspace_backend/models"
)

// ComputeBalance derives a customer's net balance from their invoice set and
// manual adjustments: minus the outstanding remainder of every non-cancelled
// invoice, plus any signed adjustments. A customer who owes money has a
// negative balance; stored credit shows as positive. The cached
// Customer.Balance column must always reconcile to this value.
func ComputeBalance(invoices []models.Invoice, adjustments []finance.Money) finance.Money {
	var balance finance.Money
	for i := range invoices {
		inv := &invoices[i]
		if inv.Status == models.InvoiceStatusCancelled {
			continue
		}
		balance -= inv.Outstanding()
	}
	for _, a := range adjustments {
		balance += a
	}
	return balance
}
