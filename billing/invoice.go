package billing

import (
	"fmt"
	"time"

	"github.com/backspacehq/backspace_backend/finance"
	"github.com/backspacehq/backspace_backend/models"
)

// BuildInvoice constructs an unpaid invoice from draft lines. The due date is
// policy decided by the caller (default: created date plus the configured
// offset). Line amounts must be non-negative and consistent with qty * rate.
func BuildInvoice(customerID, invoiceNumber string, lines []DraftLine, dueDate, now time.Time) (*models.Invoice, error) {
	var total finance.Money
	items := make([]models.LineItem, 0, len(lines))
	for _, l := range lines {
		if l.Amount < 0 || l.Rate < 0 {
			return nil, fmt.Errorf("%w: negative line amount", finance.ErrInvalidAmount)
		}
		if l.Quantity < 1 {
			return nil, fmt.Errorf("%w: line quantity must be positive", finance.ErrInvalidAmount)
		}
		if l.Amount != l.Rate*finance.Money(l.Quantity) {
			return nil, fmt.Errorf("%w: line amount %d != %d x %d",
				finance.ErrInvalidAmount, l.Amount, l.Quantity, l.Rate)
		}
		items = append(items, models.LineItem{
			Description: l.Description,
			Quantity:    l.Quantity,
			Rate:        l.Rate,
			Amount:      l.Amount,
		})
		total += l.Amount
	}

	return &models.Invoice{
		BaseModel:     models.BaseModel{CreatedAt: now},
		InvoiceNumber: invoiceNumber,
		CustomerID:    customerID,
		Total:         total,
		PaidAmount:    0,
		Status:        models.InvoiceStatusUnpaid,
		DueDate:       dueDate,
		LineItems:     items,
	}, nil
}

// CancelInvoice marks an untouched invoice cancelled. Anything already paid,
// even partially, needs an explicit refund path and cannot be cancelled here.
func CancelInvoice(inv *models.Invoice) error {
	if inv.Status != models.InvoiceStatusUnpaid || inv.PaidAmount != 0 {
		return fmt.Errorf("%w: only unpaid invoices with no payments can be cancelled", ErrInvalidState)
	}
	inv.Status = models.InvoiceStatusCancelled
	return nil
}

// CheckInvoiceInvariants verifies the ledger invariants of one invoice:
// total matches its lines, paid amount stays within [0, total], and status
// agrees with the paid amount.
func CheckInvoiceInvariants(inv *models.Invoice) error {
	if len(inv.LineItems) > 0 {
		var sum finance.Money
		for i := range inv.LineItems {
			sum += inv.LineItems[i].Amount
		}
		if sum != inv.Total {
			return fmt.Errorf("%w: line items sum %d != total %d", ErrInvalidState, sum, inv.Total)
		}
	}
	if inv.PaidAmount < 0 || inv.PaidAmount > inv.Total {
		return fmt.Errorf("%w: paid amount %d outside [0, %d]", ErrInvalidState, inv.PaidAmount, inv.Total)
	}
	switch inv.Status {
	case models.InvoiceStatusPaid:
		if inv.PaidAmount != inv.Total {
			return fmt.Errorf("%w: paid status with outstanding balance", ErrInvalidState)
		}
	case models.InvoiceStatusUnpaid:
		if inv.PaidAmount == inv.Total && inv.Total > 0 {
			return fmt.Errorf("%w: fully paid invoice still marked unpaid", ErrInvalidState)
		}
	}
	return nil
}
