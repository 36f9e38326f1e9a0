package billing

import (
	"fmt"
	"sort"
	"time"

	"github.com/backspacehq/backspace_backend/finance"
	"github.com/backspacehq/backspace_backend/models"
)

// OverpayTolerance absorbs rounding of UI-entered EGP amounts converted to
// piasters: a payment may exceed the outstanding balance by up to this much
// and is clamped to the total instead of being rejected.
const OverpayTolerance = finance.Money(10) // 0.10 EGP

// ApplyPayment applies one amount against one invoice. PaidAmount and Status
// move together; on any error the invoice is untouched.
func ApplyPayment(inv *models.Invoice, amount finance.Money, now time.Time) error {
	if amount <= 0 {
		return fmt.Errorf("%w: payment amount must be positive", finance.ErrInvalidAmount)
	}
	if inv.Status == models.InvoiceStatusCancelled {
		return fmt.Errorf("%w: invoice is cancelled", ErrInvalidState)
	}
	outstanding := inv.Outstanding()
	if outstanding <= 0 {
		return fmt.Errorf("%w: invoice is already fully paid", ErrInvalidState)
	}
	if amount > outstanding+OverpayTolerance {
		return fmt.Errorf("%w: payment %d against outstanding %d",
			ErrAmountExceedsBalance, amount, outstanding)
	}

	inv.PaidAmount += amount
	if inv.PaidAmount >= inv.Total {
		inv.PaidAmount = inv.Total
		inv.Status = models.InvoiceStatusPaid
		paid := now
		inv.PaidDate = &paid
	} else {
		inv.Status = models.InvoiceStatusUnpaid
	}
	return nil
}

// Application records how much of a bulk payment landed on one invoice.
type Application struct {
	Invoice *models.Invoice
	Amount  finance.Money
}

// BulkResult is the outcome of a bulk settlement. Unapplied is whatever was
// left after every invoice was fully paid; it is reported, not stored as
// customer credit.
type BulkResult struct {
	Applications []Application
	Unapplied    finance.Money
}

// AllocateBulk distributes one payment across a customer's open invoices,
// oldest due date first (ties by creation time, then ID). Each invoice
// consumes as much of the remaining amount as its outstanding balance allows;
// the last invoice touched may end up partially paid. Cancelled and settled
// invoices are skipped.
func AllocateBulk(invoices []*models.Invoice, totalAmount finance.Money, now time.Time) (*BulkResult, error) {
	if totalAmount <= 0 {
		return nil, fmt.Errorf("%w: bulk payment amount must be positive", finance.ErrInvalidAmount)
	}

	sorted := make([]*models.Invoice, len(invoices))
	copy(sorted, invoices)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].DueDate.Equal(sorted[j].DueDate) {
			return sorted[i].DueDate.Before(sorted[j].DueDate)
		}
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	result := &BulkResult{}
	remaining := totalAmount
	for _, inv := range sorted {
		if remaining <= 0 {
			break
		}
		if inv.Status == models.InvoiceStatusCancelled {
			continue
		}
		due := inv.Outstanding()
		if due <= 0 {
			continue
		}

		applied := due
		if remaining < due {
			applied = remaining
		}
		if err := ApplyPayment(inv, applied, now); err != nil {
			return nil, err
		}
		result.Applications = append(result.Applications, Application{Invoice: inv, Amount: applied})
		remaining -= applied
	}

	result.Unapplied = remaining
	return result, nil
}
