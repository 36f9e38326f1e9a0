package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/backspacehq/backspace_backend/billing"
	"github.com/backspacehq/backspace_backend/config"
	"github.com/backspacehq/backspace_backend/models"
	"github.com/backspacehq/backspace_backend/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CreateInvoice persists a standalone invoice built from draft lines. The
// due date defaults to now plus the configured offset when zero.
func CreateInvoice(tx *gorm.DB, logger *logrus.Logger, customerID string, lines []billing.DraftLine, dueDate, now time.Time) (*models.Invoice, error) {
	if dueDate.IsZero() {
		dueDate = now.AddDate(0, 0, config.InvoiceDueDays())
	}

	invoice, err := billing.BuildInvoice(customerID, utils.InvoiceNumber("INV", now), lines, dueDate, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Create(invoice).Error; err != nil {
		config.LogError(logger, "invoiceWorkflow.go", "CreateInvoice", "Create", invoice, err)
		return nil, err
	}

	if _, err := RecomputeCustomerBalance(tx, logger, customerID); err != nil {
		return nil, err
	}
	return invoice, nil
}

// CreateInvoiceFromSession turns a closed session's draft into the persisted
// invoice, linked back to the session.
func CreateInvoiceFromSession(tx *gorm.DB, logger *logrus.Logger, session *models.Session, draft *billing.InvoiceDraft, now time.Time) (*models.Invoice, error) {
	dueDate := now.AddDate(0, 0, config.InvoiceDueDays())

	invoice, err := billing.BuildInvoice(session.CustomerID, utils.InvoiceNumber("INV", now), draft.LineItems, dueDate, now)
	if err != nil {
		return nil, err
	}
	invoice.SessionID = &session.ID

	if err := tx.Create(invoice).Error; err != nil {
		config.LogError(logger, "invoiceWorkflow.go", "CreateInvoiceFromSession", "Create", invoice, err)
		return nil, err
	}
	return invoice, nil
}

// CancelInvoice cancels an untouched invoice and refreshes the balance.
func CancelInvoice(tx *gorm.DB, logger *logrus.Logger, invoiceID string) (*models.Invoice, error) {
	invoice, err := models.GetInvoiceById(tx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invoice %s", utils.ErrorRecordNotFound, invoiceID)
		}
		return nil, err
	}

	if err := billing.CancelInvoice(invoice); err != nil {
		return nil, err
	}

	if err := tx.Model(invoice).Update("status", invoice.Status).Error; err != nil {
		config.LogError(logger, "invoiceWorkflow.go", "CancelInvoice", "Update", invoiceID, err)
		return nil, err
	}

	if _, err := RecomputeCustomerBalance(tx, logger, invoice.CustomerID); err != nil {
		return nil, err
	}
	return invoice, nil
}
