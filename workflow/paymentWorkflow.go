package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/backspacehq/backspace_backend/billing"
	"github.com/backspacehq/backspace_backend/config"
	"github.com/backspacehq/backspace_backend/finance"
	"github.com/backspacehq/backspace_backend/models"
	"github.com/backspacehq/backspace_backend/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ProcessPayment applies one payment against one invoice: the billing core
// validates and mutates the invoice, then the payment record, invoice state,
// customer spend counter and cached balance are persisted together.
func ProcessPayment(tx *gorm.DB, logger *logrus.Logger, invoiceID string, amount finance.Money, method models.PaymentMethod, date time.Time, notes string) (*models.Invoice, error) {
	invoice, err := models.GetInvoiceById(tx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invoice %s", utils.ErrorRecordNotFound, invoiceID)
		}
		return nil, err
	}

	// What actually lands on the invoice can be less than the requested
	// amount when the tolerance clamps it to the total.
	before := invoice.PaidAmount
	if err := billing.ApplyPayment(invoice, amount, date); err != nil {
		return nil, err
	}
	applied := invoice.PaidAmount - before

	payment := models.Payment{
		InvoiceID: invoiceID,
		Amount:    applied,
		Method:    method,
		Date:      date,
		Notes:     notes,
	}
	if err := tx.Create(&payment).Error; err != nil {
		config.LogError(logger, "paymentWorkflow.go", "ProcessPayment", "CreatePayment", payment, err)
		return nil, err
	}

	if err := saveInvoicePaymentState(tx, invoice); err != nil {
		config.LogError(logger, "paymentWorkflow.go", "ProcessPayment", "SaveInvoice", invoiceID, err)
		return nil, err
	}

	if err := bumpCustomerSpend(tx, invoice.CustomerID, applied); err != nil {
		config.LogError(logger, "paymentWorkflow.go", "ProcessPayment", "BumpTotalSpent", invoice.CustomerID, err)
		return nil, err
	}

	if _, err := RecomputeCustomerBalance(tx, logger, invoice.CustomerID); err != nil {
		return nil, err
	}
	return invoice, nil
}

// ProcessBulkPayment settles one lump sum across several invoices of a single
// customer, oldest due date first. One payment record is written per invoice
// touched. Leftover beyond the combined outstanding balance is logged and
// dropped, not stored as credit.
func ProcessBulkPayment(tx *gorm.DB, logger *logrus.Logger, customerID string, invoiceIDs []string, totalAmount finance.Money, method models.PaymentMethod, date time.Time, notes string) ([]*models.Invoice, error) {
	if len(invoiceIDs) == 0 {
		return nil, fmt.Errorf("%w: no invoices given", finance.ErrInvalidAmount)
	}

	invoices, err := models.GetInvoicesByIds(tx, invoiceIDs)
	if err != nil {
		return nil, err
	}
	if len(invoices) != len(invoiceIDs) {
		return nil, fmt.Errorf("%w: some invoices do not exist", utils.ErrorRecordNotFound)
	}
	// The cached balance is maintained per customer, so a bulk settlement must
	// stay within one customer's invoice set.
	for _, inv := range invoices {
		if inv.CustomerID != customerID {
			return nil, fmt.Errorf("%w: invoice %s belongs to another customer", billing.ErrInvalidState, inv.ID)
		}
	}

	result, err := billing.AllocateBulk(invoices, totalAmount, date)
	if err != nil {
		return nil, err
	}

	for _, app := range result.Applications {
		payment := models.Payment{
			InvoiceID: app.Invoice.ID,
			Amount:    app.Amount,
			Method:    method,
			Date:      date,
			Notes:     notes,
		}
		if err := tx.Create(&payment).Error; err != nil {
			config.LogError(logger, "paymentWorkflow.go", "ProcessBulkPayment", "CreatePayment", payment, err)
			return nil, err
		}
		if err := saveInvoicePaymentState(tx, app.Invoice); err != nil {
			config.LogError(logger, "paymentWorkflow.go", "ProcessBulkPayment", "SaveInvoice", app.Invoice.ID, err)
			return nil, err
		}
		if err := bumpCustomerSpend(tx, app.Invoice.CustomerID, app.Amount); err != nil {
			config.LogError(logger, "paymentWorkflow.go", "ProcessBulkPayment", "BumpTotalSpent", app.Invoice.CustomerID, err)
			return nil, err
		}
	}

	if result.Unapplied > 0 {
		logger.WithFields(logrus.Fields{
			"module":    "paymentWorkflow.go",
			"unapplied": result.Unapplied,
		}).Warn("bulk payment exceeded combined outstanding balance; leftover not applied")
	}

	if _, err := RecomputeCustomerBalance(tx, logger, customerID); err != nil {
		return nil, err
	}
	return invoices, nil
}

// saveInvoicePaymentState persists paid amount, status and paid date in one
// update so they never diverge.
func saveInvoicePaymentState(tx *gorm.DB, invoice *models.Invoice) error {
	return tx.Model(invoice).Updates(map[string]interface{}{
		"paid_amount": invoice.PaidAmount,
		"status":      invoice.Status,
		"paid_date":   invoice.PaidDate,
	}).Error
}

func bumpCustomerSpend(tx *gorm.DB, customerID string, amount finance.Money) error {
	return tx.Model(&models.Customer{}).Where("id = ?", customerID).
		Update("total_spent", gorm.Expr("total_spent + ?", amount)).Error
}
