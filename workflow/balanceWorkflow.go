package workflow

import (
	"github.com/backspacehq/backspace_backend/billing"
	"github.com/backspacehq/backspace_backend/config"
	"github.com/backspacehq/backspace_backend/finance"
	"github.com/backspacehq/backspace_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RecomputeCustomerBalance derives the customer's balance from their invoice
// set plus manual adjustments and writes it back to the cached column. Every
// workflow that changes an invoice or adjustment calls this, so the cache
// always reconciles to the derivation.
func RecomputeCustomerBalance(tx *gorm.DB, logger *logrus.Logger, customerID string) (finance.Money, error) {
	invoices, err := models.GetCustomerInvoices(tx, customerID)
	if err != nil {
		config.LogError(logger, "balanceWorkflow.go", "RecomputeCustomerBalance", "GetCustomerInvoices", customerID, err)
		return 0, err
	}

	adjustments, err := models.GetBalanceAdjustments(tx, customerID)
	if err != nil {
		config.LogError(logger, "balanceWorkflow.go", "RecomputeCustomerBalance", "GetBalanceAdjustments", customerID, err)
		return 0, err
	}
	amounts := make([]finance.Money, len(adjustments))
	for i := range adjustments {
		amounts[i] = adjustments[i].Amount
	}

	balance := billing.ComputeBalance(invoices, amounts)

	if err := tx.Model(&models.Customer{}).Where("id = ?", customerID).
		Update("balance", balance).Error; err != nil {
		config.LogError(logger, "balanceWorkflow.go", "RecomputeCustomerBalance", "UpdateBalance", customerID, err)
		return 0, err
	}
	return balance, nil
}

// AddBalanceAdjustment records a manual signed correction (deposit or
// withdrawal) and refreshes the derived balance.
func AddBalanceAdjustment(tx *gorm.DB, logger *logrus.Logger, customerID string, amount finance.Money, reason string) (finance.Money, error) {
	adjustment := models.BalanceAdjustment{
		CustomerID: customerID,
		Amount:     amount,
		Reason:     reason,
	}
	if err := tx.Create(&adjustment).Error; err != nil {
		config.LogError(logger, "balanceWorkflow.go", "AddBalanceAdjustment", "Create", adjustment, err)
		return 0, err
	}
	return RecomputeCustomerBalance(tx, logger, customerID)
}
