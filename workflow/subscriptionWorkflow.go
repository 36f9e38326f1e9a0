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

// PurchaseSubscription creates a subscription for a customer along with its
// invoice. Any previously active subscriptions are deactivated first, so at
// most one subscription is active per customer under normal operation (the
// coverage tie break in the billing core handles legacy overlaps).
func PurchaseSubscription(tx *gorm.DB, logger *logrus.Logger, customerID string, planType models.PlanType, price finance.Money, startDate, now time.Time) (*models.Subscription, error) {
	if !planType.Valid() {
		return nil, fmt.Errorf("%w: unknown plan type %q", billing.ErrInvalidState, planType)
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: negative subscription price", finance.ErrInvalidAmount)
	}

	if err := tx.Model(&models.Subscription{}).
		Where("customer_id = ? AND is_active = ?", customerID, true).
		Updates(map[string]interface{}{"is_active": false, "status": models.SubscriptionStatusInactive}).Error; err != nil {
		config.LogError(logger, "subscriptionWorkflow.go", "PurchaseSubscription", "DeactivateExisting", customerID, err)
		return nil, err
	}

	endDate := startDate.AddDate(0, 0, planType.Days())

	lines := []billing.DraftLine{{
		Description: fmt.Sprintf("Subscription: %s Plan", planType),
		Quantity:    1,
		Rate:        price,
		Amount:      price,
	}}
	invoice, err := billing.BuildInvoice(customerID, utils.InvoiceNumber("SUB", now), lines, now, now)
	if err != nil {
		return nil, err
	}
	if err := tx.Create(invoice).Error; err != nil {
		config.LogError(logger, "subscriptionWorkflow.go", "PurchaseSubscription", "CreateInvoice", invoice, err)
		return nil, err
	}

	sub := &models.Subscription{
		CustomerID: customerID,
		PlanType:   planType,
		Price:      price,
		StartDate:  startDate,
		EndDate:    endDate,
		IsActive:   true,
		Status:     models.SubscriptionStatusActive,
		InvoiceID:  &invoice.ID,
	}
	if err := tx.Create(sub).Error; err != nil {
		config.LogError(logger, "subscriptionWorkflow.go", "PurchaseSubscription", "CreateSubscription", sub, err)
		return nil, err
	}

	if err := tx.Model(&models.Customer{}).Where("id = ?", customerID).
		Update("customer_type", string(planType)).Error; err != nil {
		config.LogError(logger, "subscriptionWorkflow.go", "PurchaseSubscription", "UpdateCustomerType", customerID, err)
		return nil, err
	}

	if _, err := RecomputeCustomerBalance(tx, logger, customerID); err != nil {
		return nil, err
	}
	return sub, nil
}

// CancelSubscription deactivates a subscription. The customer drops back to
// visitor when nothing else is active. Sessions already started under this
// subscription keep their coverage.
func CancelSubscription(tx *gorm.DB, logger *logrus.Logger, id string) error {
	sub, err := models.GetSubscriptionById(tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: subscription %s", utils.ErrorRecordNotFound, id)
		}
		return err
	}

	if err := tx.Model(sub).Updates(map[string]interface{}{
		"is_active": false,
		"status":    models.SubscriptionStatusInactive,
	}).Error; err != nil {
		config.LogError(logger, "subscriptionWorkflow.go", "CancelSubscription", "Deactivate", id, err)
		return err
	}

	active, err := models.CountActiveSubscriptions(tx, sub.CustomerID)
	if err != nil {
		return err
	}
	if active == 0 {
		if err := tx.Model(&models.Customer{}).Where("id = ?", sub.CustomerID).
			Update("customer_type", models.CustomerTypeVisitor).Error; err != nil {
			config.LogError(logger, "subscriptionWorkflow.go", "CancelSubscription", "ResetCustomerType", sub.CustomerID, err)
			return err
		}
	}
	return nil
}

// ReactivateSubscription re-enables a deactivated subscription whose window
// still covers the given instant.
func ReactivateSubscription(tx *gorm.DB, logger *logrus.Logger, id string, now time.Time) error {
	sub, err := models.GetSubscriptionById(tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: subscription %s", utils.ErrorRecordNotFound, id)
		}
		return err
	}
	if sub.IsActive {
		return fmt.Errorf("%w: subscription is already active", billing.ErrInvalidState)
	}
	if now.After(sub.EndDate) {
		return fmt.Errorf("%w: subscription window has expired", billing.ErrInvalidState)
	}

	if err := tx.Model(sub).Updates(map[string]interface{}{
		"is_active": true,
		"status":    models.SubscriptionStatusActive,
	}).Error; err != nil {
		config.LogError(logger, "subscriptionWorkflow.go", "ReactivateSubscription", "Activate", id, err)
		return err
	}

	return tx.Model(&models.Customer{}).Where("id = ?", sub.CustomerID).
		Update("customer_type", string(sub.PlanType)).Error
}

// ChangeSubscriptionPlan switches an active subscription to another plan,
// recomputing the end date from the original start.
func ChangeSubscriptionPlan(tx *gorm.DB, logger *logrus.Logger, id string, newPlan models.PlanType) error {
	if !newPlan.Valid() {
		return fmt.Errorf("%w: unknown plan type %q", billing.ErrInvalidState, newPlan)
	}

	sub, err := models.GetSubscriptionById(tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: subscription %s", utils.ErrorRecordNotFound, id)
		}
		return err
	}
	if !sub.IsActive {
		return fmt.Errorf("%w: cannot change the plan of an inactive subscription", billing.ErrInvalidState)
	}

	endDate := sub.StartDate.AddDate(0, 0, newPlan.Days())
	if err := tx.Model(sub).Updates(map[string]interface{}{
		"plan_type": string(newPlan),
		"end_date":  endDate,
	}).Error; err != nil {
		config.LogError(logger, "subscriptionWorkflow.go", "ChangeSubscriptionPlan", "Update", id, err)
		return err
	}

	return tx.Model(&models.Customer{}).Where("id = ?", sub.CustomerID).
		Update("customer_type", string(newPlan)).Error
}

// MarkExpiredSubscriptions flips subscriptions whose window has passed to
// expired. Coverage decisions already snapshotted on running sessions are
// unaffected.
func MarkExpiredSubscriptions(tx *gorm.DB, logger *logrus.Logger, now time.Time) (int64, error) {
	result := tx.Model(&models.Subscription{}).
		Where("is_active = ? AND end_date < ?", true, now).
		Updates(map[string]interface{}{"is_active": false, "status": models.SubscriptionStatusExpired})
	if result.Error != nil {
		config.LogError(logger, "subscriptionWorkflow.go", "MarkExpiredSubscriptions", "Update", now, result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
