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

// StartSession opens a session for a customer on a resource. Subscription
// coverage is resolved here, once, and snapshotted on the session together
// with the resource rate and daily cap. The resource is flipped unavailable
// in the same transaction; only this function and EndSession ever write
// IsAvailable.
func StartSession(tx *gorm.DB, logger *logrus.Logger, customerID, resourceID string, now time.Time) (*models.Session, error) {
	resource, err := models.GetResourceById(tx, resourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: resource %s", utils.ErrorRecordNotFound, resourceID)
		}
		return nil, err
	}
	if !resource.IsAvailable {
		return nil, fmt.Errorf("%w: %s", billing.ErrResourceUnavailable, resource.Name)
	}

	if _, err := models.GetCustomerById(tx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: customer %s", utils.ErrorRecordNotFound, customerID)
		}
		return nil, err
	}

	subs, err := models.GetActiveSubscriptions(tx, customerID)
	if err != nil {
		config.LogError(logger, "sessionWorkflow.go", "StartSession", "GetActiveSubscriptions", customerID, err)
		return nil, err
	}
	coverage := billing.ResolveCoverage(subs, now)

	session := &models.Session{
		CustomerID:       customerID,
		ResourceID:       resourceID,
		ResourceRate:     resource.RatePerHour,
		ResourceMaxPrice: resource.MaxPrice,
		StartedAt:        now,
		IsSubscribed:     coverage.Covered,
		Status:           models.SessionStatusActive,
	}
	if coverage.Covered {
		subID := coverage.SubscriptionID
		session.SubscriptionID = &subID
	}

	if err := tx.Create(session).Error; err != nil {
		config.LogError(logger, "sessionWorkflow.go", "StartSession", "Create", session, err)
		return nil, err
	}

	if err := tx.Model(resource).Update("is_available", false).Error; err != nil {
		config.LogError(logger, "sessionWorkflow.go", "StartSession", "OccupyResource", resourceID, err)
		return nil, err
	}

	session.ResourceName = resource.Name
	return session, nil
}

// AddConsumption attaches an inventory item to a session and deducts stock
// atomically. The item price is snapshotted on the consumption record.
func AddConsumption(tx *gorm.DB, logger *logrus.Logger, sessionID, itemID string, quantity int, now time.Time) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", finance.ErrInvalidAmount)
	}

	session, err := models.GetSessionById(tx, sessionID)
	if err != nil {
		return err
	}
	if session.Status != models.SessionStatusActive {
		return fmt.Errorf("%w: session is not active", billing.ErrInvalidState)
	}

	item, err := models.GetInventoryItemById(tx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: inventory item %s", utils.ErrorRecordNotFound, itemID)
		}
		return err
	}
	if item.Quantity < quantity {
		return fmt.Errorf("%w: insufficient stock, only %d available", billing.ErrInvalidState, item.Quantity)
	}

	if err := tx.Model(item).Update("quantity", item.Quantity-quantity).Error; err != nil {
		config.LogError(logger, "sessionWorkflow.go", "AddConsumption", "DeductStock", itemID, err)
		return err
	}

	consumption := models.InventoryConsumption{
		SessionID: sessionID,
		ItemID:    itemID,
		ItemName:  item.Name,
		Quantity:  quantity,
		Price:     item.Price,
		AddedAt:   now,
	}
	if err := tx.Create(&consumption).Error; err != nil {
		config.LogError(logger, "sessionWorkflow.go", "AddConsumption", "Create", consumption, err)
		return err
	}

	newTotal := session.InventoryTotal + item.Price*finance.Money(quantity)
	if err := tx.Model(session).Update("inventory_total", newTotal).Error; err != nil {
		config.LogError(logger, "sessionWorkflow.go", "AddConsumption", "UpdateSessionTotal", sessionID, err)
		return err
	}
	return nil
}

// RemoveConsumption detaches an item from a session and restores its stock.
func RemoveConsumption(tx *gorm.DB, logger *logrus.Logger, sessionID, consumptionID string) error {
	var consumption models.InventoryConsumption
	if err := tx.Where("id = ? AND session_id = ?", consumptionID, sessionID).
		First(&consumption).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: consumption %s", utils.ErrorRecordNotFound, consumptionID)
		}
		return err
	}

	if err := tx.Model(&models.InventoryItem{}).Where("id = ?", consumption.ItemID).
		Update("quantity", gorm.Expr("quantity + ?", consumption.Quantity)).Error; err != nil {
		config.LogError(logger, "sessionWorkflow.go", "RemoveConsumption", "RestoreStock", consumption.ItemID, err)
		return err
	}

	if err := tx.Model(&models.Session{}).Where("id = ?", sessionID).
		Update("inventory_total", gorm.Expr("inventory_total - ?", consumption.Cost())).Error; err != nil {
		config.LogError(logger, "sessionWorkflow.go", "RemoveConsumption", "UpdateSessionTotal", sessionID, err)
		return err
	}

	return tx.Delete(&consumption).Error
}

// UpdateConsumption changes the quantity of an attached item, adjusting stock
// by the difference. Zero or negative quantity removes the consumption.
func UpdateConsumption(tx *gorm.DB, logger *logrus.Logger, sessionID, consumptionID string, newQuantity int) error {
	if newQuantity <= 0 {
		return RemoveConsumption(tx, logger, sessionID, consumptionID)
	}

	var consumption models.InventoryConsumption
	if err := tx.Where("id = ? AND session_id = ?", consumptionID, sessionID).
		First(&consumption).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: consumption %s", utils.ErrorRecordNotFound, consumptionID)
		}
		return err
	}

	diff := newQuantity - consumption.Quantity
	if diff > 0 {
		item, err := models.GetInventoryItemById(tx, consumption.ItemID)
		if err != nil {
			return err
		}
		if item.Quantity < diff {
			return fmt.Errorf("%w: insufficient stock, only %d more available", billing.ErrInvalidState, item.Quantity)
		}
		if err := tx.Model(item).Update("quantity", item.Quantity-diff).Error; err != nil {
			config.LogError(logger, "sessionWorkflow.go", "UpdateConsumption", "DeductStock", consumption.ItemID, err)
			return err
		}
	} else if diff < 0 {
		if err := tx.Model(&models.InventoryItem{}).Where("id = ?", consumption.ItemID).
			Update("quantity", gorm.Expr("quantity - ?", diff)).Error; err != nil {
			config.LogError(logger, "sessionWorkflow.go", "UpdateConsumption", "RestoreStock", consumption.ItemID, err)
			return err
		}
	}

	if err := tx.Model(&consumption).Update("quantity", newQuantity).Error; err != nil {
		return err
	}

	return tx.Model(&models.Session{}).Where("id = ?", sessionID).
		Update("inventory_total", gorm.Expr("inventory_total + ?", consumption.Price*finance.Money(diff))).Error
}

// EndSession closes a session at the given instant: finalizes its cost
// through the billing core, frees the resource, generates the invoice (unless
// the total is zero) and refreshes the customer's counters and balance — all
// in one transaction, so there is no state where the session is closed but
// the resource still shows occupied.
func EndSession(tx *gorm.DB, logger *logrus.Logger, sessionID string, now time.Time) (*models.Session, *models.Invoice, error) {
	session, err := models.GetSessionById(tx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: session %s", utils.ErrorRecordNotFound, sessionID)
		}
		return nil, nil, err
	}

	resource, err := models.GetResourceById(tx, session.ResourceID)
	if err != nil {
		return nil, nil, err
	}
	session.ResourceName = resource.Name

	draft, err := billing.Close(session, now)
	if err != nil {
		return nil, nil, err
	}

	updates := map[string]interface{}{
		"ended_at":     now,
		"session_cost": draft.TimeCost,
		"total_amount": draft.Total,
		"status":       models.SessionStatusCompleted,
	}
	if err := tx.Model(session).Updates(updates).Error; err != nil {
		config.LogError(logger, "sessionWorkflow.go", "EndSession", "UpdateSession", sessionID, err)
		return nil, nil, err
	}

	if err := tx.Model(&models.Resource{}).Where("id = ?", session.ResourceID).
		Update("is_available", true).Error; err != nil {
		config.LogError(logger, "sessionWorkflow.go", "EndSession", "FreeResource", session.ResourceID, err)
		return nil, nil, err
	}

	var invoice *models.Invoice
	if draft.Total > 0 {
		invoice, err = CreateInvoiceFromSession(tx, logger, session, draft, now)
		if err != nil {
			return nil, nil, err
		}
	}

	if err := tx.Model(&models.Customer{}).Where("id = ?", session.CustomerID).
		Update("total_sessions", gorm.Expr("total_sessions + 1")).Error; err != nil {
		config.LogError(logger, "sessionWorkflow.go", "EndSession", "BumpTotalSessions", session.CustomerID, err)
		return nil, nil, err
	}

	if _, err := RecomputeCustomerBalance(tx, logger, session.CustomerID); err != nil {
		return nil, nil, err
	}

	session.Status = models.SessionStatusCompleted
	session.EndedAt = &now
	session.SessionCost = draft.TimeCost
	session.TotalAmount = draft.Total
	return session, invoice, nil
}
