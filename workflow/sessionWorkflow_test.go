package workflow

import (
	"testing"
	"time"

	"github.com/backspacehq/backspace_backend/billing"
	"github.com/backspacehq/backspace_backend/finance"
	"github.com/backspacehq/backspace_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSession_OccupiesResource(t *testing.T) {
	db := setupTestDB(t)
	logger := testLogger()
	customer := createCustomer(t, db, "Mona")
	resource := createResource(t, db, "Desk 1", 2000)

	session, err := StartSession(db, logger, customer.ID, resource.ID, testStart)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusActive, session.Status)
	assert.Equal(t, finance.Money(2000), session.ResourceRate)
	assert.False(t, session.IsSubscribed)

	updated, err := models.GetResourceById(db, resource.ID)
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable, "resource must be occupied after start")

	// A second session on the same resource is refused.
	_, err = StartSession(db, logger, customer.ID, resource.ID, testStart.Add(time.Minute))
	require.ErrorIs(t, err, billing.ErrResourceUnavailable)
}

func TestStartSession_SnapshotsCoverage(t *testing.T) {
	db := setupTestDB(t)
	logger := testLogger()
	customer := createCustomer(t, db, "Omar")
	resource := createResource(t, db, "Room 1", 5000)

	sub := &models.Subscription{
		CustomerID: customer.ID,
		PlanType:   models.PlanTypeWeekly,
		Price:      20000,
		StartDate:  testStart.AddDate(0, 0, -1),
		EndDate:    testStart.AddDate(0, 0, 6),
		IsActive:   true,
		Status:     models.SubscriptionStatusActive,
	}
	require.NoError(t, db.Create(sub).Error)

	session, err := StartSession(db, logger, customer.ID, resource.ID, testStart)
	require.NoError(t, err)
	assert.True(t, session.IsSubscribed)
	require.NotNil(t, session.SubscriptionID)
	assert.Equal(t, sub.ID, *session.SubscriptionID)
}

func TestEndSession_FullScenario(t *testing.T) {
	// 20.00 EGP/h for 90 minutes plus one 15.00 EGP item -> 45.00 EGP invoice.
	db := setupTestDB(t)
	logger := testLogger()
	customer := createCustomer(t, db, "Hala")
	resource := createResource(t, db, "Desk 2", 2000)
	item := createInventoryItem(t, db, "Sandwich", 1500, 10)

	session, err := StartSession(db, logger, customer.ID, resource.ID, testStart)
	require.NoError(t, err)
	require.NoError(t, AddConsumption(db, logger, session.ID, item.ID, 1, testStart.Add(10*time.Minute)))

	ended, invoice, err := EndSession(db, logger, session.ID, testStart.Add(90*time.Minute))
	require.NoError(t, err)
	require.NotNil(t, invoice)

	assert.Equal(t, models.SessionStatusCompleted, ended.Status)
	assert.Equal(t, finance.Money(3000), ended.SessionCost)
	assert.Equal(t, finance.Money(4500), ended.TotalAmount)
	assert.Equal(t, finance.Money(4500), invoice.Total)
	assert.Equal(t, models.InvoiceStatusUnpaid, invoice.Status)
	assert.Len(t, invoice.LineItems, 2)

	freed, err := models.GetResourceById(db, resource.ID)
	require.NoError(t, err)
	assert.True(t, freed.IsAvailable, "resource must be freed atomically with close")

	// Stock was deducted when the item was attached.
	stocked, err := models.GetInventoryItemById(db, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, stocked.Quantity)

	// Balance reflects the unpaid invoice.
	updated, err := models.GetCustomerById(db, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.Money(-4500), updated.Balance)
	assert.Equal(t, 1, updated.TotalSessions)
}

func TestEndSession_CoveredSessionWithoutInventorySkipsInvoice(t *testing.T) {
	db := setupTestDB(t)
	logger := testLogger()
	customer := createCustomer(t, db, "Nour")
	resource := createResource(t, db, "Desk 3", 2000)

	sub := &models.Subscription{
		CustomerID: customer.ID,
		PlanType:   models.PlanTypeMonthly,
		Price:      50000,
		StartDate:  testStart.AddDate(0, 0, -5),
		EndDate:    testStart.AddDate(0, 0, 25),
		IsActive:   true,
		Status:     models.SubscriptionStatusActive,
	}
	require.NoError(t, db.Create(sub).Error)

	session, err := StartSession(db, logger, customer.ID, resource.ID, testStart)
	require.NoError(t, err)

	_, invoice, err := EndSession(db, logger, session.ID, testStart.Add(5*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, invoice, "zero-amount session must not produce an invoice")
}

func TestEndSession_CoveredSessionStillChargesInventory(t *testing.T) {
	db := setupTestDB(t)
	logger := testLogger()
	customer := createCustomer(t, db, "Youssef")
	resource := createResource(t, db, "Desk 4", 2000)
	item := createInventoryItem(t, db, "Cola", 1000, 5)

	sub := &models.Subscription{
		CustomerID: customer.ID,
		PlanType:   models.PlanTypeMonthly,
		Price:      50000,
		StartDate:  testStart.AddDate(0, 0, -5),
		EndDate:    testStart.AddDate(0, 0, 25),
		IsActive:   true,
		Status:     models.SubscriptionStatusActive,
	}
	require.NoError(t, db.Create(sub).Error)

	session, err := StartSession(db, logger, customer.ID, resource.ID, testStart)
	require.NoError(t, err)
	require.NoError(t, AddConsumption(db, logger, session.ID, item.ID, 2, testStart.Add(time.Minute)))

	ended, invoice, err := EndSession(db, logger, session.ID, testStart.Add(6*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, invoice)

	assert.Equal(t, finance.Money(0), ended.SessionCost)
	assert.Equal(t, finance.Money(2000), invoice.Total)
	assert.Len(t, invoice.LineItems, 1, "covered session invoice carries inventory lines only")
}

func TestEndSession_AlreadyClosed(t *testing.T) {
	db := setupTestDB(t)
	logger := testLogger()
	customer := createCustomer(t, db, "Salma")
	resource := createResource(t, db, "Desk 5", 1000)

	session, err := StartSession(db, logger, customer.ID, resource.ID, testStart)
	require.NoError(t, err)
	_, _, err = EndSession(db, logger, session.ID, testStart.Add(time.Hour))
	require.NoError(t, err)

	_, _, err = EndSession(db, logger, session.ID, testStart.Add(2*time.Hour))
	require.ErrorIs(t, err, billing.ErrInvalidState)
}

func TestEndSession_EndBeforeStart(t *testing.T) {
	db := setupTestDB(t)
	logger := testLogger()
	customer := createCustomer(t, db, "Adel")
	resource := createResource(t, db, "Desk 6", 1000)

	session, err := StartSession(db, logger, customer.ID, resource.ID, testStart)
	require.NoError(t, err)

	_, _, err = EndSession(db, logger, session.ID, testStart.Add(-time.Minute))
	require.ErrorIs(t, err, finance.ErrInvalidAmount)

	// Failed close must leave the resource occupied and the session active.
	res, err := models.GetResourceById(db, resource.ID)
	require.NoError(t, err)
	assert.False(t, res.IsAvailable)
}

func TestConsumptionLifecycle(t *testing.T) {
	db := setupTestDB(t)
	logger := testLogger()
	customer := createCustomer(t, db, "Farida")
	resource := createResource(t, db, "Desk 7", 1000)
	item := createInventoryItem(t, db, "Tea", 500, 10)

	session, err := StartSession(db, logger, customer.ID, resource.ID, testStart)
	require.NoError(t, err)

	require.NoError(t, AddConsumption(db, logger, session.ID, item.ID, 3, testStart))
	reloaded, err := models.GetSessionById(db, session.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.InventoryConsumptions, 1)
	assert.Equal(t, finance.Money(1500), reloaded.InventoryTotal)

	consumptionID := reloaded.InventoryConsumptions[0].ID

	// Raise quantity: stock shrinks by the difference.
	require.NoError(t, UpdateConsumption(db, logger, session.ID, consumptionID, 5))
	stocked, err := models.GetInventoryItemById(db, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stocked.Quantity)

	// Lower quantity: stock is restored.
	require.NoError(t, UpdateConsumption(db, logger, session.ID, consumptionID, 1))
	stocked, err = models.GetInventoryItemById(db, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, stocked.Quantity)

	// Remove entirely.
	require.NoError(t, RemoveConsumption(db, logger, session.ID, consumptionID))
	stocked, err = models.GetInventoryItemById(db, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stocked.Quantity)

	reloaded, err = models.GetSessionById(db, session.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.Money(0), reloaded.InventoryTotal)
	assert.Empty(t, reloaded.InventoryConsumptions)
}

func TestAddConsumption_InsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	logger := testLogger()
	customer := createCustomer(t, db, "Karim")
	resource := createResource(t, db, "Desk 8", 1000)
	item := createInventoryItem(t, db, "Juice", 800, 2)

	session, err := StartSession(db, logger, customer.ID, resource.ID, testStart)
	require.NoError(t, err)

	err = AddConsumption(db, logger, session.ID, item.ID, 5, testStart)
	require.ErrorIs(t, err, billing.ErrInvalidState)

	stocked, err := models.GetInventoryItemById(db, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stocked.Quantity, "failed attach must not touch stock")
}
