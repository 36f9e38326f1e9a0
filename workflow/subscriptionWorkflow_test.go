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

func TestPurchaseSubscription(t *testing.T) {
	db := setupTestDB(t)
	logger := testLogger()
	customer := createCustomer(t, db, "Ziad")

	sub, err := PurchaseSubscription(db, logger, customer.ID, models.PlanTypeWeekly, 20000, testStart, testStart)
	require.NoError(t, err)
	assert.True(t, sub.IsActive)
	assert.Equal(t, testStart.AddDate(0, 0, 7), sub.EndDate)
	require.NotNil(t, sub.InvoiceID)

	invoice, err := models.GetInvoiceById(db, *sub.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, finance.Money(20000), invoice.Total)
	assert.Equal(t, models.InvoiceStatusUnpaid, invoice.Status)
	require.Len(t, invoice.LineItems, 1)

	updated, err := models.GetCustomerById(db, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.PlanTypeWeekly), updated.CustomerType)
	assert.Equal(t, finance.Money(-20000), updated.Balance, "unpaid subscription invoice shows as debt")
}

func TestPurchaseSubscription_DeactivatesPrevious(t *testing.T) {
	db := setupTestDB(t)
	logger := testLogger()
	customer := createCustomer(t, db, "Nadia")

	first, err := PurchaseSubscription(db, logger, customer.ID, models.PlanTypeWeekly, 20000, testStart, testStart)
	require.NoError(t, err)
	second, err := PurchaseSubscription(db, logger, customer.ID, models.PlanTypeMonthly, 50000, testStart, testStart.Add(time.Hour))
	require.NoError(t, err)

	reloaded, err := models.GetSubscriptionById(db, first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
	assert.Equal(t, models.SubscriptionStatusInactive, reloaded.Status)

	count, err := models.CountActiveSubscriptions(db, customer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	assert.True(t, second.IsActive)
}

func TestPurchaseSubscription_UnknownPlan(t *testing.T) {
	db := setupTestDB(t)
	customer := createCustomer(t, db, "Fady")

	_, err := PurchaseSubscription(db, testLogger(), customer.ID, "yearly", 100000, testStart, testStart)
	require.ErrorIs(t, err, billing.ErrInvalidState)
}

func TestCancelSubscription_ResetsCustomerType(t *testing.T) {
	db := setupTestDB(t)
	logger := testLogger()
	customer := createCustomer(t, db, "Amira")

	sub, err := PurchaseSubscription(db, logger, customer.ID, models.PlanTypeHalfMonthly, 30000, testStart, testStart)
	require.NoError(t, err)

	require.NoError(t, CancelSubscription(db, logger, sub.ID))

	updated, err := models.GetCustomerById(db, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CustomerTypeVisitor, updated.CustomerType)
}

func TestReactivateSubscription(t *testing.T) {
	db := setupTestDB(t)
	logger := testLogger()
	customer := createCustomer(t, db, "Sami")

	sub, err := PurchaseSubscription(db, logger, customer.ID, models.PlanTypeMonthly, 50000, testStart, testStart)
	require.NoError(t, err)
	require.NoError(t, CancelSubscription(db, logger, sub.ID))

	// Within the window: allowed.
	require.NoError(t, ReactivateSubscription(db, logger, sub.ID, testStart.AddDate(0, 0, 10)))
	reloaded, err := models.GetSubscriptionById(db, sub.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsActive)

	// Past the window: refused.
	require.NoError(t, CancelSubscription(db, logger, sub.ID))
	err = ReactivateSubscription(db, logger, sub.ID, testStart.AddDate(0, 0, 40))
	require.ErrorIs(t, err, billing.ErrInvalidState)
}

func TestChangeSubscriptionPlan(t *testing.T) {
	db := setupTestDB(t)
	logger := testLogger()
	customer := createCustomer(t, db, "Heba")

	sub, err := PurchaseSubscription(db, logger, customer.ID, models.PlanTypeWeekly, 20000, testStart, testStart)
	require.NoError(t, err)

	require.NoError(t, ChangeSubscriptionPlan(db, logger, sub.ID, models.PlanTypeMonthly))

	reloaded, err := models.GetSubscriptionById(db, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanTypeMonthly, reloaded.PlanType)
	assert.Equal(t, testStart.AddDate(0, 0, 30), reloaded.EndDate)
}

func TestMarkExpiredSubscriptions(t *testing.T) {
	db := setupTestDB(t)
	logger := testLogger()
	customer := createCustomer(t, db, "Wael")

	sub, err := PurchaseSubscription(db, logger, customer.ID, models.PlanTypeWeekly, 20000, testStart, testStart)
	require.NoError(t, err)

	expired, err := MarkExpiredSubscriptions(db, logger, testStart.AddDate(0, 0, 8))
	require.NoError(t, err)
	assert.EqualValues(t, 1, expired)

	reloaded, err := models.GetSubscriptionById(db, sub.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
	assert.Equal(t, models.SubscriptionStatusExpired, reloaded.Status)
}

func TestCoverageFixedAtSessionStart(t *testing.T) {
	// A subscription expiring mid-session does not switch the session to
	// hourly billing: coverage is decided once, at start.
	db := setupTestDB(t)
	logger := testLogger()
	customer := createCustomer(t, db, "Ehab")
	resource := createResource(t, db, "Room 9", 4000)

	sub, err := PurchaseSubscription(db, logger, customer.ID, models.PlanTypeWeekly, 20000,
		testStart.AddDate(0, 0, -7), testStart.AddDate(0, 0, -7))
	require.NoError(t, err)
	// Ends right after the session starts.
	require.NoError(t, db.Model(&models.Subscription{}).Where("id = ?", sub.ID).
		Update("end_date", testStart.Add(30*time.Minute)).Error)

	session, err := StartSession(db, logger, customer.ID, resource.ID, testStart)
	require.NoError(t, err)
	require.True(t, session.IsSubscribed)

	_, err = MarkExpiredSubscriptions(db, logger, testStart.Add(time.Hour))
	require.NoError(t, err)

	ended, invoice, err := EndSession(db, logger, session.ID, testStart.Add(5*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, finance.Money(0), ended.SessionCost)
	assert.Nil(t, invoice)
}
