package workflow

import (
	"io"
	"testing"
	"time"

	"github.com/backspacehq/backspace_backend/config"
	"github.com/backspacehq/backspace_backend/finance"
	"github.com/backspacehq/backspace_backend/models"
	"github.com/backspacehq/backspace_backend/utils"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testStart = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "failed to open test database")
	db.Exec("PRAGMA foreign_keys = ON;")

	require.NoError(t, config.Migrate(db))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func createCustomer(t *testing.T, db *gorm.DB, name string) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		HumanID: utils.ShortHumanID(),
		Name:    name,
		Phone:   "01000000000",
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func createResource(t *testing.T, db *gorm.DB, name string, rate finance.Money) *models.Resource {
	t.Helper()
	resource := &models.Resource{
		Name:         name,
		ResourceType: models.ResourceTypeDesk,
		RatePerHour:  rate,
		IsAvailable:  true,
	}
	require.NoError(t, db.Create(resource).Error)
	return resource
}

func createInventoryItem(t *testing.T, db *gorm.DB, name string, price finance.Money, stock int) *models.InventoryItem {
	t.Helper()
	item := &models.InventoryItem{
		Name:     name,
		Category: "beverage",
		Price:    price,
		Quantity: stock,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}
