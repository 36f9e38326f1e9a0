package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/backspacehq/backspace_backend/models"
	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

func GetDB() *gorm.DB {
	return db
}

// SetDB swaps the global handle; used by tests with an in-memory database.
func SetDB(d *gorm.DB) {
	db = d
}

func init() {
	// Load env from .env. Missing file is fine.
	godotenv.Load()
}

// DatabasePath resolves the sqlite file location: DB_PATH env override, else
// a "backspace" directory under the OS config dir.
func DatabasePath() string {
	if p := os.Getenv("DB_PATH"); p != "" {
		return p
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatal("failed to get user config directory:", err)
	}
	appDir := filepath.Join(configDir, "backspace")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		log.Fatal("failed to create app directory:", err)
	}
	return filepath.Join(appDir, "backspace.db")
}

// ConnectDatabase opens the sqlite database, tunes it for a single-process
// deployment and runs migrations. Call from main() before serving.
func ConnectDatabase() {
	dbPath := DatabasePath()

	logMode := logger.Warn
	if os.Getenv("DB_LOG_QUERIES") == "true" {
		logMode = logger.Info
	}

	var err error
	db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get generic database object:", err)
	}
	// sqlite: a single writer connection avoids "database is locked" errors
	// and gives the per-customer posting lock real mutual exclusion.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	// WAL keeps reads non-blocking; busy_timeout waits instead of failing.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys = ON;",
	} {
		if err := db.Exec(pragma).Error; err != nil {
			log.Printf("error applying %q: %v", pragma, err)
		}
	}

	if err := Migrate(db); err != nil {
		log.Fatal("failed to migrate database:", err)
	}
}

// Migrate runs the schema migration for every entity.
func Migrate(d *gorm.DB) error {
	return d.AutoMigrate(
		&models.Customer{},
		&models.BalanceAdjustment{},
		&models.Resource{},
		&models.Subscription{},
		&models.InventoryItem{},
		&models.Session{},
		&models.InventoryConsumption{},
		&models.Invoice{},
		&models.LineItem{},
		&models.Payment{},
		&models.AppSettings{},
	)
}

// CloseDatabase gracefully closes the database connection
func CloseDatabase() error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InvoiceDueDays is the policy offset between invoice creation and due date.
func InvoiceDueDays() int {
	if v := os.Getenv("INVOICE_DUE_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return 7
}
