// Command seed-dev populates a development database with a small realistic
// dataset: resources, customers, inventory, a subscription and a few settled
// and outstanding invoices. It is destructive only in the sense that it adds
// rows; run it against a fresh DB_PATH.
package main

import (
	"time"

	"github.com/backspacehq/backspace_backend/config"
	"github.com/backspacehq/backspace_backend/finance"
	"github.com/backspacehq/backspace_backend/models"
	"github.com/backspacehq/backspace_backend/utils"
	"github.com/backspacehq/backspace_backend/workflow"
	"gorm.io/gorm"
)

func main() {
	logger := config.GetLogger()

	config.ConnectDatabase()
	defer config.CloseDatabase()

	db := config.GetDB()
	now := time.Now()

	err := db.Transaction(func(tx *gorm.DB) error {
		resources := []models.Resource{
			{Name: "Seat 1", ResourceType: models.ResourceTypeSeat, RatePerHour: 2000, MaxPrice: 12000, IsAvailable: true},
			{Name: "Seat 2", ResourceType: models.ResourceTypeSeat, RatePerHour: 2000, MaxPrice: 12000, IsAvailable: true},
			{Name: "Meeting Room A", ResourceType: models.ResourceTypeRoom, RatePerHour: 10000, MaxPrice: 0, IsAvailable: true},
			{Name: "Desk 3", ResourceType: models.ResourceTypeDesk, RatePerHour: 3500, MaxPrice: 20000, IsAvailable: true},
		}
		for i := range resources {
			if err := tx.Create(&resources[i]).Error; err != nil {
				return err
			}
		}

		items := []models.InventoryItem{
			{Name: "Espresso", Category: "beverage", Price: 2500, Quantity: 80, MinStock: 10},
			{Name: "Turkish Coffee", Category: "beverage", Price: 2000, Quantity: 60, MinStock: 10},
			{Name: "Water 600ml", Category: "beverage", Price: 700, Quantity: 120, MinStock: 24},
			{Name: "Croissant", Category: "snack", Price: 3000, Quantity: 25, MinStock: 5},
		}
		for i := range items {
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}

		nada := models.Customer{
			HumanID: utils.ShortHumanID(), Name: "Nada Ibrahim", Phone: "+201001234567",
			CustomerType: models.CustomerTypeVisitor,
		}
		omar := models.Customer{
			HumanID: utils.ShortHumanID(), Name: "Omar Khaled", Phone: "+201119876543",
			CustomerType: models.CustomerTypeVisitor,
		}
		for _, c := range []*models.Customer{&nada, &omar} {
			if err := tx.Create(c).Error; err != nil {
				return err
			}
		}

		// Omar holds a monthly plan so seeded sessions exercise coverage.
		if _, err := workflow.PurchaseSubscription(tx, logger, omar.ID, models.PlanTypeMonthly, 150000, now.AddDate(0, 0, -10), now.AddDate(0, 0, -10)); err != nil {
			return err
		}

		// A finished visitor session from yesterday, paid in full.
		start := now.AddDate(0, 0, -1).Add(-90 * time.Minute)
		session, err := workflow.StartSession(tx, logger, nada.ID, resources[0].ID, start)
		if err != nil {
			return err
		}
		if err := workflow.AddConsumption(tx, logger, session.ID, items[0].ID, 1, start.Add(20*time.Minute)); err != nil {
			return err
		}
		_, invoice, err := workflow.EndSession(tx, logger, session.ID, start.Add(90*time.Minute))
		if err != nil {
			return err
		}
		if invoice != nil {
			if _, err := workflow.ProcessPayment(tx, logger, invoice.ID, invoice.Total, models.PaymentMethodCash, now.AddDate(0, 0, -1), "seed"); err != nil {
				return err
			}
		}

		// An outstanding invoice so the list views show open balances.
		start = now.Add(-3 * time.Hour)
		session, err = workflow.StartSession(tx, logger, nada.ID, resources[1].ID, start)
		if err != nil {
			return err
		}
		if _, _, err := workflow.EndSession(tx, logger, session.ID, start.Add(2*time.Hour)); err != nil {
			return err
		}

		// A covered session currently running on the subscription.
		if _, err := workflow.StartSession(tx, logger, omar.ID, resources[3].ID, now.Add(-45*time.Minute)); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		logger.WithError(err).Fatal("seed-dev: seeding failed")
	}

	var customers, invoices int64
	db.Model(&models.Customer{}).Count(&customers)
	db.Model(&models.Invoice{}).Count(&invoices)
	logger.WithField("customers", customers).
		WithField("invoices", invoices).
		WithField("rate", finance.FormatEGP(2000)).
		Info("seed-dev: done")
}
