package models

import (
	"time"

	"github.com/backspacehq/backspace_backend/finance"
	"gorm.io/gorm"
)

// Payment is the record of one amount applied against one invoice. It is
// written once by the payment workflow and never mutated afterwards.
type Payment struct {
	BaseModel
	InvoiceID string        `json:"invoiceId" gorm:"not null;index"`
	Amount    finance.Money `json:"amount" gorm:"not null;check:amount > 0"`
	Method    PaymentMethod `json:"method" gorm:"not null"`
	Date      time.Time     `json:"date" gorm:"not null"`
	Notes     string        `json:"notes"`
}

func GetInvoicePayments(tx *gorm.DB, invoiceID string) ([]Payment, error) {
	var payments []Payment
	if err := tx.Where("invoice_id = ?", invoiceID).
		Order("date asc").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// SumPaymentsSince totals payments recorded on or after the given instant,
// used by the dashboard's today-revenue metric.
func SumPaymentsSince(tx *gorm.DB, since time.Time) (finance.Money, error) {
	var total *int64
	err := tx.Model(&Payment{}).
		Where("date >= ?", since).
		Select("SUM(amount)").Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return finance.Money(*total), nil
}
