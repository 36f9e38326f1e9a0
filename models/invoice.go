package models

import (
	"time"

	"github.com/backspacehq/backspace_backend/finance"
	"gorm.io/gorm"
)

// Invoice model. Invariants enforced by the billing core on every mutation:
// Total == sum of line item amounts, 0 <= PaidAmount <= Total, Status is paid
// iff PaidAmount == Total. Total is immutable once the invoice is issued.
type Invoice struct {
	BaseModel
	InvoiceNumber string        `json:"invoiceNumber" gorm:"uniqueIndex"`
	CustomerID    string        `json:"customerId" gorm:"not null;index"`
	Customer      Customer      `json:"-"`
	CustomerName  string        `json:"customerName" gorm:"-"`
	SessionID     *string       `json:"sessionId"`
	Total         finance.Money `json:"total" gorm:"not null;default:0;check:total >= 0"`
	PaidAmount    finance.Money `json:"paidAmount" gorm:"not null;default:0;check:paid_amount >= 0"`
	Status        InvoiceStatus `json:"status" gorm:"not null;default:'unpaid'"`
	DueDate       time.Time     `json:"dueDate" gorm:"not null"`
	PaidDate      *time.Time    `json:"paidDate"`
	LineItems     []LineItem    `json:"lineItems" gorm:"foreignKey:InvoiceID"`
	Payments      []Payment     `json:"payments" gorm:"foreignKey:InvoiceID"`
}

// Outstanding is the unpaid remainder of the invoice.
func (i *Invoice) Outstanding() finance.Money {
	return i.Total - i.PaidAmount
}

// LineItem model
type LineItem struct {
	BaseModel
	InvoiceID   string        `json:"invoiceId" gorm:"not null;index"`
	Description string        `json:"description" gorm:"not null"`
	Quantity    int           `json:"quantity" gorm:"not null;default:1;check:quantity > 0"`
	Rate        finance.Money `json:"rate" gorm:"not null;default:0;check:rate >= 0"`
	Amount      finance.Money `json:"amount" gorm:"not null;default:0;check:amount >= 0"`
}

func GetInvoiceById(tx *gorm.DB, id string) (*Invoice, error) {
	var invoice Invoice
	if err := tx.Preload("LineItems").First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func GetInvoicesByIds(tx *gorm.DB, ids []string) ([]*Invoice, error) {
	var invoices []*Invoice
	if err := tx.Where("id IN ?", ids).Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func GetInvoices(tx *gorm.DB) ([]Invoice, error) {
	var invoices []Invoice
	if err := tx.Preload("LineItems").Preload("Payments").
		Order("created_at desc").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// GetCustomerInvoices returns every non-deleted invoice of a customer, the
// input set for balance derivation.
func GetCustomerInvoices(tx *gorm.DB, customerID string) ([]Invoice, error) {
	var invoices []Invoice
	if err := tx.Where("customer_id = ?", customerID).
		Order("due_date asc, created_at asc").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// GetInvoicesPaginated returns one page of invoices, optionally filtered by
// status, with search over invoice number.
func GetInvoicesPaginated(tx *gorm.DB, params PaginationParams, status InvoiceStatus) (*PaginatedResult[Invoice], error) {
	params.Normalize()

	query := tx.Model(&Invoice{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if params.Search != "" {
		query = query.Where("invoice_number LIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var invoices []Invoice
	if err := query.Preload("LineItems").Preload("Payments").
		Order("created_at desc").
		Offset((params.Page - 1) * params.PageSize).
		Limit(params.PageSize).
		Find(&invoices).Error; err != nil {
		return nil, err
	}

	return &PaginatedResult[Invoice]{
		Items:      invoices,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages(total, params.PageSize),
	}, nil
}
