package models

import (
	"github.com/backspacehq/backspace_backend/finance"
	"gorm.io/gorm"
)

// Customer model. Balance is a cached derivation over the customer's invoice
// set plus manual adjustments (see workflow.RecomputeCustomerBalance); it is
// never the source of truth. Negative = owes, positive = stored credit.
type Customer struct {
	BaseModel
	HumanID       string         `json:"humanId" gorm:"uniqueIndex;not null"`
	Name          string         `json:"name" gorm:"not null"`
	Phone         string         `json:"phone" gorm:"not null"`
	Email         *string        `json:"email"`
	CustomerType  string         `json:"customerType" gorm:"not null;default:'visitor'"`
	Balance       finance.Money  `json:"balance" gorm:"not null;default:0"`
	Notes         *string        `json:"notes"`
	TotalSessions int            `json:"totalSessions" gorm:"not null;default:0;check:total_sessions >= 0"`
	TotalSpent    finance.Money  `json:"totalSpent" gorm:"not null;default:0;check:total_spent >= 0"`
	Subscriptions []Subscription `json:"subscriptions" gorm:"foreignKey:CustomerID"`
	Invoices      []Invoice      `json:"invoices" gorm:"foreignKey:CustomerID"`
}

func GetCustomerById(tx *gorm.DB, id string) (*Customer, error) {
	var customer Customer
	if err := tx.First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func GetCustomers(tx *gorm.DB) ([]Customer, error) {
	var customers []Customer
	if err := tx.Preload("Subscriptions").Preload("Invoices").
		Order("created_at desc").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// GetCustomersPaginated returns one page of customers with search support
// over name, phone and human id.
func GetCustomersPaginated(tx *gorm.DB, params PaginationParams) (*PaginatedResult[Customer], error) {
	params.Normalize()

	query := tx.Model(&Customer{})
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ? OR human_id LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var customers []Customer
	if err := query.Order("created_at desc").
		Offset((params.Page - 1) * params.PageSize).
		Limit(params.PageSize).
		Find(&customers).Error; err != nil {
		return nil, err
	}

	return &PaginatedResult[Customer]{
		Items:      customers,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages(total, params.PageSize),
	}, nil
}

// FindCustomerDuplicate looks for an existing customer with the same name or
// phone, used to warn before creating a near-duplicate record.
func FindCustomerDuplicate(tx *gorm.DB, name, phone string) (*Customer, error) {
	var customer Customer
	err := tx.Where("name = ? OR phone = ?", name, phone).First(&customer).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// BalanceAdjustment is a manual signed correction to a customer's balance
// (prepaid deposit, anomalous withdrawal). It participates in balance
// derivation alongside invoice outstanding amounts.
type BalanceAdjustment struct {
	BaseModel
	CustomerID string        `json:"customerId" gorm:"not null;index"`
	Amount     finance.Money `json:"amount" gorm:"not null"`
	Reason     string        `json:"reason" gorm:"not null"`
}

func GetBalanceAdjustments(tx *gorm.DB, customerID string) ([]BalanceAdjustment, error) {
	var adjustments []BalanceAdjustment
	if err := tx.Where("customer_id = ?", customerID).
		Order("created_at asc").Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}
