package models

import (
	"math"
	"time"

	"github.com/backspacehq/backspace_backend/finance"
	"gorm.io/gorm"
)

// Subscription model. Price snapshots the plan price at purchase time.
type Subscription struct {
	BaseModel
	CustomerID    string             `json:"customerId" gorm:"not null;index"`
	CustomerName  string             `json:"customerName" gorm:"-"`
	PlanType      PlanType           `json:"planType" gorm:"not null"`
	Price         finance.Money      `json:"price" gorm:"not null;check:price >= 0"`
	StartDate     time.Time          `json:"startDate" gorm:"not null"`
	EndDate       time.Time          `json:"endDate" gorm:"not null"`
	IsActive      bool               `json:"isActive" gorm:"not null;default:false"`
	Status        SubscriptionStatus `json:"status" gorm:"not null;default:'inactive'"`
	InvoiceID     *string            `json:"invoiceId"`
	DaysRemaining int                `json:"daysRemaining" gorm:"-"`
}

// ActiveAt reports whether the subscription covers the given instant:
// inside [StartDate, EndDate] and not deactivated.
func (s *Subscription) ActiveAt(now time.Time) bool {
	return s.IsActive && !now.Before(s.StartDate) && !now.After(s.EndDate)
}

// ComputeDaysRemaining fills the derived DaysRemaining field:
// max(0, ceil(EndDate - now in days)).
func (s *Subscription) ComputeDaysRemaining(now time.Time) {
	left := s.EndDate.Sub(now)
	if left <= 0 {
		s.DaysRemaining = 0
		return
	}
	s.DaysRemaining = int(math.Ceil(left.Hours() / 24))
}

func GetSubscriptionById(tx *gorm.DB, id string) (*Subscription, error) {
	var sub Subscription
	if err := tx.First(&sub, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func GetSubscriptions(tx *gorm.DB) ([]Subscription, error) {
	var subs []Subscription
	if err := tx.Order("created_at desc").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// GetActiveSubscriptions returns the customer's subscriptions currently
// flagged active, for coverage resolution at session start.
func GetActiveSubscriptions(tx *gorm.DB, customerID string) ([]Subscription, error) {
	var subs []Subscription
	if err := tx.Where("customer_id = ? AND is_active = ?", customerID, true).
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func CountActiveSubscriptions(tx *gorm.DB, customerID string) (int64, error) {
	var count int64
	err := tx.Model(&Subscription{}).
		Where("customer_id = ? AND is_active = ?", customerID, true).
		Count(&count).Error
	return count, err
}
