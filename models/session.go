package models

import (
	"time"

	"github.com/backspacehq/backspace_backend/finance"
	"gorm.io/gorm"
)

// Session model. Rate, daily cap and subscription coverage are snapshotted at
// start so a running session is unaffected by later rate edits or
// subscription expiry. A session is a live entity only while active; once
// completed it survives as history behind the invoice generated from it.
type Session struct {
	BaseModel
	CustomerID            string                 `json:"customerId" gorm:"not null;index"`
	Customer              Customer               `json:"-"`
	CustomerName          string                 `json:"customerName" gorm:"-"`
	ResourceID            string                 `json:"resourceId" gorm:"not null;index"`
	Resource              Resource               `json:"-"`
	ResourceName          string                 `json:"resourceName" gorm:"-"`
	ResourceRate          finance.Money          `json:"resourceRate" gorm:"not null;default:0;check:resource_rate >= 0"`
	ResourceMaxPrice      finance.Money          `json:"resourceMaxPrice" gorm:"not null;default:0;check:resource_max_price >= 0"`
	StartedAt             time.Time              `json:"startedAt" gorm:"not null"`
	EndedAt               *time.Time             `json:"endedAt"`
	IsSubscribed          bool                   `json:"isSubscribed" gorm:"not null;default:false"`
	SubscriptionID        *string                `json:"subscriptionId"`
	InventoryConsumptions []InventoryConsumption `json:"inventoryConsumptions" gorm:"foreignKey:SessionID"`
	InventoryTotal        finance.Money          `json:"inventoryTotal" gorm:"not null;default:0;check:inventory_total >= 0"`
	SessionCost           finance.Money          `json:"sessionCost" gorm:"not null;default:0;check:session_cost >= 0"`
	TotalAmount           finance.Money          `json:"totalAmount" gorm:"not null;default:0;check:total_amount >= 0"`
	DurationMinutes       int                    `json:"durationMinutes" gorm:"-"`
	Status                SessionStatus          `json:"status" gorm:"not null;default:'active'"`
}

func GetSessionById(tx *gorm.DB, id string) (*Session, error) {
	var session Session
	if err := tx.Preload("InventoryConsumptions").
		First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func GetActiveSessions(tx *gorm.DB) ([]Session, error) {
	var sessions []Session
	if err := tx.Preload("InventoryConsumptions").
		Where("status = ?", SessionStatusActive).
		Order("started_at asc").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
