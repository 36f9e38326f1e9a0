package models

import (
	"time"

	"github.com/backspacehq/backspace_backend/finance"
	"gorm.io/gorm"
)

// InventoryItem model
type InventoryItem struct {
	BaseModel
	Name     string        `json:"name" gorm:"not null"`
	Category string        `json:"category" gorm:"not null"` // beverage, snack, other
	Price    finance.Money `json:"price" gorm:"not null;check:price >= 0"`
	Quantity int           `json:"quantity" gorm:"not null;default:0;check:quantity >= 0"`
	MinStock int           `json:"minStock" gorm:"not null;default:0;check:min_stock >= 0"`
}

// InventoryConsumption records items consumed during a session. Price is a
// snapshot of the item price at the time of consumption.
type InventoryConsumption struct {
	BaseModel
	SessionID string        `json:"sessionId" gorm:"not null;index"`
	ItemID    string        `json:"itemId" gorm:"not null;index"`
	ItemName  string        `json:"itemName" gorm:"not null"`
	Quantity  int           `json:"quantity" gorm:"not null;check:quantity > 0"`
	Price     finance.Money `json:"price" gorm:"not null;check:price >= 0"`
	AddedAt   time.Time     `json:"addedAt" gorm:"not null"`
}

// Cost is the charge this consumption contributes to the session.
func (c *InventoryConsumption) Cost() finance.Money {
	return c.Price * finance.Money(c.Quantity)
}

func GetInventoryItemById(tx *gorm.DB, id string) (*InventoryItem, error) {
	var item InventoryItem
	if err := tx.First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func GetInventory(tx *gorm.DB) ([]InventoryItem, error) {
	var items []InventoryItem
	if err := tx.Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
