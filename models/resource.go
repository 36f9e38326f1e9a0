package models

import (
	"github.com/backspacehq/backspace_backend/finance"
	"gorm.io/gorm"
)

// Resource model. IsAvailable is owned by the session lifecycle: only
// workflow.StartSession flips it to false and workflow.EndSession back to
// true. No other code path may write it.
type Resource struct {
	BaseModel
	Name         string        `json:"name" gorm:"not null"`
	ResourceType ResourceType  `json:"resourceType" gorm:"not null"`
	RatePerHour  finance.Money `json:"ratePerHour" gorm:"not null;check:rate_per_hour >= 0"`
	MaxPrice     finance.Money `json:"maxPrice" gorm:"not null;default:0;check:max_price >= 0"` // daily cap, 0 = no cap
	IsAvailable  bool          `json:"isAvailable" gorm:"not null;default:true"`
}

func GetResourceById(tx *gorm.DB, id string) (*Resource, error) {
	var resource Resource
	if err := tx.First(&resource, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &resource, nil
}

func GetResources(tx *gorm.DB) ([]Resource, error) {
	var resources []Resource
	if err := tx.Order("name asc").Find(&resources).Error; err != nil {
		return nil, err
	}
	return resources, nil
}
