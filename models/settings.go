package models

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"
)

// AppSettings stores the operator settings as one JSON blob in a single row.
type AppSettings struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	Settings string `json:"settings"`
}

// CompanySettings identify the venue on printed invoices.
type CompanySettings struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// RegionalSettings hold display conventions. Amounts stay in piasters
// internally regardless of the configured currency.
type RegionalSettings struct {
	Currency       string `json:"currency"`
	CurrencySymbol string `json:"currencySymbol"`
	Timezone       string `json:"timezone"`
	DateFormat     string `json:"dateFormat"`
}

type Settings struct {
	Company  CompanySettings  `json:"company"`
	Regional RegionalSettings `json:"regional"`
}

// GetSettings returns the stored settings, or zero-value defaults when none
// have been saved yet.
func GetSettings(tx *gorm.DB) (*Settings, error) {
	var row AppSettings
	if err := tx.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Settings{}, nil
		}
		return nil, err
	}
	var settings Settings
	if err := json.Unmarshal([]byte(row.Settings), &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func UpdateSettings(tx *gorm.DB, settings *Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	var row AppSettings
	if err := tx.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&AppSettings{Settings: string(raw)}).Error
		}
		return err
	}
	return tx.Model(&row).Update("settings", string(raw)).Error
}
