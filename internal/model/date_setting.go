package model

import "time"

// DateSetting is a capacity override for one calendar date.
// A nil max field defers that gender's limit to the configured default.
type DateSetting struct {
	Date      string    `gorm:"primaryKey;size:10" json:"date"`
	MaxMale   *int      `json:"maxMale"`
	MaxFemale *int      `json:"maxFemale"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`
}
