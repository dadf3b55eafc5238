package model

import "time"

// WeekdaySetting is a capacity override for a day of week, 0=Sunday..6=Saturday.
type WeekdaySetting struct {
	Weekday   int       `gorm:"primaryKey" json:"weekday"`
	MaxMale   *int      `json:"maxMale"`
	MaxFemale *int      `json:"maxFemale"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`
}
