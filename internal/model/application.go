package model

import "time"

// Gender is the applicant gender as stored and served on the wire.
type Gender string

const (
	GenderMale   Gender = "남"
	GenderFemale Gender = "여"
	GenderOther  Gender = "기타"
)

// ParseGender normalizes the accepted spellings of a gender value.
func ParseGender(s string) (Gender, bool) {
	switch s {
	case "남", "남성", "male":
		return GenderMale, true
	case "여", "여성", "female":
		return GenderFemale, true
	case "기타", "other":
		return GenderOther, true
	}
	return "", false
}

// Status is the lifecycle state of an application.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusMatched   Status = "matched"
	StatusRejected  Status = "rejected"
)

// ParseStatus validates a status token.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusMatched, StatusRejected:
		return Status(s), true
	}
	return "", false
}

// Application represents a submitted reservation request.
type Application struct {
	ID              int64   `gorm:"primaryKey" json:"id"`
	Name            string  `gorm:"size:50;not null" json:"name"`
	Age             *int    `json:"age"`
	Gender          Gender  `gorm:"size:8;not null;index" json:"gender"`
	Phone           string  `gorm:"size:20;not null" json:"phone"`
	KakaoID         *string `gorm:"column:kakao_id;size:50" json:"kakaoId,omitempty"`
	Location        *string `gorm:"size:100" json:"location,omitempty"`
	PreferredGender *string `gorm:"size:50" json:"preferredGender,omitempty"`
	Note            *string `gorm:"size:500" json:"note,omitempty"`
	// DesiredDate is "YYYY-MM-DD", or nil when the applicant has no preference.
	DesiredDate *string   `gorm:"size:10;index" json:"desiredDate,omitempty"`
	Status      Status    `gorm:"size:16;not null;index" json:"status"`
	AdminNote   *string   `gorm:"size:500" json:"adminNote,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
}
