package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"meeting-reservation-backend/internal/capacity"
	"meeting-reservation-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	CreateApplication(ctx context.Context, app *model.Application) error
	ListApplications(ctx context.Context, f ApplicationFilter) ([]model.Application, error)
	UpdateApplicationStatus(ctx context.Context, id int64, status model.Status, adminNote *string) error
	DeleteApplication(ctx context.Context, id int64) error

	GetDateSetting(ctx context.Context, date string) (*model.DateSetting, error)
	GetWeekdaySetting(ctx context.Context, weekday int) (*model.WeekdaySetting, error)
	ListDateSettings(ctx context.Context, start, end string) ([]model.DateSetting, error)
	ListWeekdaySettings(ctx context.Context) ([]model.WeekdaySetting, error)
	UpsertDateSetting(ctx context.Context, setting *model.DateSetting) error
	UpsertWeekdaySetting(ctx context.Context, setting *model.WeekdaySetting) error
	DeleteDateSetting(ctx context.Context, date string) error
	DeleteWeekdaySetting(ctx context.Context, weekday int) error

	UpsertPushSubscription(ctx context.Context, sub *model.PushSubscription) error
	DeletePushSubscription(ctx context.Context, endpoint string) error

	CountConfirmed(ctx context.Context, date string) (capacity.Tally, error)
	CountConfirmedByDate(ctx context.Context, start, end string) (map[string]capacity.Tally, error)
	CountAllByDate(ctx context.Context, start, end string) (map[string]GenderBreakdown, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying handle for callers with one-off needs.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// CreateApplication inserts a new application row.
func (s *gormStore) CreateApplication(ctx context.Context, app *model.Application) error {
	if err := s.db.WithContext(ctx).Create(app).Error; err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// ListApplications returns applications, newest first, matching the filter.
func (s *gormStore) ListApplications(ctx context.Context, f ApplicationFilter) ([]model.Application, error) {
	q := s.db.WithContext(ctx).Model(&model.Application{})
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		q = q.Where("created_at < ?", *f.CreatedTo)
	}

	var apps []model.Application
	if err := q.Order("created_at DESC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// UpdateApplicationStatus sets the status (and optionally the admin note) of
// one application. Returns gorm.ErrRecordNotFound when the id does not exist.
func (s *gormStore) UpdateApplicationStatus(ctx context.Context, id int64, status model.Status, adminNote *string) error {
	updates := map[string]any{"status": status}
	if adminNote != nil {
		updates["admin_note"] = *adminNote
	}

	res := s.db.WithContext(ctx).Model(&model.Application{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update application %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteApplication removes one application row.
func (s *gormStore) DeleteApplication(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Application{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete application %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetDateSetting returns the override row for a date, or nil when none exists.
func (s *gormStore) GetDateSetting(ctx context.Context, date string) (*model.DateSetting, error) {
	var setting model.DateSetting
	err := s.db.WithContext(ctx).First(&setting, "date = ?", date).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch date setting %s: %w", date, err)
	}
	return &setting, nil
}

// GetWeekdaySetting returns the override row for a weekday, or nil when none exists.
func (s *gormStore) GetWeekdaySetting(ctx context.Context, weekday int) (*model.WeekdaySetting, error) {
	var setting model.WeekdaySetting
	err := s.db.WithContext(ctx).First(&setting, "weekday = ?", weekday).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weekday setting %d: %w", weekday, err)
	}
	return &setting, nil
}

// ListDateSettings returns the date overrides inside [start, end).
func (s *gormStore) ListDateSettings(ctx context.Context, start, end string) ([]model.DateSetting, error) {
	var settings []model.DateSetting
	if err := s.db.WithContext(ctx).
		Where("date >= ? AND date < ?", start, end).
		Order("date").
		Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to list date settings: %w", err)
	}
	return settings, nil
}

// ListWeekdaySettings returns all weekday overrides.
func (s *gormStore) ListWeekdaySettings(ctx context.Context) ([]model.WeekdaySetting, error) {
	var settings []model.WeekdaySetting
	if err := s.db.WithContext(ctx).Order("weekday").Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to list weekday settings: %w", err)
	}
	return settings, nil
}

// UpsertDateSetting replaces the override row for the setting's date.
func (s *gormStore) UpsertDateSetting(ctx context.Context, setting *model.DateSetting) error {
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"max_male", "max_female", "updated_at"}),
	}).Create(setting).Error; err != nil {
		return fmt.Errorf("failed to upsert date setting %s: %w", setting.Date, err)
	}
	return nil
}

// UpsertWeekdaySetting replaces the override row for the setting's weekday.
func (s *gormStore) UpsertWeekdaySetting(ctx context.Context, setting *model.WeekdaySetting) error {
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "weekday"}},
		DoUpdates: clause.AssignmentColumns([]string{"max_male", "max_female", "updated_at"}),
	}).Create(setting).Error; err != nil {
		return fmt.Errorf("failed to upsert weekday setting %d: %w", setting.Weekday, err)
	}
	return nil
}

// DeleteDateSetting removes the override for a date so resolution falls
// through to the weekday/default tiers.
func (s *gormStore) DeleteDateSetting(ctx context.Context, date string) error {
	if err := s.db.WithContext(ctx).Delete(&model.DateSetting{}, "date = ?", date).Error; err != nil {
		return fmt.Errorf("failed to delete date setting %s: %w", date, err)
	}
	return nil
}

// DeleteWeekdaySetting removes the override for a weekday.
func (s *gormStore) DeleteWeekdaySetting(ctx context.Context, weekday int) error {
	if err := s.db.WithContext(ctx).Delete(&model.WeekdaySetting{}, "weekday = ?", weekday).Error; err != nil {
		return fmt.Errorf("failed to delete weekday setting %d: %w", weekday, err)
	}
	return nil
}

// UpsertPushSubscription creates or refreshes an admin push subscription.
func (s *gormStore) UpsertPushSubscription(ctx context.Context, sub *model.PushSubscription) error {
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
	}).Create(sub).Error; err != nil {
		return fmt.Errorf("failed to upsert push subscription: %w", err)
	}
	return nil
}

// DeletePushSubscription removes an admin push subscription.
func (s *gormStore) DeletePushSubscription(ctx context.Context, endpoint string) error {
	if err := s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error; err != nil {
		return fmt.Errorf("failed to delete push subscription: %w", err)
	}
	return nil
}
