package store

import (
	"context"
	"fmt"

	"meeting-reservation-backend/internal/capacity"
	"meeting-reservation-backend/internal/model"
)

type genderCountRow struct {
	DesiredDate string
	Gender      model.Gender
	N           int
}

// CountConfirmed tallies confirmed applications for one desired date,
// partitioned by gender. Gender "기타" counts into neither tally.
func (s *gormStore) CountConfirmed(ctx context.Context, date string) (capacity.Tally, error) {
	var rows []genderCountRow
	if err := s.db.WithContext(ctx).Model(&model.Application{}).
		Select("gender, COUNT(*) AS n").
		Where("status = ? AND desired_date = ?", model.StatusConfirmed, date).
		Group("gender").
		Scan(&rows).Error; err != nil {
		return capacity.Tally{}, fmt.Errorf("failed to count confirmed applications for %s: %w", date, err)
	}

	var tally capacity.Tally
	for _, r := range rows {
		switch r.Gender {
		case model.GenderMale:
			tally.Male = r.N
		case model.GenderFemale:
			tally.Female = r.N
		}
	}
	return tally, nil
}

// CountConfirmedByDate tallies confirmed applications per desired date inside
// the half-open interval [start, end). Rows without a desired date never
// match the range comparison and are excluded.
func (s *gormStore) CountConfirmedByDate(ctx context.Context, start, end string) (map[string]capacity.Tally, error) {
	var rows []genderCountRow
	if err := s.db.WithContext(ctx).Model(&model.Application{}).
		Select("desired_date, gender, COUNT(*) AS n").
		Where("status = ? AND desired_date >= ? AND desired_date < ?", model.StatusConfirmed, start, end).
		Group("desired_date").Group("gender").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count confirmed applications in [%s, %s): %w", start, end, err)
	}

	byDate := make(map[string]capacity.Tally)
	for _, r := range rows {
		t := byDate[r.DesiredDate]
		switch r.Gender {
		case model.GenderMale:
			t.Male = r.N
		case model.GenderFemale:
			t.Female = r.N
		}
		byDate[r.DesiredDate] = t
	}
	return byDate, nil
}

// CountAllByDate tallies applications of every status per desired date inside
// [start, end), including the "기타" gender.
func (s *gormStore) CountAllByDate(ctx context.Context, start, end string) (map[string]GenderBreakdown, error) {
	var rows []genderCountRow
	if err := s.db.WithContext(ctx).Model(&model.Application{}).
		Select("desired_date, gender, COUNT(*) AS n").
		Where("desired_date >= ? AND desired_date < ?", start, end).
		Group("desired_date").Group("gender").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count applications in [%s, %s): %w", start, end, err)
	}

	byDate := make(map[string]GenderBreakdown)
	for _, r := range rows {
		b := byDate[r.DesiredDate]
		switch r.Gender {
		case model.GenderMale:
			b.Male = r.N
		case model.GenderFemale:
			b.Female = r.N
		default:
			b.Other += r.N
		}
		b.Total += r.N
		byDate[r.DesiredDate] = b
	}
	return byDate, nil
}
