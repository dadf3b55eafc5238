package capacity

import (
	"context"
	"fmt"

	"meeting-reservation-backend/internal/dateutil"
	"meeting-reservation-backend/internal/model"
)

// Limits is the resolved per-gender maximum for one date. Both fields are
// always concrete non-negative integers; "no limit" is never observable.
type Limits struct {
	MaxMale   int
	MaxFemale int
}

// Tally is the number of confirmed applicants per gender for one date.
type Tally struct {
	Male   int
	Female int
}

// SettingsSource provides the capacity override rows. A nil row with a nil
// error means no override exists at that tier.
type SettingsSource interface {
	GetDateSetting(ctx context.Context, date string) (*model.DateSetting, error)
	GetWeekdaySetting(ctx context.Context, weekday int) (*model.WeekdaySetting, error)
}

// override is one tier's answer: present with possibly-nil fields.
type override struct {
	maxMale   *int
	maxFemale *int
}

// tierFunc is one lookup tier. Returning (nil, nil) defers to the next tier.
type tierFunc func(ctx context.Context, date string) (*override, error)

// Resolver resolves the effective per-gender capacity for a date by trying
// an ordered list of override tiers and falling back to the injected default.
type Resolver struct {
	tiers      []tierFunc
	defaultMax int
}

// NewResolver builds a resolver with the date > weekday > default precedence.
func NewResolver(src SettingsSource, defaultMax int) *Resolver {
	return &Resolver{
		tiers:      []tierFunc{dateTier(src), weekdayTier(src)},
		defaultMax: defaultMax,
	}
}

// DefaultMax returns the process-wide default per-gender capacity.
func (r *Resolver) DefaultMax() int {
	return r.defaultMax
}

// Resolve returns the effective limits for a "YYYY-MM-DD" date. The first
// tier that has a row wins; nil fields within that row fall back to the
// default, not to a lower tier. Lookup failures propagate so that callers
// never silently decide availability against the default.
func (r *Resolver) Resolve(ctx context.Context, date string) (Limits, error) {
	for _, tier := range r.tiers {
		o, err := tier(ctx, date)
		if err != nil {
			return Limits{}, err
		}
		if o != nil {
			return Limits{
				MaxMale:   valueOr(o.maxMale, r.defaultMax),
				MaxFemale: valueOr(o.maxFemale, r.defaultMax),
			}, nil
		}
	}
	return Limits{MaxMale: r.defaultMax, MaxFemale: r.defaultMax}, nil
}

func dateTier(src SettingsSource) tierFunc {
	return func(ctx context.Context, date string) (*override, error) {
		s, err := src.GetDateSetting(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("date setting lookup for %s: %w", date, err)
		}
		if s == nil {
			return nil, nil
		}
		return &override{maxMale: s.MaxMale, maxFemale: s.MaxFemale}, nil
	}
}

func weekdayTier(src SettingsSource) tierFunc {
	return func(ctx context.Context, date string) (*override, error) {
		wd, err := dateutil.Weekday(date)
		if err != nil {
			return nil, err
		}
		s, err := src.GetWeekdaySetting(ctx, wd)
		if err != nil {
			return nil, fmt.Errorf("weekday setting lookup for %d: %w", wd, err)
		}
		if s == nil {
			return nil, nil
		}
		return &override{maxMale: s.MaxMale, maxFemale: s.MaxFemale}, nil
	}
}

func valueOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
