package capacity

import (
	"context"
	"fmt"

	"meeting-reservation-backend/internal/model"
)

// Counter provides the confirmed-applicant tally for a date.
type Counter interface {
	CountConfirmed(ctx context.Context, date string) (Tally, error)
}

// DateStatus is the gender-neutral capacity picture of one date.
type DateStatus struct {
	MaleCount      int
	FemaleCount    int
	MaxMale        int
	MaxFemale      int
	IsMaleClosed   bool
	IsFemaleClosed bool
}

// Availability is the intake decision for one (date, gender) pair.
type Availability struct {
	DateStatus
	IsAvailable bool
	Message     string
}

// Evaluator combines the capacity resolver and the confirmed-count reader
// into an open/closed decision. It performs reads only and is safe to call
// repeatedly and concurrently.
type Evaluator struct {
	resolver *Resolver
	counter  Counter
}

// NewEvaluator creates an availability evaluator.
func NewEvaluator(resolver *Resolver, counter Counter) *Evaluator {
	return &Evaluator{resolver: resolver, counter: counter}
}

// DateStatus reports the current counts, limits and closure flags for a date.
// A gender is closed once its confirmed count has reached its maximum.
func (e *Evaluator) DateStatus(ctx context.Context, date string) (DateStatus, error) {
	limits, err := e.resolver.Resolve(ctx, date)
	if err != nil {
		return DateStatus{}, err
	}
	tally, err := e.counter.CountConfirmed(ctx, date)
	if err != nil {
		return DateStatus{}, err
	}
	return DateStatus{
		MaleCount:      tally.Male,
		FemaleCount:    tally.Female,
		MaxMale:        limits.MaxMale,
		MaxFemale:      limits.MaxFemale,
		IsMaleClosed:   tally.Male >= limits.MaxMale,
		IsFemaleClosed: tally.Female >= limits.MaxFemale,
	}, nil
}

// Check decides whether an applicant of the given gender may still pick the
// date. Gender "기타" has no capacity dimension and is never gated, but the
// closure flags still describe the date for display.
func (e *Evaluator) Check(ctx context.Context, date string, gender model.Gender) (Availability, error) {
	status, err := e.DateStatus(ctx, date)
	if err != nil {
		return Availability{}, err
	}

	result := Availability{DateStatus: status, IsAvailable: true}
	switch {
	case gender == model.GenderMale && status.IsMaleClosed:
		result.IsAvailable = false
		result.Message = fmt.Sprintf("%s 남성 신청이 마감되었습니다. (%d/%d)", date, status.MaleCount, status.MaxMale)
	case gender == model.GenderFemale && status.IsFemaleClosed:
		result.IsAvailable = false
		result.Message = fmt.Sprintf("%s 여성 신청이 마감되었습니다. (%d/%d)", date, status.FemaleCount, status.MaxFemale)
	}
	return result, nil
}
