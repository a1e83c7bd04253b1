package posts

import (
	"fmt"
	"time"
)

// Period is a ranking window.
type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// ParsePeriod accepts "weekly" or "monthly".
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodWeekly, PeriodMonthly:
		return Period(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
}

// Window is the look-back duration: 7 days for weekly, 30 for monthly.
func (p Period) Window() time.Duration {
	if p == PeriodMonthly {
		return 30 * 24 * time.Hour
	}
	return 7 * 24 * time.Hour
}

// Since is the earliest creation time included in a ranking computed at now.
func (p Period) Since(now time.Time) time.Time {
	return now.Add(-p.Window())
}

// RankingFilter narrows a ranking. Empty fields match everything.
type RankingFilter struct {
	MediaType string
	Category  string
}

// Validate rejects unknown media types and categories.
func (f RankingFilter) Validate() error {
	if f.MediaType != "" && !ValidMediaType(f.MediaType) {
		return fmt.Errorf("%w: unknown media type %q", ErrValidation, f.MediaType)
	}
	if f.Category != "" && !ValidCategory(f.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, f.Category)
	}
	return nil
}
