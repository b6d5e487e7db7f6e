// Package pricing is the single source of truth for rental cost computation.
// Every surface that shows a price (booking creation, checkout, dashboards)
// goes through it. All functions are pure: no I/O, no clock reads, identical
// inputs produce identical outputs.
package pricing

import (
	"errors"
	"math"
	"time"
)

// Business constants. These are policy, not configuration.
const (
	// TaxRate is the flat 10% tax applied to the base amount.
	TaxRate = 0.10

	// ServiceFee is the flat per-booking fee, independent of duration or rate.
	ServiceFee = 10.00
)

var (
	// ErrInvalidDate is returned when a date is missing or does not parse.
	ErrInvalidDate = errors.New("invalid rental date")

	// ErrInvalidRange is returned when the end date is strictly before the
	// start date, or when a day count below 1 is supplied.
	ErrInvalidRange = errors.New("invalid rental date range")

	// ErrInvalidRate is returned when the daily rate is negative, NaN or
	// infinite. Bad rates are never coerced to zero.
	ErrInvalidRate = errors.New("invalid daily rate")
)

// Breakdown is the itemized cost of a rental. It is a derived value object,
// recomputed on demand and never persisted on its own.
type Breakdown struct {
	Days       int     `json:"days"`
	BaseAmount float64 `json:"baseAmount"`
	TaxRate    float64 `json:"taxRate"`
	TaxAmount  float64 `json:"taxAmount"`
	ServiceFee float64 `json:"serviceFee"`
	Total      float64 `json:"total"`
}

// dateLayouts accepted by ParseDate, tried in order.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// ParseDate parses a calendar date from its wire form. Both plain dates and
// RFC 3339 timestamps are accepted.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// ComputeDuration returns the billable number of rental days for the strict
// (creation and payment time) path. A same-day range bills as one day; an
// inverted range is a caller error and fails with ErrInvalidRange.
func ComputeDuration(start, end time.Time) (int, error) {
	if start.IsZero() || end.IsZero() {
		return 0, ErrInvalidDate
	}
	if end.Before(start) {
		return 0, ErrInvalidRange
	}
	return clampDays(end.Sub(start)), nil
}

// DisplayDuration returns the rental day count for list and summary views.
// Non-positive spans are clamped to one day instead of failing, so a stale or
// malformed record never crashes a dashboard. This clamp is contracted
// behavior, not a defect.
func DisplayDuration(start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return 1
	}
	return clampDays(end.Sub(start))
}

// clampDays converts a span to whole days, rounding up, with a minimum of 1.
func clampDays(span time.Duration) int {
	days := int(math.Ceil(span.Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// ComputeBreakdown computes the itemized cost for the given daily rate and
// day count: base = rate*days, tax = 10% of base, plus the flat service fee.
func ComputeBreakdown(pricePerDay float64, days int) (Breakdown, error) {
	if math.IsNaN(pricePerDay) || math.IsInf(pricePerDay, 0) || pricePerDay < 0 {
		return Breakdown{}, ErrInvalidRate
	}
	if days < 1 {
		return Breakdown{}, ErrInvalidRange
	}

	base := pricePerDay * float64(days)
	tax := base * TaxRate

	return Breakdown{
		Days:       days,
		BaseAmount: base,
		TaxRate:    TaxRate,
		TaxAmount:  tax,
		ServiceFee: ServiceFee,
		Total:      base + tax + ServiceFee,
	}, nil
}

// ChargeAmount converts a breakdown total to minor units for the payment
// gateway: round-half-up to a whole currency unit, then times 100 for cents.
func ChargeAmount(b Breakdown) int64 {
	return int64(math.Floor(b.Total+0.5)) * 100
}
