package dates

import (
	"fmt"
	"strings"
	"time"
)

// DayCount converts a pair of dates into a year fraction.
type DayCount string

const (
	Act360    DayCount = "ACT/360"
	Act365F   DayCount = "ACT/365F"
	Thirty360 DayCount = "30/360"
)

func ParseDayCount(s string) (DayCount, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ACT/360", "ACTUAL/360":
		return Act360, nil
	case "ACT/365F", "ACT/365", "ACTUAL/365F":
		return Act365F, nil
	case "30/360", "30E/360":
		return Thirty360, nil
	default:
		return "", fmt.Errorf("unsupported day count %q", s)
	}
}

// YearFraction is negative when end is before start.
func (d DayCount) YearFraction(start, end time.Time) float64 {
	switch d {
	case Act360:
		return float64(DaysBetween(start, end)) / 360
	case Thirty360:
		return thirty360(start, end)
	default:
		return float64(DaysBetween(start, end)) / 365
	}
}

func thirty360(start, end time.Time) float64 {
	y1, m1, d1 := start.Date()
	y2, m2, d2 := end.Date()
	if d1 == 31 {
		d1 = 30
	}
	if d2 == 31 {
		d2 = 30
	}
	days := 360*(y2-y1) + 30*(int(m2)-int(m1)) + (d2 - d1)
	return float64(days) / 360
}

// DaysBetween counts calendar days, ignoring time of day.
func DaysBetween(start, end time.Time) int {
	s := Date(start)
	e := Date(end)
	return int(e.Sub(s).Hours() / 24)
}

// Date truncates t to midnight UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

func MustDate(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Frequency is a payment frequency in months.
type Frequency int

const (
	Monthly    Frequency = 1
	Quarterly  Frequency = 3
	SemiAnnual Frequency = 6
	Annual     Frequency = 12
)

func (f Frequency) PerYear() float64 {
	if f <= 0 {
		return 0
	}
	return 12 / float64(f)
}

// AddMonths adds n months to t, clamping to the last day of the target
// month.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// ParseFrequency accepts "1M", "3M", "6M", "12M", "1Y" and the names
// Monthly, Quarterly, SemiAnnual, Annual.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "1M", "MONTHLY":
		return Monthly, nil
	case "3M", "QUARTERLY":
		return Quarterly, nil
	case "6M", "SEMIANNUAL":
		return SemiAnnual, nil
	case "12M", "1Y", "ANNUAL":
		return Annual, nil
	default:
		return 0, fmt.Errorf("unsupported frequency %q", s)
	}
}
