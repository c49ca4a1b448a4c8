package refdata

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/measures/dates"
)

// HolidayCalendarID names a holiday calendar, e.g. "GBLO" or "USNY".
type HolidayCalendarID string

const (
	NoHolidays HolidayCalendarID = "NoHolidays"
	Weekends   HolidayCalendarID = "Weekends"
)

func (id HolidayCalendarID) ReferenceDataType() string { return "HolidayCalendar" }
func (id HolidayCalendarID) String() string            { return string(id) }

var standardCalendars = map[ID]any{
	NoHolidays: HolidayCalendar{ID: NoHolidays},
	Weekends:   NewHolidayCalendar(Weekends, nil, time.Saturday, time.Sunday),
}

// HolidayCalendar knows which dates are business days.
type HolidayCalendar struct {
	ID       HolidayCalendarID
	holidays map[time.Time]struct{}
	weekend  [7]bool
}

func NewHolidayCalendar(id HolidayCalendarID, holidays []time.Time, weekend ...time.Weekday) HolidayCalendar {
	cal := HolidayCalendar{ID: id, holidays: make(map[time.Time]struct{}, len(holidays))}
	for _, h := range holidays {
		cal.holidays[dates.Date(h)] = struct{}{}
	}
	for _, wd := range weekend {
		cal.weekend[wd] = true
	}
	return cal
}

func (c HolidayCalendar) IsHoliday(t time.Time) bool {
	if c.weekend[t.Weekday()] {
		return true
	}
	_, ok := c.holidays[dates.Date(t)]
	return ok
}

func (c HolidayCalendar) IsBusinessDay(t time.Time) bool {
	return !c.IsHoliday(t)
}

// Next returns the first business day strictly after t.
func (c HolidayCalendar) Next(t time.Time) time.Time {
	d := dates.Date(t).AddDate(0, 0, 1)
	for c.IsHoliday(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// Previous returns the last business day strictly before t.
func (c HolidayCalendar) Previous(t time.Time) time.Time {
	d := dates.Date(t).AddDate(0, 0, -1)
	for c.IsHoliday(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// Shift moves t by n business days.
func (c HolidayCalendar) Shift(t time.Time, n int) time.Time {
	d := dates.Date(t)
	for ; n > 0; n-- {
		d = c.Next(d)
	}
	for ; n < 0; n++ {
		d = c.Previous(d)
	}
	return d
}

// BusinessDayConvention adjusts non-business days.
type BusinessDayConvention string

const (
	NoAdjust          BusinessDayConvention = "NoAdjust"
	Following         BusinessDayConvention = "Following"
	ModifiedFollowing BusinessDayConvention = "ModifiedFollowing"
	Preceding         BusinessDayConvention = "Preceding"
)

func ParseBusinessDayConvention(s string) (BusinessDayConvention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "noadjust", "none":
		return NoAdjust, nil
	case "following", "f":
		return Following, nil
	case "modifiedfollowing", "mf":
		return ModifiedFollowing, nil
	case "preceding", "p":
		return Preceding, nil
	default:
		return "", fmt.Errorf("unknown business day convention %q", s)
	}
}

// Adjust applies conv to t using calendar c.
func (c HolidayCalendar) Adjust(t time.Time, conv BusinessDayConvention) time.Time {
	d := dates.Date(t)
	if conv == NoAdjust || c.IsBusinessDay(d) {
		return d
	}
	switch conv {
	case Following:
		return c.Next(d)
	case ModifiedFollowing:
		n := c.Next(d)
		if n.Month() != d.Month() {
			return c.Previous(d)
		}
		return n
	case Preceding:
		return c.Previous(d)
	}
	return d
}
