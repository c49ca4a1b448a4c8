// Package product holds the tradable targets and their resolved,
// calculation-ready forms.
package product

import (
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/measures/refdata"
)

// ErrInvalidProduct is returned when a product fails validation on resolve.
var ErrInvalidProduct = errors.New("invalid product")

// Info is the optional trade or position metadata.
type Info struct {
	ID           string
	Counterparty string
	TradeDate    time.Time
}

// HasID reports whether an identifier was set.
func (i Info) HasID() bool { return i.ID != "" }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidProduct)
}

// calendar resolves a holiday calendar id. An empty id means no holidays.
func calendar(rd refdata.ReferenceData, id refdata.HolidayCalendarID) (refdata.HolidayCalendar, error) {
	if id == "" {
		id = refdata.NoHolidays
	}
	return refdata.Get[refdata.HolidayCalendar](rd, id)
}
