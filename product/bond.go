package product

import (
	"time"

	"github.com/rustyeddy/measures/currency"
	"github.com/rustyeddy/measures/dates"
	"github.com/rustyeddy/measures/marketdata"
	"github.com/rustyeddy/measures/refdata"
)

// FixedCouponBond is a bullet bond paying a fixed coupon.
type FixedCouponBond struct {
	SecurityID    marketdata.StandardID
	LegalEntityID marketdata.StandardID
	Currency      currency.Currency
	Notional      float64
	FixedRate     float64
	StartDate     time.Time
	EndDate       time.Time
	Frequency     dates.Frequency
	DayCount      dates.DayCount
	Calendar      refdata.HolidayCalendarID
	Convention    refdata.BusinessDayConvention
}

// CouponPeriod is one accrual period. Start and End are unadjusted, the
// payment date is adjusted by the bond's calendar.
type CouponPeriod struct {
	Start        time.Time
	End          time.Time
	PaymentDate  time.Time
	YearFraction float64
}

type ResolvedFixedCouponBond struct {
	SecurityID    marketdata.StandardID
	LegalEntityID marketdata.StandardID
	Currency      currency.Currency
	Notional      float64
	FixedRate     float64
	DayCount      dates.DayCount
	Periods       []CouponPeriod
}

func (b FixedCouponBond) validate() error {
	switch {
	case b.SecurityID.Value == "":
		return invalid("bond: security id is required")
	case b.Currency == "":
		return invalid("bond %s: currency is required", b.SecurityID)
	case b.Notional <= 0:
		return invalid("bond %s: notional must be positive", b.SecurityID)
	case !b.EndDate.After(b.StartDate):
		return invalid("bond %s: end date must be after start date", b.SecurityID)
	case b.Frequency <= 0:
		return invalid("bond %s: frequency must be positive", b.SecurityID)
	}
	return nil
}

// Resolve builds the coupon schedule backwards from the end date.
func (b FixedCouponBond) Resolve(rd refdata.ReferenceData) (ResolvedFixedCouponBond, error) {
	if err := b.validate(); err != nil {
		return ResolvedFixedCouponBond{}, err
	}
	cal, err := calendar(rd, b.Calendar)
	if err != nil {
		return ResolvedFixedCouponBond{}, err
	}
	dc := b.DayCount
	if dc == "" {
		dc = dates.Thirty360
	}

	start, end := dates.Date(b.StartDate), dates.Date(b.EndDate)
	var bounds []time.Time
	for n := 0; ; n++ {
		d := dates.AddMonths(end, -n*int(b.Frequency))
		if !d.After(start) {
			break
		}
		bounds = append(bounds, d)
	}
	bounds = append(bounds, start)

	periods := make([]CouponPeriod, 0, len(bounds)-1)
	for i := len(bounds) - 1; i > 0; i-- {
		s, e := bounds[i], bounds[i-1]
		periods = append(periods, CouponPeriod{
			Start:        s,
			End:          e,
			PaymentDate:  cal.Adjust(e, b.Convention),
			YearFraction: dc.YearFraction(s, e),
		})
	}
	return ResolvedFixedCouponBond{
		SecurityID:    b.SecurityID,
		LegalEntityID: b.LegalEntityID,
		Currency:      b.Currency,
		Notional:      b.Notional,
		FixedRate:     b.FixedRate,
		DayCount:      dc,
		Periods:       periods,
	}, nil
}

// MaturityDate is the payment date of the final period.
func (b ResolvedFixedCouponBond) MaturityDate() time.Time {
	return b.Periods[len(b.Periods)-1].PaymentDate
}

// AccruedYearFraction is the accrued part of the period containing date.
func (b ResolvedFixedCouponBond) AccruedYearFraction(date time.Time) float64 {
	for _, p := range b.Periods {
		if !date.Before(p.Start) && date.Before(p.End) {
			return b.DayCount.YearFraction(p.Start, date)
		}
	}
	return 0
}
