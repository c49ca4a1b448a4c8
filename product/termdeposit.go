package product

import (
	"time"

	"github.com/rustyeddy/measures/currency"
	"github.com/rustyeddy/measures/dates"
	"github.com/rustyeddy/measures/refdata"
)

// TermDeposit is a fixed-rate deposit. A positive notional is money placed
// with the counterparty.
type TermDeposit struct {
	Currency   currency.Currency
	Notional   float64
	Rate       float64
	StartDate  time.Time
	EndDate    time.Time
	DayCount   dates.DayCount
	Calendar   refdata.HolidayCalendarID
	Convention refdata.BusinessDayConvention
}

type ResolvedTermDeposit struct {
	Currency     currency.Currency
	Notional     float64
	Rate         float64
	StartDate    time.Time
	EndDate      time.Time
	YearFraction float64
}

// Interest is the amount accrued over the deposit's life.
func (d ResolvedTermDeposit) Interest() float64 {
	return d.Notional * d.Rate * d.YearFraction
}

func (d TermDeposit) Resolve(rd refdata.ReferenceData) (ResolvedTermDeposit, error) {
	switch {
	case d.Currency == "":
		return ResolvedTermDeposit{}, invalid("term deposit: currency is required")
	case !d.EndDate.After(d.StartDate):
		return ResolvedTermDeposit{}, invalid("term deposit: end date must be after start date")
	}
	cal, err := calendar(rd, d.Calendar)
	if err != nil {
		return ResolvedTermDeposit{}, err
	}
	dc := d.DayCount
	if dc == "" {
		dc = dates.Act360
	}
	start := cal.Adjust(d.StartDate, d.Convention)
	end := cal.Adjust(d.EndDate, d.Convention)
	return ResolvedTermDeposit{
		Currency:     d.Currency,
		Notional:     d.Notional,
		Rate:         d.Rate,
		StartDate:    start,
		EndDate:      end,
		YearFraction: dc.YearFraction(start, end),
	}, nil
}

type TermDepositTrade struct {
	Info    Info
	Product TermDeposit
}

type ResolvedTermDepositTrade struct {
	Info    Info
	Product ResolvedTermDeposit
}

func (t TermDepositTrade) Resolve(rd refdata.ReferenceData) (ResolvedTermDepositTrade, error) {
	p, err := t.Product.Resolve(rd)
	if err != nil {
		return ResolvedTermDepositTrade{}, err
	}
	return ResolvedTermDepositTrade{Info: t.Info, Product: p}, nil
}
