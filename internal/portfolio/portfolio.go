// Package portfolio loads targets, reference data and scenario market data
// from a YAML file.
package portfolio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rustyeddy/measures/currency"
	"github.com/rustyeddy/measures/curve"
	"github.com/rustyeddy/measures/dates"
	"github.com/rustyeddy/measures/marketdata"
	"github.com/rustyeddy/measures/measure"
	"github.com/rustyeddy/measures/product"
	"github.com/rustyeddy/measures/refdata"
	"gopkg.in/yaml.v3"
)

// Target is a loaded trade or position.
type Target struct {
	ID    string
	Type  string
	Value any
}

type Portfolio struct {
	ValuationDate time.Time
	Measures      []measure.Measure
	Targets       []Target
	RefData       *refdata.Immutable
	MarketData    *marketdata.Immutable
}

type file struct {
	ValuationDate string               `yaml:"valuation_date"`
	Scenarios     int                  `yaml:"scenarios"`
	Measures      []string             `yaml:"measures"`
	Calendars     []calendarDoc        `yaml:"calendars"`
	Bonds         map[string]bondDoc   `yaml:"bonds"`
	Futures       map[string]futureDoc `yaml:"futures"`
	Trades        []tradeDoc           `yaml:"trades"`
	MarketData    marketDataDoc        `yaml:"market_data"`
}

type calendarDoc struct {
	ID       string   `yaml:"id"`
	Weekend  []string `yaml:"weekend"`
	Holidays []string `yaml:"holidays"`
}

type bondDoc struct {
	ID          string  `yaml:"id"`
	LegalEntity string  `yaml:"legal_entity"`
	Currency    string  `yaml:"currency"`
	Notional    float64 `yaml:"notional"`
	Coupon      float64 `yaml:"coupon"`
	Start       string  `yaml:"start"`
	End         string  `yaml:"end"`
	Frequency   string  `yaml:"frequency"`
	DayCount    string  `yaml:"day_count"`
	Calendar    string  `yaml:"calendar"`
	Convention  string  `yaml:"convention"`
}

type futureDoc struct {
	ID              string      `yaml:"id"`
	Currency        string      `yaml:"currency"`
	Notional        float64     `yaml:"notional"`
	Calendar        string      `yaml:"calendar"`
	LastTradeDate   string      `yaml:"last_trade_date"`
	FirstNoticeDate string      `yaml:"first_notice_date"`
	LastNoticeDate  string      `yaml:"last_notice_date"`
	Basket          []basketDoc `yaml:"basket"`
}

type basketDoc struct {
	Bond             string  `yaml:"bond"`
	ConversionFactor float64 `yaml:"conversion_factor"`
}

type tradeDoc struct {
	Type          string      `yaml:"type"`
	ID            string      `yaml:"id"`
	Counterparty  string      `yaml:"counterparty"`
	TradeDate     string      `yaml:"trade_date"`
	Future        string      `yaml:"future"`
	Quantity      float64     `yaml:"quantity"`
	Price         float64     `yaml:"price"`
	LongQuantity  float64     `yaml:"long_quantity"`
	ShortQuantity float64     `yaml:"short_quantity"`
	Deposit       *depositDoc `yaml:"deposit"`
}

type depositDoc struct {
	Currency   string  `yaml:"currency"`
	Notional   float64 `yaml:"notional"`
	Rate       float64 `yaml:"rate"`
	Start      string  `yaml:"start"`
	End        string  `yaml:"end"`
	DayCount   string  `yaml:"day_count"`
	Calendar   string  `yaml:"calendar"`
	Convention string  `yaml:"convention"`
}

type marketDataDoc struct {
	CurveGroup string     `yaml:"curve_group"`
	Curves     []curveDoc `yaml:"curves"`
	Quotes     []quoteDoc `yaml:"quotes"`
	QuotesFile string     `yaml:"quotes_file"`
}

// Shifts are parallel zero rate shifts, one curve per scenario.
type curveDoc struct {
	Name   string    `yaml:"name"`
	Nodes  []nodeDoc `yaml:"nodes"`
	Shifts []float64 `yaml:"shifts"`
}

type nodeDoc struct {
	Label string  `yaml:"label"`
	Time  float64 `yaml:"time"`
	Rate  float64 `yaml:"rate"`
}

type quoteDoc struct {
	ID     string    `yaml:"id"`
	Field  string    `yaml:"field"`
	Value  *float64  `yaml:"value"`
	Values []float64 `yaml:"values"`
}

// Load reads a portfolio file. A relative quotes_file is resolved against
// the portfolio's directory.
func Load(path string) (*Portfolio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read portfolio: %w", err)
	}
	return parse(data, filepath.Dir(path))
}

// Parse reads a portfolio from YAML. quotes_file is resolved against the
// working directory.
func Parse(data []byte) (*Portfolio, error) {
	return parse(data, ".")
}

func parse(data []byte, dir string) (*Portfolio, error) {
	var doc file
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse portfolio: %w", err)
	}

	valDate, err := dates.ParseDate(doc.ValuationDate)
	if err != nil {
		return nil, fmt.Errorf("valuation_date: %w", err)
	}
	p := &Portfolio{ValuationDate: valDate}

	for _, name := range doc.Measures {
		m, err := measure.Parse(name)
		if err != nil {
			return nil, err
		}
		p.Measures = append(p.Measures, m)
	}
	if len(p.Measures) == 0 {
		p.Measures = measure.Standard()
	}

	if p.RefData, err = buildRefData(doc.Calendars); err != nil {
		return nil, err
	}

	bonds := make(map[string]product.FixedCouponBond, len(doc.Bonds))
	for name, b := range doc.Bonds {
		if bonds[name], err = b.product(name); err != nil {
			return nil, err
		}
	}
	futures := make(map[string]product.BondFuture, len(doc.Futures))
	for name, f := range doc.Futures {
		if futures[name], err = f.product(name, bonds); err != nil {
			return nil, err
		}
	}
	for i, t := range doc.Trades {
		target, err := t.target(futures)
		if err != nil {
			return nil, fmt.Errorf("trades[%d]: %w", i, err)
		}
		p.Targets = append(p.Targets, target)
	}

	quotes, err := doc.MarketData.quotes(dir)
	if err != nil {
		return nil, err
	}
	if p.MarketData, err = doc.MarketData.build(valDate, doc.Scenarios, quotes); err != nil {
		return nil, err
	}
	return p, nil
}

func optionalDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := dates.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", field, err)
	}
	return t, nil
}

func optionalDayCount(s string) (dates.DayCount, error) {
	if s == "" {
		return "", nil
	}
	return dates.ParseDayCount(s)
}

func buildRefData(docs []calendarDoc) (*refdata.Immutable, error) {
	values := make(map[refdata.ID]any, len(docs))
	for _, c := range docs {
		if c.ID == "" {
			return nil, fmt.Errorf("calendar id is required")
		}
		weekend := make([]time.Weekday, 0, len(c.Weekend))
		for _, w := range c.Weekend {
			d, err := parseWeekday(w)
			if err != nil {
				return nil, fmt.Errorf("calendar %s: %w", c.ID, err)
			}
			weekend = append(weekend, d)
		}
		holidays := make([]time.Time, 0, len(c.Holidays))
		for _, h := range c.Holidays {
			d, err := dates.ParseDate(h)
			if err != nil {
				return nil, fmt.Errorf("calendar %s: %w", c.ID, err)
			}
			holidays = append(holidays, d)
		}
		id := refdata.HolidayCalendarID(c.ID)
		values[id] = refdata.NewHolidayCalendar(id, holidays, weekend...)
	}
	return refdata.New(values), nil
}

func parseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(s, d.String()) || strings.EqualFold(s, d.String()[:3]) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

func (b bondDoc) product(name string) (product.FixedCouponBond, error) {
	wrap := func(err error) error { return fmt.Errorf("bond %s: %w", name, err) }

	id := b.ID
	if id == "" {
		id = name
	}
	sec, err := marketdata.ParseStandardID(id)
	if err != nil {
		return product.FixedCouponBond{}, wrap(err)
	}
	le, err := marketdata.ParseStandardID(b.LegalEntity)
	if err != nil {
		return product.FixedCouponBond{}, wrap(err)
	}
	ccy, err := currency.Parse(b.Currency)
	if err != nil {
		return product.FixedCouponBond{}, wrap(err)
	}
	start, err := dates.ParseDate(b.Start)
	if err != nil {
		return product.FixedCouponBond{}, wrap(err)
	}
	end, err := dates.ParseDate(b.End)
	if err != nil {
		return product.FixedCouponBond{}, wrap(err)
	}
	freq := dates.SemiAnnual
	if b.Frequency != "" {
		if freq, err = dates.ParseFrequency(b.Frequency); err != nil {
			return product.FixedCouponBond{}, wrap(err)
		}
	}
	dc, err := optionalDayCount(b.DayCount)
	if err != nil {
		return product.FixedCouponBond{}, wrap(err)
	}
	conv, err := refdata.ParseBusinessDayConvention(b.Convention)
	if err != nil {
		return product.FixedCouponBond{}, wrap(err)
	}
	notional := b.Notional
	if notional == 0 {
		notional = 1
	}
	return product.FixedCouponBond{
		SecurityID:    sec,
		LegalEntityID: le,
		Currency:      ccy,
		Notional:      notional,
		FixedRate:     b.Coupon,
		StartDate:     start,
		EndDate:       end,
		Frequency:     freq,
		DayCount:      dc,
		Calendar:      refdata.HolidayCalendarID(b.Calendar),
		Convention:    conv,
	}, nil
}

func (f futureDoc) product(name string, bonds map[string]product.FixedCouponBond) (product.BondFuture, error) {
	wrap := func(err error) error { return fmt.Errorf("future %s: %w", name, err) }

	id := f.ID
	if id == "" {
		id = name
	}
	sec, err := marketdata.ParseStandardID(id)
	if err != nil {
		return product.BondFuture{}, wrap(err)
	}
	ccy, err := currency.Parse(f.Currency)
	if err != nil {
		return product.BondFuture{}, wrap(err)
	}
	out := product.BondFuture{
		SecurityID: sec,
		Currency:   ccy,
		Notional:   f.Notional,
		Calendar:   refdata.HolidayCalendarID(f.Calendar),
	}
	if out.LastTradeDate, err = dates.ParseDate(f.LastTradeDate); err != nil {
		return product.BondFuture{}, wrap(err)
	}
	if out.FirstNoticeDate, err = dates.ParseDate(f.FirstNoticeDate); err != nil {
		return product.BondFuture{}, wrap(err)
	}
	if out.LastNoticeDate, err = dates.ParseDate(f.LastNoticeDate); err != nil {
		return product.BondFuture{}, wrap(err)
	}
	for _, b := range f.Basket {
		bond, ok := bonds[b.Bond]
		if !ok {
			return product.BondFuture{}, wrap(fmt.Errorf("unknown bond %q", b.Bond))
		}
		out.DeliveryBasket = append(out.DeliveryBasket, bond)
		out.ConversionFactors = append(out.ConversionFactors, b.ConversionFactor)
	}
	return out, nil
}

func (t tradeDoc) target(futures map[string]product.BondFuture) (Target, error) {
	tradeDate, err := optionalDate("trade_date", t.TradeDate)
	if err != nil {
		return Target{}, err
	}
	info := product.Info{ID: t.ID, Counterparty: t.Counterparty, TradeDate: tradeDate}

	switch t.Type {
	case "BondFutureTrade", "BondFuturePosition":
		f, ok := futures[t.Future]
		if !ok {
			return Target{}, fmt.Errorf("%s %s: unknown future %q", t.Type, t.ID, t.Future)
		}
		if t.Type == "BondFutureTrade" {
			return Target{ID: t.ID, Type: t.Type, Value: product.BondFutureTrade{
				Info: info, Product: f, Quantity: t.Quantity, Price: t.Price,
			}}, nil
		}
		return Target{ID: t.ID, Type: t.Type, Value: product.BondFuturePosition{
			Info: info, Product: f, LongQuantity: t.LongQuantity, ShortQuantity: t.ShortQuantity,
		}}, nil

	case "TermDepositTrade":
		if t.Deposit == nil {
			return Target{}, fmt.Errorf("%s %s: deposit is required", t.Type, t.ID)
		}
		d, err := t.Deposit.product()
		if err != nil {
			return Target{}, fmt.Errorf("%s %s: %w", t.Type, t.ID, err)
		}
		return Target{ID: t.ID, Type: t.Type, Value: product.TermDepositTrade{Info: info, Product: d}}, nil

	default:
		return Target{}, fmt.Errorf("unknown target type %q", t.Type)
	}
}

func (d depositDoc) product() (product.TermDeposit, error) {
	ccy, err := currency.Parse(d.Currency)
	if err != nil {
		return product.TermDeposit{}, err
	}
	start, err := dates.ParseDate(d.Start)
	if err != nil {
		return product.TermDeposit{}, err
	}
	end, err := dates.ParseDate(d.End)
	if err != nil {
		return product.TermDeposit{}, err
	}
	dc, err := optionalDayCount(d.DayCount)
	if err != nil {
		return product.TermDeposit{}, err
	}
	conv, err := refdata.ParseBusinessDayConvention(d.Convention)
	if err != nil {
		return product.TermDeposit{}, err
	}
	return product.TermDeposit{
		Currency:   ccy,
		Notional:   d.Notional,
		Rate:       d.Rate,
		StartDate:  start,
		EndDate:    end,
		DayCount:   dc,
		Calendar:   refdata.HolidayCalendarID(d.Calendar),
		Convention: conv,
	}, nil
}

func (m marketDataDoc) quotes(dir string) ([]Quote, error) {
	var out []Quote
	for _, q := range m.Quotes {
		id, err := marketdata.ParseStandardID(q.ID)
		if err != nil {
			return nil, fmt.Errorf("quote: %w", err)
		}
		vals := q.Values
		if q.Value != nil {
			vals = []float64{*q.Value}
		}
		if len(vals) == 0 {
			return nil, fmt.Errorf("quote %s: value or values is required", q.ID)
		}
		out = append(out, Quote{ID: marketdata.QuoteIDOf(id, marketdata.FieldName(q.Field)), Values: vals})
	}
	if m.QuotesFile != "" {
		path := m.QuotesFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		fromFile, err := ReadQuotesCSV(path)
		if err != nil {
			return nil, fmt.Errorf("quotes_file: %w", err)
		}
		out = append(out, fromFile...)
	}
	return out, nil
}

// build assembles the scenario market data. The scenario count is taken
// from scenarios, or else from the longest per-scenario list.
func (m marketDataDoc) build(valDate time.Time, scenarios int, quotes []Quote) (*marketdata.Immutable, error) {
	group := m.CurveGroup
	if group == "" {
		group = "Default"
	}

	n := scenarios
	if n == 0 {
		n = 1
		for _, c := range m.Curves {
			n = max(n, len(c.Shifts))
		}
		for _, q := range quotes {
			n = max(n, len(q.Values))
		}
	}

	b := marketdata.NewBuilder(valDate).ScenarioCount(n)
	for _, c := range m.Curves {
		nodes := make([]curve.Node, len(c.Nodes))
		for i, nd := range c.Nodes {
			nodes[i] = curve.Node{Label: nd.Label, Time: nd.Time, ZeroRate: nd.Rate}
		}
		sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Time < nodes[j].Time })
		base, err := curve.New(c.Name, nodes)
		if err != nil {
			return nil, err
		}
		id := marketdata.CurveIDOf(group, c.Name)
		if len(c.Shifts) == 0 {
			b.Value(id, base)
			continue
		}
		vals := make([]any, len(c.Shifts))
		for i, s := range c.Shifts {
			vals[i] = base.WithParallelShift(s)
		}
		b.ScenarioValues(id, vals...)
	}
	for _, q := range quotes {
		if len(q.Values) == 1 {
			b.Value(q.ID, q.Values[0])
			continue
		}
		vals := make([]any, len(q.Values))
		for i, v := range q.Values {
			vals[i] = v
		}
		b.ScenarioValues(q.ID, vals...)
	}
	return b.Build()
}
