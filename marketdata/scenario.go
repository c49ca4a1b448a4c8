package marketdata

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrMissingValue is returned when a value is absent from market data.
var ErrMissingValue = errors.New("market data value not found")

// MarketData is the view of a single scenario.
type MarketData interface {
	ValuationDate() time.Time
	Value(id ID) (any, error)
	Contains(id ID) bool
}

// ScenarioMarketData holds values for a number of parallel scenarios. It is
// read-only once built and safe for concurrent use.
type ScenarioMarketData interface {
	ScenarioCount() int
	ValuationDate(scenario int) time.Time
	Scenario(scenario int) MarketData
	Contains(id ID) bool
	IDs() []ID
}

// Get reads id from md and asserts the value type.
func Get[T any](md MarketData, id ID) (T, error) {
	var zero T
	v, err := md.Value(id)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("market data %s: unexpected type %T", id, v)
	}
	return t, nil
}

// Missing returns the required ids absent from md, in sorted order.
func Missing(md ScenarioMarketData, reqs Requirements) []ID {
	var out []ID
	for _, id := range reqs.ValueIDs() {
		if !md.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}

// box holds either one value shared by all scenarios or one per scenario.
type box struct {
	single      any
	perScenario []any
}

func (b box) get(i int) any {
	if b.perScenario != nil {
		return b.perScenario[i]
	}
	return b.single
}

// Immutable is the standard ScenarioMarketData.
type Immutable struct {
	count  int
	dates  []time.Time
	values map[ID]box
}

func (m *Immutable) ScenarioCount() int { return m.count }

func (m *Immutable) ValuationDate(scenario int) time.Time {
	return m.dates[scenario]
}

func (m *Immutable) Scenario(scenario int) MarketData {
	if scenario < 0 || scenario >= m.count {
		panic(fmt.Sprintf("scenario index %d out of range [0,%d)", scenario, m.count))
	}
	return slot{md: m, index: scenario}
}

func (m *Immutable) Contains(id ID) bool {
	_, ok := m.values[id]
	return ok
}

func (m *Immutable) IDs() []ID {
	out := make([]ID, 0, len(m.values))
	for id := range m.values {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

type slot struct {
	md    *Immutable
	index int
}

func (s slot) ValuationDate() time.Time { return s.md.dates[s.index] }

func (s slot) Value(id ID) (any, error) {
	b, ok := s.md.values[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrMissingValue)
	}
	return b.get(s.index), nil
}

func (s slot) Contains(id ID) bool { return s.md.Contains(id) }

// Builder assembles an Immutable. Builders are not safe for concurrent use.
type Builder struct {
	count  int
	dates  []time.Time
	values map[ID]box
	err    error
}

// NewBuilder starts a single-scenario builder valued on valuationDate.
func NewBuilder(valuationDate time.Time) *Builder {
	return &Builder{
		count:  1,
		dates:  []time.Time{valuationDate},
		values: make(map[ID]box),
	}
}

// ScenarioCount sets the number of scenarios, all sharing the first
// valuation date.
func (b *Builder) ScenarioCount(n int) *Builder {
	if n <= 0 {
		b.fail(fmt.Errorf("scenario count must be positive, got %d", n))
		return b
	}
	d := b.dates[0]
	b.count = n
	b.dates = make([]time.Time, n)
	for i := range b.dates {
		b.dates[i] = d
	}
	return b
}

// ScenarioDates sets one valuation date per scenario.
func (b *Builder) ScenarioDates(dates ...time.Time) *Builder {
	if len(dates) == 0 {
		b.fail(errors.New("at least one valuation date is required"))
		return b
	}
	b.count = len(dates)
	b.dates = append([]time.Time(nil), dates...)
	return b
}

// Value adds a value shared by every scenario.
func (b *Builder) Value(id ID, v any) *Builder {
	b.values[id] = box{single: v}
	return b
}

// ScenarioValues adds one value per scenario.
func (b *Builder) ScenarioValues(id ID, vs ...any) *Builder {
	if len(vs) == 0 {
		b.fail(fmt.Errorf("market data %s: no scenario values", id))
		return b
	}
	b.values[id] = box{perScenario: append([]any(nil), vs...)}
	return b
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Builder) Build() (*Immutable, error) {
	if b.err != nil {
		return nil, b.err
	}
	values := make(map[ID]box, len(b.values))
	for id, v := range b.values {
		if v.perScenario != nil && len(v.perScenario) != b.count {
			return nil, fmt.Errorf("market data %s: %d scenario values, want %d", id, len(v.perScenario), b.count)
		}
		values[id] = v
	}
	return &Immutable{
		count:  b.count,
		dates:  append([]time.Time(nil), b.dates...),
		values: values,
	}, nil
}
