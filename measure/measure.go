// Package measure defines the identifiers of analytical outputs.
package measure

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Measure names an analytical output. Scenario-aggregate measures produce a
// single value for the whole batch rather than one value per scenario.
type Measure struct {
	name      string
	aggregate bool
}

var (
	PresentValue           = register("PresentValue", false)
	PV01CalibratedSum      = register("PV01CalibratedSum", false)
	PV01CalibratedBucketed = register("PV01CalibratedBucketed", false)
	UnitPrice              = register("UnitPrice", false)
	ParSpread              = register("ParSpread", false)
	ParRate                = register("ParRate", false)
	CurrencyExposure       = register("CurrencyExposure", false)
	ResolvedTarget         = register("ResolvedTarget", true)
)

var (
	mu       sync.RWMutex
	registry = map[string]Measure{}
)

func register(name string, aggregate bool) Measure {
	m := Measure{name: name, aggregate: aggregate}
	mu.Lock()
	registry[strings.ToLower(name)] = m
	mu.Unlock()
	return m
}

// Of returns a per-scenario measure with the given name. Names of standard
// measures return the standard measure.
func Of(name string) Measure {
	if m, ok := lookup(name); ok {
		return m
	}
	return Measure{name: name}
}

// Aggregate returns a scenario-aggregate measure.
func Aggregate(name string) Measure {
	return Measure{name: name, aggregate: true}
}

// Parse finds a standard measure by case-insensitive name.
func Parse(name string) (Measure, error) {
	m, ok := lookup(name)
	if !ok {
		return Measure{}, fmt.Errorf("unknown measure %q", name)
	}
	return m, nil
}

func lookup(name string) (Measure, bool) {
	mu.RLock()
	defer mu.RUnlock()
	m, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// Standard lists the built-in measures in name order.
func Standard() []Measure {
	mu.RLock()
	out := make([]Measure, 0, len(registry))
	for _, m := range registry {
		out = append(out, m)
	}
	mu.RUnlock()
	Sort(out)
	return out
}

func (m Measure) Name() string { return m.name }

func (m Measure) IsScenarioAggregate() bool { return m.aggregate }

func (m Measure) IsZero() bool { return m.name == "" }

func (m Measure) String() string { return m.name }

// Sort orders measures by name in place.
func Sort(ms []Measure) {
	sort.Slice(ms, func(i, j int) bool { return ms[i].name < ms[j].name })
}
