// Package curve provides zero-rate curves, discount factors and curve
// parameter sensitivities.
package curve

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/measures/currency"
	"github.com/rustyeddy/measures/dates"
	"gonum.org/v1/gonum/interp"
)

var ErrInvalidCurve = errors.New("invalid curve")

// Node is one curve parameter: a continuously compounded zero rate at a
// time measured in years.
type Node struct {
	Label    string
	Time     float64
	ZeroRate float64
}

// Curve interpolates zero rates linearly and extrapolates flat. Curves are
// immutable; shifting returns a new curve.
type Curve struct {
	Name  string
	nodes []Node
	fit   interp.PiecewiseLinear
}

func New(name string, nodes []Node) (*Curve, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("curve %s: no nodes: %w", name, ErrInvalidCurve)
	}
	xs := make([]float64, len(nodes))
	ys := make([]float64, len(nodes))
	for i, n := range nodes {
		if i > 0 && n.Time <= nodes[i-1].Time {
			return nil, fmt.Errorf("curve %s: node times must increase (%s): %w", name, n.Label, ErrInvalidCurve)
		}
		xs[i], ys[i] = n.Time, n.ZeroRate
	}
	c := &Curve{Name: name, nodes: append([]Node(nil), nodes...)}
	if len(nodes) > 1 {
		if err := c.fit.Fit(xs, ys); err != nil {
			return nil, fmt.Errorf("curve %s: %v: %w", name, err, ErrInvalidCurve)
		}
	}
	return c, nil
}

// Flat is a single-node curve with a constant zero rate.
func Flat(name string, rate float64) *Curve {
	c, _ := New(name, []Node{{Label: "flat", Time: 1, ZeroRate: rate}})
	return c
}

func (c *Curve) ZeroRate(t float64) float64 {
	if len(c.nodes) == 1 {
		return c.nodes[0].ZeroRate
	}
	return c.fit.Predict(t)
}

func (c *Curve) DiscountFactor(t float64) float64 {
	return math.Exp(-c.ZeroRate(t) * t)
}

func (c *Curve) ParameterCount() int { return len(c.nodes) }

func (c *Curve) Nodes() []Node {
	return append([]Node(nil), c.nodes...)
}

func (c *Curve) Labels() []string {
	out := make([]string, len(c.nodes))
	for i, n := range c.nodes {
		out[i] = n.Label
	}
	return out
}

// WithParameterShift returns a copy with node i's zero rate shifted by amount.
func (c *Curve) WithParameterShift(i int, amount float64) *Curve {
	nodes := c.Nodes()
	nodes[i].ZeroRate += amount
	shifted, err := New(c.Name, nodes)
	if err != nil {
		// shifting a rate cannot reorder node times
		panic(err)
	}
	return shifted
}

// WithParallelShift shifts every node by amount.
func (c *Curve) WithParallelShift(amount float64) *Curve {
	nodes := c.Nodes()
	for i := range nodes {
		nodes[i].ZeroRate += amount
	}
	shifted, err := New(c.Name, nodes)
	if err != nil {
		panic(err)
	}
	return shifted
}

// DiscountFactors binds a curve to a currency, valuation date and day count.
type DiscountFactors struct {
	Currency      currency.Currency
	ValuationDate time.Time
	DayCount      dates.DayCount
	Curve         *Curve
}

func (d DiscountFactors) RelativeTime(date time.Time) float64 {
	return d.DayCount.YearFraction(d.ValuationDate, date)
}

func (d DiscountFactors) DiscountFactor(date time.Time) float64 {
	return d.Curve.DiscountFactor(d.RelativeTime(date))
}

// WithCurve swaps the underlying curve, keeping the binding.
func (d DiscountFactors) WithCurve(c *Curve) DiscountFactors {
	d.Curve = c
	return d
}
