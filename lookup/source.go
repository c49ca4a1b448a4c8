// Package lookup turns entity references into market data requirements and
// presents typed per-scenario views of scenario market data.
package lookup

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/measures/curve"
	"github.com/rustyeddy/measures/marketdata"
)

// ErrNoMapping is returned when a lookup has no curve for an entity.
var ErrNoMapping = errors.New("no market data mapping")

// CurveProvider is the common part of every per-scenario provider P: it
// reads curves and can be re-pointed at a bumped curve.
type CurveProvider[P any] interface {
	Curve(id marketdata.CurveID) (*curve.Curve, error)
	WithCurve(id marketdata.CurveID, c *curve.Curve) P
}

// curveSource reads curves from one scenario, with optional overrides.
type curveSource struct {
	md        marketdata.MarketData
	overrides map[marketdata.CurveID]*curve.Curve
}

func (s curveSource) curve(id marketdata.CurveID) (*curve.Curve, error) {
	if c, ok := s.overrides[id]; ok {
		return c, nil
	}
	c, err := marketdata.Get[*curve.Curve](s.md, id)
	if err != nil {
		return nil, fmt.Errorf("curve %s: %w", id.Name, err)
	}
	return c, nil
}

func (s curveSource) with(id marketdata.CurveID, c *curve.Curve) curveSource {
	o := make(map[marketdata.CurveID]*curve.Curve, len(s.overrides)+1)
	for k, v := range s.overrides {
		o[k] = v
	}
	o[id] = c
	return curveSource{md: s.md, overrides: o}
}
