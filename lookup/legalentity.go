package lookup

import (
	"fmt"
	"reflect"
	"time"

	"github.com/rustyeddy/measures/currency"
	"github.com/rustyeddy/measures/curve"
	"github.com/rustyeddy/measures/dates"
	"github.com/rustyeddy/measures/marketdata"
	"github.com/rustyeddy/measures/params"
)

// RepoGroup groups securities or issuers sharing a repo curve.
type RepoGroup string

// LegalEntityGroup groups issuers sharing an issuer curve.
type LegalEntityGroup string

type groupCurrency[G comparable] struct {
	Group    G
	Currency currency.Currency
}

// LegalEntityLookup is the legal-entity-credit methodology: repo curves per
// security or issuer and issuer curves per legal entity.
type LegalEntityLookup interface {
	params.Parameter
	Requirements(securityID, legalEntityID marketdata.StandardID, ccy currency.Currency) (marketdata.Requirements, error)
	RepoCurveID(securityID, legalEntityID marketdata.StandardID, ccy currency.Currency) (marketdata.CurveID, error)
	IssuerCurveID(legalEntityID marketdata.StandardID, ccy currency.Currency) (marketdata.CurveID, error)
	MarketDataView(md marketdata.ScenarioMarketData) LegalEntityScenarioView
}

// LegalEntityMappings configures a DefaultLegalEntityLookup.
type LegalEntityMappings struct {
	// RepoSecurityGroups takes precedence over RepoIssuerGroups.
	RepoSecurityGroups map[marketdata.StandardID]RepoGroup
	RepoIssuerGroups   map[marketdata.StandardID]RepoGroup
	RepoCurves         map[RepoGroup]map[currency.Currency]marketdata.CurveID
	IssuerGroups       map[marketdata.StandardID]LegalEntityGroup
	IssuerCurves       map[LegalEntityGroup]map[currency.Currency]marketdata.CurveID
}

type DefaultLegalEntityLookup struct {
	repoSecurityGroups map[marketdata.StandardID]RepoGroup
	repoIssuerGroups   map[marketdata.StandardID]RepoGroup
	repoCurves         map[groupCurrency[RepoGroup]]marketdata.CurveID
	issuerGroups       map[marketdata.StandardID]LegalEntityGroup
	issuerCurves       map[groupCurrency[LegalEntityGroup]]marketdata.CurveID
	dayCount           dates.DayCount
}

func NewLegalEntityLookup(m LegalEntityMappings) *DefaultLegalEntityLookup {
	l := &DefaultLegalEntityLookup{
		repoSecurityGroups: make(map[marketdata.StandardID]RepoGroup, len(m.RepoSecurityGroups)),
		repoIssuerGroups:   make(map[marketdata.StandardID]RepoGroup, len(m.RepoIssuerGroups)),
		repoCurves:         make(map[groupCurrency[RepoGroup]]marketdata.CurveID),
		issuerGroups:       make(map[marketdata.StandardID]LegalEntityGroup, len(m.IssuerGroups)),
		issuerCurves:       make(map[groupCurrency[LegalEntityGroup]]marketdata.CurveID),
		dayCount:           dates.Act365F,
	}
	for k, v := range m.RepoSecurityGroups {
		l.repoSecurityGroups[k] = v
	}
	for k, v := range m.RepoIssuerGroups {
		l.repoIssuerGroups[k] = v
	}
	for g, byCcy := range m.RepoCurves {
		for c, id := range byCcy {
			l.repoCurves[groupCurrency[RepoGroup]{g, c}] = id
		}
	}
	for k, v := range m.IssuerGroups {
		l.issuerGroups[k] = v
	}
	for g, byCcy := range m.IssuerCurves {
		for c, id := range byCcy {
			l.issuerCurves[groupCurrency[LegalEntityGroup]{g, c}] = id
		}
	}
	return l
}

func (l *DefaultLegalEntityLookup) QueryType() reflect.Type {
	return params.KindOf[LegalEntityLookup]()
}

func (l *DefaultLegalEntityLookup) RepoCurveID(securityID, legalEntityID marketdata.StandardID, ccy currency.Currency) (marketdata.CurveID, error) {
	group, ok := l.repoSecurityGroups[securityID]
	if !ok {
		group, ok = l.repoIssuerGroups[legalEntityID]
	}
	if !ok {
		return marketdata.CurveID{}, fmt.Errorf("repo curve group for security %s / issuer %s: %w", securityID, legalEntityID, ErrNoMapping)
	}
	id, ok := l.repoCurves[groupCurrency[RepoGroup]{group, ccy}]
	if !ok {
		return marketdata.CurveID{}, fmt.Errorf("repo curve for group %s and %s: %w", group, ccy, ErrNoMapping)
	}
	return id, nil
}

func (l *DefaultLegalEntityLookup) IssuerCurveID(legalEntityID marketdata.StandardID, ccy currency.Currency) (marketdata.CurveID, error) {
	group, ok := l.issuerGroups[legalEntityID]
	if !ok {
		return marketdata.CurveID{}, fmt.Errorf("issuer curve group for %s: %w", legalEntityID, ErrNoMapping)
	}
	id, ok := l.issuerCurves[groupCurrency[LegalEntityGroup]{group, ccy}]
	if !ok {
		return marketdata.CurveID{}, fmt.Errorf("issuer curve for group %s and %s: %w", group, ccy, ErrNoMapping)
	}
	return id, nil
}

func (l *DefaultLegalEntityLookup) Requirements(securityID, legalEntityID marketdata.StandardID, ccy currency.Currency) (marketdata.Requirements, error) {
	repo, err := l.RepoCurveID(securityID, legalEntityID, ccy)
	if err != nil {
		return marketdata.Requirements{}, err
	}
	issuer, err := l.IssuerCurveID(legalEntityID, ccy)
	if err != nil {
		return marketdata.Requirements{}, err
	}
	return marketdata.NewRequirements().Values(repo, issuer).OutputCurrencies(ccy).Build(), nil
}

func (l *DefaultLegalEntityLookup) MarketDataView(md marketdata.ScenarioMarketData) LegalEntityScenarioView {
	return LegalEntityScenarioView{lookup: l, md: md}
}

// LegalEntityScenarioView is the scenario-indexed view of a LegalEntityLookup.
type LegalEntityScenarioView struct {
	lookup LegalEntityLookup
	md     marketdata.ScenarioMarketData
}

func (v LegalEntityScenarioView) Lookup() LegalEntityLookup { return v.lookup }

func (v LegalEntityScenarioView) ScenarioCount() int { return v.md.ScenarioCount() }

func (v LegalEntityScenarioView) ValuationDate(i int) time.Time { return v.md.ValuationDate(i) }

func (v LegalEntityScenarioView) MarketData() marketdata.ScenarioMarketData { return v.md }

func (v LegalEntityScenarioView) Scenario(i int) LegalEntityProvider {
	dc := dates.Act365F
	if d, ok := v.lookup.(*DefaultLegalEntityLookup); ok {
		dc = d.dayCount
	}
	return LegalEntityProvider{lookup: v.lookup, dayCount: dc, source: curveSource{md: v.md.Scenario(i)}}
}

var _ CurveProvider[LegalEntityProvider] = LegalEntityProvider{}

// LegalEntityProvider supplies repo and issuer discount factors for one
// scenario.
type LegalEntityProvider struct {
	lookup   LegalEntityLookup
	dayCount dates.DayCount
	source   curveSource
}

func (p LegalEntityProvider) ValuationDate() time.Time { return p.source.md.ValuationDate() }

// MarketData exposes the scenario for direct quotes.
func (p LegalEntityProvider) MarketData() marketdata.MarketData { return p.source.md }

func (p LegalEntityProvider) RepoDiscountFactors(securityID, legalEntityID marketdata.StandardID, ccy currency.Currency) (curve.DiscountFactors, error) {
	id, err := p.lookup.RepoCurveID(securityID, legalEntityID, ccy)
	if err != nil {
		return curve.DiscountFactors{}, err
	}
	return p.discountFactors(id, ccy)
}

func (p LegalEntityProvider) IssuerDiscountFactors(legalEntityID marketdata.StandardID, ccy currency.Currency) (curve.DiscountFactors, error) {
	id, err := p.lookup.IssuerCurveID(legalEntityID, ccy)
	if err != nil {
		return curve.DiscountFactors{}, err
	}
	return p.discountFactors(id, ccy)
}

func (p LegalEntityProvider) discountFactors(id marketdata.CurveID, ccy currency.Currency) (curve.DiscountFactors, error) {
	c, err := p.source.curve(id)
	if err != nil {
		return curve.DiscountFactors{}, err
	}
	return curve.DiscountFactors{
		Currency:      ccy,
		ValuationDate: p.ValuationDate(),
		DayCount:      p.dayCount,
		Curve:         c,
	}, nil
}

// CurveIDs lists the repo and issuer curves used for one bond.
func (p LegalEntityProvider) CurveIDs(securityID, legalEntityID marketdata.StandardID, ccy currency.Currency) ([]marketdata.CurveID, error) {
	repo, err := p.lookup.RepoCurveID(securityID, legalEntityID, ccy)
	if err != nil {
		return nil, err
	}
	issuer, err := p.lookup.IssuerCurveID(legalEntityID, ccy)
	if err != nil {
		return nil, err
	}
	return []marketdata.CurveID{repo, issuer}, nil
}

func (p LegalEntityProvider) Curve(id marketdata.CurveID) (*curve.Curve, error) {
	return p.source.curve(id)
}

// WithCurve returns a copy reading c in place of curve id.
func (p LegalEntityProvider) WithCurve(id marketdata.CurveID, c *curve.Curve) LegalEntityProvider {
	p.source = p.source.with(id, c)
	return p
}
