package product

import (
	"time"

	"github.com/rustyeddy/measures/currency"
	"github.com/rustyeddy/measures/marketdata"
	"github.com/rustyeddy/measures/refdata"
)

// BondFuture is a futures contract on a basket of deliverable bonds.
type BondFuture struct {
	SecurityID        marketdata.StandardID
	Currency          currency.Currency
	Notional          float64
	DeliveryBasket    []FixedCouponBond
	ConversionFactors []float64
	LastTradeDate     time.Time
	FirstNoticeDate   time.Time
	LastNoticeDate    time.Time
	Calendar          refdata.HolidayCalendarID
}

type ResolvedBondFuture struct {
	SecurityID        marketdata.StandardID
	Currency          currency.Currency
	Notional          float64
	DeliveryBasket    []ResolvedFixedCouponBond
	ConversionFactors []float64
	LastTradeDate     time.Time
	FirstDeliveryDate time.Time
	LastDeliveryDate  time.Time
}

// SettlementPriceID is the quote holding the future's last settlement price.
func (f BondFuture) SettlementPriceID() marketdata.QuoteID {
	return marketdata.QuoteIDOf(f.SecurityID, marketdata.SettlementPrice)
}

func (f BondFuture) validate() error {
	switch {
	case f.SecurityID.Value == "":
		return invalid("bond future: security id is required")
	case f.Currency == "":
		return invalid("bond future %s: currency is required", f.SecurityID)
	case f.Notional <= 0:
		return invalid("bond future %s: notional must be positive", f.SecurityID)
	case len(f.DeliveryBasket) == 0:
		return invalid("bond future %s: delivery basket is empty", f.SecurityID)
	case len(f.DeliveryBasket) != len(f.ConversionFactors):
		return invalid("bond future %s: %d bonds but %d conversion factors", f.SecurityID, len(f.DeliveryBasket), len(f.ConversionFactors))
	case f.LastNoticeDate.Before(f.FirstNoticeDate):
		return invalid("bond future %s: last notice date before first notice date", f.SecurityID)
	}
	for i, b := range f.DeliveryBasket {
		if b.Currency != f.Currency {
			return invalid("bond future %s: basket bond %s in %s", f.SecurityID, b.SecurityID, b.Currency)
		}
		if f.ConversionFactors[i] <= 0 {
			return invalid("bond future %s: conversion factor for %s must be positive", f.SecurityID, b.SecurityID)
		}
	}
	return nil
}

func (f BondFuture) Resolve(rd refdata.ReferenceData) (ResolvedBondFuture, error) {
	if err := f.validate(); err != nil {
		return ResolvedBondFuture{}, err
	}
	cal, err := calendar(rd, f.Calendar)
	if err != nil {
		return ResolvedBondFuture{}, err
	}
	basket := make([]ResolvedFixedCouponBond, len(f.DeliveryBasket))
	for i, b := range f.DeliveryBasket {
		if basket[i], err = b.Resolve(rd); err != nil {
			return ResolvedBondFuture{}, err
		}
	}
	return ResolvedBondFuture{
		SecurityID:        f.SecurityID,
		Currency:          f.Currency,
		Notional:          f.Notional,
		DeliveryBasket:    basket,
		ConversionFactors: append([]float64(nil), f.ConversionFactors...),
		LastTradeDate:     cal.Adjust(f.LastTradeDate, refdata.Preceding),
		FirstDeliveryDate: cal.Adjust(f.FirstNoticeDate, refdata.Following),
		LastDeliveryDate:  cal.Adjust(f.LastNoticeDate, refdata.Following),
	}, nil
}

func (f ResolvedBondFuture) SettlementPriceID() marketdata.QuoteID {
	return marketdata.QuoteIDOf(f.SecurityID, marketdata.SettlementPrice)
}

// TradedPrice is the price agreed on the trade date.
type TradedPrice struct {
	TradeDate time.Time
	Price     float64
}

// BondFutureTrade is a trade in a bond future at a known price.
type BondFutureTrade struct {
	Info     Info
	Product  BondFuture
	Quantity float64
	Price    float64
}

// BondFuturePosition is an aggregate holding with no traded price.
type BondFuturePosition struct {
	Info          Info
	Product       BondFuture
	LongQuantity  float64
	ShortQuantity float64
}

// ResolvedBondFutureTrade is the resolved form of both trades and positions.
// TradedPrice is nil for positions.
type ResolvedBondFutureTrade struct {
	Info        Info
	Product     ResolvedBondFuture
	Quantity    float64
	TradedPrice *TradedPrice
}

func (t BondFutureTrade) Resolve(rd refdata.ReferenceData) (ResolvedBondFutureTrade, error) {
	if t.Info.TradeDate.IsZero() {
		return ResolvedBondFutureTrade{}, invalid("bond future trade %s: trade date is required", t.Info.ID)
	}
	p, err := t.Product.Resolve(rd)
	if err != nil {
		return ResolvedBondFutureTrade{}, err
	}
	return ResolvedBondFutureTrade{
		Info:        t.Info,
		Product:     p,
		Quantity:    t.Quantity,
		TradedPrice: &TradedPrice{TradeDate: t.Info.TradeDate, Price: t.Price},
	}, nil
}

// Quantity is the net quantity, long minus short.
func (p BondFuturePosition) Quantity() float64 { return p.LongQuantity - p.ShortQuantity }

func (p BondFuturePosition) Resolve(rd refdata.ReferenceData) (ResolvedBondFutureTrade, error) {
	rp, err := p.Product.Resolve(rd)
	if err != nil {
		return ResolvedBondFutureTrade{}, err
	}
	return ResolvedBondFutureTrade{Info: p.Info, Product: rp, Quantity: p.Quantity()}, nil
}
