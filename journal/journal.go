// Package journal records calculation runs and their results.
package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status of a recorded result.
const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
)

// RunRecord describes one invocation of the engine.
type RunRecord struct {
	RunID         string
	CreatedAt     time.Time
	ValuationDate time.Time
	Scenarios     int
	Targets       int
	Source        string
}

// ResultRecord is one measure value for one target and scenario. Amount is
// set for monetary values, Value holds the printed form of anything else.
// Aggregate measures use scenario -1.
type ResultRecord struct {
	RunID      string
	TargetID   string
	TargetType string
	Measure    string
	Scenario   int
	Status     string
	Reason     string
	Message    string
	Currency   string
	Amount     decimal.NullDecimal
	Value      string
}

type Journal interface {
	RecordRun(RunRecord) error
	RecordResult(ResultRecord) error
	Close() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRun(RunRecord) error       { return nil }
func (Nop) RecordResult(ResultRecord) error { return nil }
func (Nop) Close() error                    { return nil }
