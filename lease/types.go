/*
Package lease layers IFRS 16 domain orchestration on top of the engine.

PURPOSE:
  Turns user-entered lease terms into a complete model run: input
  validation, residual-value folding, exemption routing, schedule
  generation, and journal-entry derivation. The engine package stays
  domain-agnostic arithmetic; this package owns the IFRS 16 policy.

KEY CONCEPTS IN THIS FILE (types.go):
  - Terms: The immutable lease input, complete per call (no session state)
  - ModelResult: Everything a reporting layer needs from one run
  - ModificationEvent: A user-raised modification or reassessment

SEE ALSO:
  - model.go: The Run orchestration
  - exemption.go: Short-term / low-value practical expedients
  - journal.go: Journal-entry derivation
*/
package lease

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/lease-engine/engine"
)

// Terms is the complete lease input. It is supplied whole on every run;
// the model keeps no state between calls.
type Terms struct {
	// Labels are opaque to the engine; they only flow into reports.
	Name       string
	Entity     string
	Location   string
	AssetClass string

	StartDate           time.Time
	TermMonths          int
	MonthlyPayment      decimal.Decimal
	DiscountRatePercent decimal.Decimal
	CPIPercent          decimal.Decimal

	// Adjustments is a sparse map of 0-based month index to percent
	// delta, applied on top of CPI escalation.
	Adjustments map[int]decimal.Decimal

	InitialDirectCosts decimal.Decimal
	Incentives         decimal.Decimal
	Prepayments        decimal.Decimal
	ResidualValue      decimal.Decimal

	DepreciationMethod engine.DepreciationMethod

	// LowValueThreshold overrides the default low-value exemption
	// threshold when positive.
	LowValueThreshold decimal.Decimal
}

// ModificationEvent describes a modification or reassessment raised by
// the user. Classification (Kind) is caller-supplied metadata; the
// engine computes the same splice either way.
type ModificationEvent struct {
	EffectiveDate      time.Time
	NewTermMonths      int
	NewMonthlyPayment  decimal.Decimal
	NewDiscountRatePct decimal.Decimal
	Kind               string // "modification" or "reassessment"
	Reason             string // audit trail
}

// ExpenseRow is one period of the straight-line expense schedule used
// for exempt leases.
type ExpenseRow struct {
	Period  int
	Date    time.Time
	Expense decimal.Decimal
}

// ModelResult is the output of one model run.
type ModelResult struct {
	Terms     Terms
	Exemption ExemptionStatus

	// Populated for capitalized leases.
	Payments  engine.PaymentStream
	Liability decimal.Decimal
	ROUAsset  decimal.Decimal
	Schedule  engine.Schedule
	Summary   engine.Summary
	Checks    []engine.PropertyCheck

	// Populated instead of the above when the lease is exempt.
	ExpenseRows []ExpenseRow
}

// Capitalized reports whether the run produced a liability and ROU asset.
func (r *ModelResult) Capitalized() bool { return !r.Exemption.Exempt }
