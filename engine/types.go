/*
Package engine provides the core IFRS 16 lease measurement engine.

PURPOSE:
  This package contains the pure financial calculations behind a lease
  accounting model: payment stream generation, present value, effective
  interest amortization, right-of-use depreciation, modification splicing,
  and disclosure aggregation. Every function is a pure function of its
  inputs - no I/O, no shared state, no hidden carry-over between calls.

KEY CONCEPTS IN THIS FILE (types.go):
  - PaymentStream: The ordered nominal payments for the lease term
  - ScheduleRow: One period of the combined amortization table
  - Schedule: The ordered, immutable amortization table
  - PaymentTiming / DepreciationMethod: Policy enums

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point drift
  2. Immutability: Rows are produced once and never mutated
  3. Determinism: Same inputs always produce the same schedule
  4. Fail fast, fail typed: see errors.go

USAGE:
  payments, _ := engine.GeneratePayments(base, 36, cpi, nil)
  schedule, summary, _ := engine.BuildSchedule(start, payments, rate, 36,
      rou, engine.MethodStraightLine, decimal.Zero)

SEE ALSO:
  - amortization.go: Liability walk-down
  - depreciation.go: ROU asset walk-down
  - modification.go: Schedule splicing at a cutover date
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// POLICY ENUMS
// =============================================================================

// PaymentTiming selects between ordinary-annuity and annuity-due treatment.
type PaymentTiming string

const (
	// TimingArrears discounts payments as end-of-period (ordinary annuity).
	TimingArrears PaymentTiming = "arrears"
	// TimingAdvance discounts payments as start-of-period (annuity due).
	TimingAdvance PaymentTiming = "advance"
)

// DepreciationMethod selects how the right-of-use asset is written down.
type DepreciationMethod string

const (
	MethodStraightLine    DepreciationMethod = "straight_line"
	MethodSumOfYears      DepreciationMethod = "sum_of_years"
	MethodDoubleDeclining DepreciationMethod = "double_declining"
	// MethodDayWeighted apportions depreciation by calendar days per month
	// instead of treating every period as equal.
	MethodDayWeighted DepreciationMethod = "day_weighted"
)

// KnownMethod reports whether m is one of the supported depreciation methods.
func KnownMethod(m DepreciationMethod) bool {
	switch m {
	case MethodStraightLine, MethodSumOfYears, MethodDoubleDeclining, MethodDayWeighted:
		return true
	}
	return false
}

// =============================================================================
// PAYMENT STREAM
// =============================================================================

// PaymentStream is the ordered sequence of nominal monthly payments.
// Index 0 is the first payment. Built once, immutable thereafter.
type PaymentStream []decimal.Decimal

// Total returns the undiscounted sum of all payments.
func (p PaymentStream) Total() decimal.Decimal {
	total := decimal.Zero
	for _, payment := range p {
		total = total.Add(payment)
	}
	return total
}

// =============================================================================
// SCHEDULE - The primary artifact of the engine
// =============================================================================

// AmortizationEntry is one period of the liability walk-down.
type AmortizationEntry struct {
	Interest         decimal.Decimal
	Principal        decimal.Decimal
	ClosingLiability decimal.Decimal
}

// DepreciationEntry is one period of the ROU asset walk-down.
type DepreciationEntry struct {
	Date           time.Time
	Depreciation   decimal.Decimal
	ClosingBalance decimal.Decimal
}

// ScheduleRow is one period of the combined amortization table.
// Produced once per period and immutable after creation.
type ScheduleRow struct {
	Period           int
	Date             time.Time
	Payment          decimal.Decimal
	Interest         decimal.Decimal
	Principal        decimal.Decimal
	ClosingLiability decimal.Decimal
	Depreciation     decimal.Decimal
	ROUBalance       decimal.Decimal
	TotalExpense     decimal.Decimal
}

// Schedule is the full ordered amortization table.
type Schedule struct {
	Rows []ScheduleRow
}

// Len returns the number of periods in the schedule.
func (s Schedule) Len() int { return len(s.Rows) }

// IsEmpty reports whether the schedule has no rows.
func (s Schedule) IsEmpty() bool { return len(s.Rows) == 0 }

// Last returns the final row. Callers must check IsEmpty first.
func (s Schedule) Last() ScheduleRow { return s.Rows[len(s.Rows)-1] }

// RowsBefore returns the rows strictly before the given date.
func (s Schedule) RowsBefore(date time.Time) []ScheduleRow {
	var rows []ScheduleRow
	for _, r := range s.Rows {
		if r.Date.Before(date) {
			rows = append(rows, r)
		}
	}
	return rows
}

// RowsInYear returns the rows whose date falls in the given calendar year.
func (s Schedule) RowsInYear(year int) []ScheduleRow {
	var rows []ScheduleRow
	for _, r := range s.Rows {
		if r.Date.Year() == year {
			rows = append(rows, r)
		}
	}
	return rows
}

// TotalInterest returns the sum of interest across all rows.
func (s Schedule) TotalInterest() decimal.Decimal {
	total := decimal.Zero
	for _, r := range s.Rows {
		total = total.Add(r.Interest)
	}
	return total
}

// TotalPrincipal returns the sum of principal across all rows.
func (s Schedule) TotalPrincipal() decimal.Decimal {
	total := decimal.Zero
	for _, r := range s.Rows {
		total = total.Add(r.Principal)
	}
	return total
}

// TotalDepreciation returns the sum of depreciation across all rows.
func (s Schedule) TotalDepreciation() decimal.Decimal {
	total := decimal.Zero
	for _, r := range s.Rows {
		total = total.Add(r.Depreciation)
	}
	return total
}

// =============================================================================
// SUMMARY - Scalar outputs alongside a schedule
// =============================================================================

// Summary carries the scalar measurements produced with a schedule.
type Summary struct {
	InitialLiability decimal.Decimal
	ROUAsset         decimal.Decimal
	TotalPayments    decimal.Decimal
	TotalInterest    decimal.Decimal
	Method           DepreciationMethod
	ResidualValue    decimal.Decimal
	AnnualRate       decimal.Decimal
}

// =============================================================================
// SHARED CONSTANTS
// =============================================================================

var (
	one        = decimal.NewFromInt(1)
	two        = decimal.NewFromInt(2)
	twelve     = decimal.NewFromInt(12)
	oneHundred = decimal.NewFromInt(100)

	// ZeroTolerance is the rounding tolerance used to snap closing balances
	// to exactly zero at term end. One currency unit.
	ZeroTolerance = decimal.NewFromInt(1)
)

// round2 rounds a monetary amount to 2 decimal places.
func round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }
