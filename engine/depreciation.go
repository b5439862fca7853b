/*
depreciation.go - Right-of-use asset walk-down

PURPOSE:
  Produces the ROU closing-balance trajectory under a selected method.
  Independent of the liability trajectory except for the shared term
  length and opening asset value.

METHODS:
  straight_line     (opening - residual) / term, constant per period
  sum_of_years      period i weighted by remaining months over n(n+1)/2
  double_declining  book value x 2/term, clamped so the book value never
                    falls below the residual
  day_weighted      daily rate x calendar days in each month; the daily
                    rate is the depreciable amount over the total days
                    between lease start and end

FINAL-PERIOD PLUG:
  In every method the final period absorbs all rounding residue:
  depreciation[last] = depreciable amount - cumulative so far. This
  guarantees the closing balance lands exactly on the residual (zero
  when no residual is retained) regardless of per-period rounding.
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// Depreciate builds the per-period depreciation schedule for the ROU
// asset. Each entry carries the period date (lease start shifted by the
// period index), the rounded depreciation charge, and the closing
// balance.
func Depreciate(openingROU decimal.Decimal, termMonths int, method DepreciationMethod, residual decimal.Decimal, startDate time.Time) ([]DepreciationEntry, error) {
	if termMonths < 1 {
		return nil, &InvalidInputError{Field: "term_months", Reason: "must be at least 1"}
	}
	if !openingROU.IsPositive() {
		return nil, &InvalidInputError{Field: "rou_asset", Reason: "must be positive"}
	}
	if residual.IsNegative() {
		return nil, &InvalidInputError{Field: "residual_value", Reason: "must be non-negative"}
	}
	if residual.GreaterThanOrEqual(openingROU) {
		return nil, &InvalidInputError{Field: "residual_value", Reason: "must be less than the ROU asset"}
	}
	if !KnownMethod(method) {
		return nil, &InvalidInputError{Field: "method", Reason: "unknown depreciation method"}
	}

	depreciable := openingROU.Sub(residual)
	term := decimal.NewFromInt(int64(termMonths))

	// Method-specific precomputation.
	var (
		straightLineMonthly decimal.Decimal
		sumOfMonths         decimal.Decimal
		decliningRate       decimal.Decimal
		dailyRate           decimal.Decimal
	)
	switch method {
	case MethodStraightLine:
		straightLineMonthly = depreciable.Div(term)
	case MethodSumOfYears:
		sumOfMonths = term.Mul(term.Add(one)).Div(two)
	case MethodDoubleDeclining:
		decliningRate = two.Div(term)
	case MethodDayWeighted:
		totalDays := DaysBetween(startDate, MonthAt(startDate, termMonths))
		if totalDays == 0 {
			return nil, &InvalidInputError{Field: "start_date", Reason: "lease term spans zero calendar days"}
		}
		dailyRate = depreciable.Div(decimal.NewFromInt(int64(totalDays)))
	}

	entries := make([]DepreciationEntry, 0, termMonths)
	cumulative := decimal.Zero
	remainingMonths := int64(termMonths)

	for i := 0; i < termMonths; i++ {
		var depr decimal.Decimal

		switch method {
		case MethodStraightLine:
			depr = straightLineMonthly
		case MethodSumOfYears:
			depr = decimal.NewFromInt(remainingMonths).Div(sumOfMonths).Mul(depreciable)
			remainingMonths--
		case MethodDoubleDeclining:
			bookValue := openingROU.Sub(cumulative)
			depr = bookValue.Mul(decliningRate)
			if bookValue.Sub(depr).LessThan(residual) {
				depr = bookValue.Sub(residual)
			}
		case MethodDayWeighted:
			days := DaysBetween(MonthAt(startDate, i), MonthAt(startDate, i+1))
			depr = dailyRate.Mul(decimal.NewFromInt(int64(days)))
		}

		// Balancing plug: the last period absorbs rounding residue.
		if i == termMonths-1 {
			depr = depreciable.Sub(cumulative)
		}

		depr = round2(depr)
		cumulative = cumulative.Add(depr)

		entries = append(entries, DepreciationEntry{
			Date:           MonthAt(startDate, i),
			Depreciation:   depr,
			ClosingBalance: round2(openingROU.Sub(cumulative)),
		})
	}
	return entries, nil
}
