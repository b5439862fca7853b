/*
validate.go - Structured schedule validation

PURPOSE:
  Checks a finished schedule against the properties every valid lease
  model must satisfy and returns structured results. Pass/fail is data,
  not an exception: the function never errors on a failing property, so
  a report renderer or test runner can display every outcome.

PROPERTIES:
  liability_zero_out          final closing liability within 1 unit of 0
  rou_residual_out            final ROU balance within 1 unit of residual
  depreciation_conservation   total depreciation = opening ROU - residual
  contiguous_periods          period numbers run 1..N with no gaps
  payment_split               interest + principal = payment, every row
*/
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PropertyCheck is one validation outcome.
type PropertyCheck struct {
	Name   string
	Passed bool
	Detail string
}

// ValidateSchedule runs every schedule property and returns the results
// in a fixed order.
func ValidateSchedule(s Schedule, openingROU, residual decimal.Decimal) []PropertyCheck {
	if s.IsEmpty() {
		return []PropertyCheck{{
			Name:   "non_empty",
			Passed: false,
			Detail: "schedule has no rows",
		}}
	}

	checks := []PropertyCheck{{Name: "non_empty", Passed: true, Detail: fmt.Sprintf("%d rows", s.Len())}}

	last := s.Last()

	checks = append(checks, tolerance("liability_zero_out", last.ClosingLiability, decimal.Zero))
	checks = append(checks, tolerance("rou_residual_out", last.ROUBalance, residual))
	checks = append(checks, tolerance("depreciation_conservation", s.TotalDepreciation(), openingROU.Sub(residual)))

	contiguous := true
	for i, r := range s.Rows {
		if r.Period != i+1 {
			contiguous = false
			break
		}
	}
	detail := "periods run 1.." + fmt.Sprint(s.Len())
	if !contiguous {
		detail = "period numbers have gaps or duplicates"
	}
	checks = append(checks, PropertyCheck{Name: "contiguous_periods", Passed: contiguous, Detail: detail})

	split := true
	for _, r := range s.Rows {
		if r.Interest.Add(r.Principal).Sub(r.Payment).Abs().GreaterThanOrEqual(ZeroTolerance) {
			split = false
			break
		}
	}
	detail = "interest + principal matches payment in every row"
	if !split {
		detail = "a row's interest + principal diverges from its payment"
	}
	checks = append(checks, PropertyCheck{Name: "payment_split", Passed: split, Detail: detail})

	return checks
}

func tolerance(name string, actual, expected decimal.Decimal) PropertyCheck {
	diff := actual.Sub(expected).Abs()
	passed := diff.LessThan(ZeroTolerance)
	detail := fmt.Sprintf("expected %s, got %s", expected.StringFixed(2), actual.StringFixed(2))
	return PropertyCheck{Name: name, Passed: passed, Detail: detail}
}
