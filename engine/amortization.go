/*
amortization.go - Effective-interest liability walk-down

PURPOSE:
  Walks the payment sequence forward, splitting each payment into
  interest (on the opening liability) and principal (the remainder),
  producing a closing-liability trajectory that reaches zero at term
  end.

STATE:
  The only state carried period to period is the running liability
  balance. Nothing else mutates.

ROUNDING:
  Interest and principal are rounded to 2 decimals each period. A
  closing balance within one currency unit of zero is snapped to
  exactly zero - a rounding-tolerance snap, not a business rule. It
  prevents stray cents and negative-zero artifacts at term end.
*/
package engine

import "github.com/shopspring/decimal"

// Amortize splits each payment into interest and principal at the given
// monthly rate and returns one entry per payment.
//
// For TimingArrears, interest accrues on the opening balance before each
// payment. For TimingAdvance, the first payment is pure principal and
// interest accrues on the post-payment balance from period 1 onward.
func Amortize(openingLiability decimal.Decimal, payments PaymentStream, monthlyRate decimal.Decimal, timing PaymentTiming) ([]AmortizationEntry, error) {
	if len(payments) == 0 {
		return nil, &InvalidInputError{Field: "payments", Reason: "must not be empty"}
	}
	if monthlyRate.IsNegative() {
		return nil, &InvalidInputError{Field: "monthly_rate", Reason: "must be non-negative"}
	}

	entries := make([]AmortizationEntry, 0, len(payments))
	remaining := openingLiability

	for i, payment := range payments {
		var interest decimal.Decimal
		if timing == TimingAdvance && i == 0 {
			interest = decimal.Zero
		} else {
			interest = round2(remaining.Mul(monthlyRate))
		}
		principal := round2(payment.Sub(interest))

		remaining = round2(remaining.Sub(principal))
		if remaining.Abs().LessThan(ZeroTolerance) {
			remaining = decimal.Zero
		}

		entries = append(entries, AmortizationEntry{
			Interest:         interest,
			Principal:        principal,
			ClosingLiability: remaining,
		})
	}
	return entries, nil
}
