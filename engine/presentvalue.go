/*
presentvalue.go - Discounting a payment stream to a lease liability

PURPOSE:
  Discounts a payment sequence to a single opening liability at a
  monthly-compounded rate. The zero-rate case degenerates to the plain
  sum of payments; it is special-cased rather than allowed to divide
  by zero.

TIMING:
  TimingArrears treats payments as end-of-period (ordinary annuity,
  discount exponent i+1). TimingAdvance treats them as start-of-period
  (annuity due, exponent i), so the first payment is undiscounted.
*/
package engine

import "github.com/shopspring/decimal"

// PresentValue discounts the payment stream at annualRate (a fraction,
// e.g. 0.06 for 6%) using monthly compounding. The result is rounded
// to 2 decimal places.
func PresentValue(payments PaymentStream, annualRate decimal.Decimal, timing PaymentTiming) (decimal.Decimal, error) {
	if len(payments) == 0 {
		return decimal.Zero, &InvalidInputError{Field: "payments", Reason: "must not be empty"}
	}
	if annualRate.IsNegative() {
		return decimal.Zero, &InvalidInputError{Field: "annual_rate", Reason: "must be non-negative"}
	}

	monthlyRate := annualRate.Div(twelve)
	if monthlyRate.IsZero() {
		return round2(payments.Total()), nil
	}

	base := one.Add(monthlyRate)
	pv := decimal.Zero
	for i, payment := range payments {
		exponent := int64(i + 1)
		if timing == TimingAdvance {
			exponent = int64(i)
		}
		pv = pv.Add(payment.Div(base.Pow(decimal.NewFromInt(exponent))))
	}
	return round2(pv), nil
}
