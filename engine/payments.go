/*
payments.go - Nominal payment stream generation

PURPOSE:
  Produces the ordered sequence of nominal lease payments for the term,
  applying annual CPI escalation and optional discrete mid-term
  adjustments.

ESCALATION POLICY:
  CPI escalation steps ANNUALLY: month index m carries the factor
  (1 + cpi/100)^(m / 12, floored). The payment revises on each lease
  anniversary and holds flat in between, which matches how index-linked
  rent reviews are applied in practice. Continuous monthly compounding
  was considered and rejected; see DESIGN.md.

DISCRETE ADJUSTMENTS:
  A sparse mapping of month index to percent delta, applied
  multiplicatively on top of the CPI factor. Used for negotiated
  step-ups or rent-free concessions at known months.
*/
package engine

import "github.com/shopspring/decimal"

// GeneratePayments builds the payment stream for the lease term.
//
// base is the uninflated monthly payment, cpiPercent the expected annual
// CPI increase (0 disables escalation), adjustments an optional sparse
// map of 0-based month index to percent delta. Every payment is rounded
// to 2 decimal places.
func GeneratePayments(base decimal.Decimal, termMonths int, cpiPercent decimal.Decimal, adjustments map[int]decimal.Decimal) (PaymentStream, error) {
	if termMonths < 1 {
		return nil, &InvalidInputError{Field: "term_months", Reason: "must be at least 1"}
	}
	if base.IsNegative() {
		return nil, &InvalidInputError{Field: "base_payment", Reason: "must be non-negative"}
	}
	if cpiPercent.IsNegative() {
		return nil, &InvalidInputError{Field: "cpi_percent", Reason: "must be non-negative"}
	}

	annualFactor := one.Add(cpiPercent.Div(oneHundred))

	payments := make(PaymentStream, 0, termMonths)
	for m := 0; m < termMonths; m++ {
		payment := base

		if !cpiPercent.IsZero() {
			yearsElapsed := int64(m / 12)
			payment = payment.Mul(annualFactor.Pow(decimal.NewFromInt(yearsElapsed)))
		}

		if delta, ok := adjustments[m]; ok {
			payment = payment.Mul(one.Add(delta.Div(oneHundred)))
		}

		payments = append(payments, round2(payment))
	}
	return payments, nil
}
