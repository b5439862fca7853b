/*
exemption.go - IFRS 16 practical-expedient exemptions

PURPOSE:
  Evaluates the two recognition exemptions before any measurement runs:
  - Short-term (IFRS 16.6): total term under 12 months. The boundary is
    strict: an 11-month lease is exempt, a 12-month lease is not.
  - Low-value (IFRS 16.5): monthly payment below a configurable
    threshold (default 5000 currency units).

  Either condition routes the lease to straight-line expense recognition
  with no ROU asset or liability computed at all.
*/
package lease

import (
	"github.com/shopspring/decimal"
	"github.com/warp/lease-engine/engine"
)

// DefaultLowValueThreshold is the monthly payment below which a lease
// qualifies as low-value.
var DefaultLowValueThreshold = decimal.NewFromInt(5000)

// ExemptionStatus records which exemptions apply to a lease.
type ExemptionStatus struct {
	ShortTerm bool
	LowValue  bool
	Exempt    bool
	Reasons   []string
}

// EvaluateExemptions checks the practical expedients for the given terms.
func EvaluateExemptions(t Terms) ExemptionStatus {
	threshold := t.LowValueThreshold
	if !threshold.IsPositive() {
		threshold = DefaultLowValueThreshold
	}

	status := ExemptionStatus{
		ShortTerm: t.TermMonths < 12,
		LowValue:  t.MonthlyPayment.LessThan(threshold),
	}
	if status.ShortTerm {
		status.Reasons = append(status.Reasons, "Short-term lease (IFRS 16.6)")
	}
	if status.LowValue {
		status.Reasons = append(status.Reasons, "Low-value lease (IFRS 16.5)")
	}
	status.Exempt = status.ShortTerm || status.LowValue
	return status
}

// ExpenseSchedule builds the straight-line expense schedule for an
// exempt lease: one row per month, each for the nominal payment.
func ExpenseSchedule(t Terms) ([]ExpenseRow, error) {
	if t.TermMonths < 1 {
		return nil, &engine.InvalidInputError{Field: "term_months", Reason: "must be at least 1"}
	}
	rows := make([]ExpenseRow, 0, t.TermMonths)
	for i := 0; i < t.TermMonths; i++ {
		rows = append(rows, ExpenseRow{
			Period:  i + 1,
			Date:    engine.MonthAt(t.StartDate, i),
			Expense: t.MonthlyPayment.Round(2),
		})
	}
	return rows, nil
}
