/*
metrics.go - Disclosure aggregation over a finished schedule

PURPOSE:
  Post-processes a full schedule into period-bucketed disclosures: the
  current/non-current liability split at a reporting date and calendar
  year sums for depreciation, interest, and principal.

CURRENT / NON-CURRENT SPLIT:
  At the reporting date, the "current" liability is the sum of principal
  repayments falling due in the twelve months immediately following the
  reporting date. "Non-current" is the outstanding liability at the
  reporting date minus the current portion. The outstanding value is the
  closing liability of the last row dated on or before the reporting
  date; before the first row it is the full principal total.

OUT-OF-RANGE DATES:
  A reporting year with no schedule rows reports zeros. It never raises.
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// YearMetrics is one calendar-year disclosure bundle.
type YearMetrics struct {
	Year                int
	Depreciation        decimal.Decimal
	Interest            decimal.Decimal
	PrincipalPayments   decimal.Decimal
	LiabilityCurrent    decimal.Decimal
	LiabilityNonCurrent decimal.Decimal
	ROUBalance          decimal.Decimal
}

// Disclosure is the metrics bundle pair for a reporting date.
type Disclosure struct {
	ReportingDate time.Time
	CurrentYear   YearMetrics
	PriorYear     YearMetrics
}

// Aggregate restricts the schedule to the reporting year and the year
// before and computes the disclosure bundles for both.
func Aggregate(s Schedule, reportingDate time.Time) Disclosure {
	return Disclosure{
		ReportingDate: reportingDate,
		CurrentYear:   yearMetrics(s, reportingDate),
		PriorYear:     yearMetrics(s, reportingDate.AddDate(-1, 0, 0)),
	}
}

func yearMetrics(s Schedule, refDate time.Time) YearMetrics {
	m := YearMetrics{
		Year:                refDate.Year(),
		Depreciation:        decimal.Zero,
		Interest:            decimal.Zero,
		PrincipalPayments:   decimal.Zero,
		LiabilityCurrent:    decimal.Zero,
		LiabilityNonCurrent: decimal.Zero,
		ROUBalance:          decimal.Zero,
	}

	rows := s.RowsInYear(refDate.Year())
	for _, r := range rows {
		m.Depreciation = m.Depreciation.Add(r.Depreciation)
		m.Interest = m.Interest.Add(r.Interest)
		m.PrincipalPayments = m.PrincipalPayments.Add(r.Principal)
	}
	if len(rows) > 0 {
		m.ROUBalance = rows[len(rows)-1].ROUBalance
	}

	m.LiabilityCurrent, m.LiabilityNonCurrent = maturitySplit(s, refDate)
	return m
}

// maturitySplit computes the current portion (principal due within the
// twelve months after refDate) and the non-current remainder of the
// liability outstanding at refDate.
func maturitySplit(s Schedule, refDate time.Time) (current, nonCurrent decimal.Decimal) {
	current = decimal.Zero
	oneYearLater := refDate.AddDate(1, 0, 0)
	for _, r := range s.Rows {
		if r.Date.After(refDate) && !r.Date.After(oneYearLater) {
			current = current.Add(r.Principal)
		}
	}

	nonCurrent = outstandingAt(s, refDate).Sub(current)
	if nonCurrent.IsNegative() {
		nonCurrent = decimal.Zero
	}
	return current, nonCurrent
}

// outstandingAt locates the liability balance at (or just before) the
// reporting date.
func outstandingAt(s Schedule, refDate time.Time) decimal.Decimal {
	if s.IsEmpty() {
		return decimal.Zero
	}
	if refDate.Before(s.Rows[0].Date) {
		// Before the first payment the whole principal is outstanding.
		return s.TotalPrincipal()
	}
	outstanding := decimal.Zero
	for _, r := range s.Rows {
		if r.Date.After(refDate) {
			break
		}
		outstanding = r.ClosingLiability
	}
	return outstanding
}
