/*
modification.go - Lease modification and reassessment splicing

PURPOSE:
  Given an existing schedule and a cutover date, truncates the
  pre-modification portion, measures carrying amounts at the cutover,
  and splices a freshly generated schedule for the revised terms onto
  the truncated original. Period numbers stay contiguous across the
  splice and pre-modification rows are untouched.

ROU ADJUSTMENT (IFRS 16 para 45-46):
  Modification accounting is asymmetric. The liability is remeasured to
  the present value of the revised payments, but the ROU asset is
  ADJUSTED by the liability delta, not replaced:

      newROU = carryingROU + (newLiability - carryingLiability)

  When the adjustment would drive the asset negative, the asset is
  floored at zero and the excess is a gain recognized in profit or loss.
  The gain is surfaced on the result for the journal layer; it is never
  absorbed into the asset.

CLASSIFICATION:
  Whether an event is a "modification" or a "reassessment" is
  caller-supplied metadata. The engine computes the same splice either
  way.
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// ModificationResult carries the spliced schedule plus the measurements
// taken at the cutover date.
type ModificationResult struct {
	Schedule      Schedule
	EffectiveDate time.Time

	// Carrying amounts from the last pre-modification row
	// (zero when the modification predates every row).
	CarryingLiability decimal.Decimal
	CarryingROU       decimal.Decimal

	// Remeasured amounts for the revised terms.
	NewLiability decimal.Decimal
	NewROU       decimal.Decimal

	// GainToProfitLoss is non-zero when the ROU adjustment was floored
	// at zero; the excess belongs in P&L, not the asset.
	GainToProfitLoss decimal.Decimal
}

// Modify truncates the original schedule at the effective date and
// appends a schedule for the revised payment stream and rate.
func Modify(original Schedule, leaseStart, effectiveDate time.Time, newPayments PaymentStream, newAnnualRate decimal.Decimal, method DepreciationMethod, residual decimal.Decimal) (*ModificationResult, error) {
	if !effectiveDate.After(leaseStart) {
		return nil, &ModificationTimingError{EffectiveDate: effectiveDate, LeaseStart: leaseStart}
	}
	if len(newPayments) == 0 {
		return nil, &InvalidInputError{Field: "new_payments", Reason: "must not be empty"}
	}

	pre := original.RowsBefore(effectiveDate)

	carryingLiability := decimal.Zero
	carryingROU := decimal.Zero
	lastPeriod := 0
	if len(pre) > 0 {
		last := pre[len(pre)-1]
		carryingLiability = last.ClosingLiability
		carryingROU = last.ROUBalance
		lastPeriod = last.Period
	}

	newLiability, err := PresentValue(newPayments, newAnnualRate, TimingArrears)
	if err != nil {
		return nil, err
	}

	// Asymmetric adjustment: the asset moves by the liability delta.
	rouBasis := round2(carryingROU.Add(newLiability.Sub(carryingLiability)))
	gain := decimal.Zero
	if rouBasis.IsNegative() {
		gain = rouBasis.Neg()
		rouBasis = decimal.Zero
	}

	termMonths := len(newPayments)
	amort, err := Amortize(newLiability, newPayments, newAnnualRate.Div(twelve), TimingArrears)
	if err != nil {
		return nil, err
	}

	depr, err := depreciateOrFlat(rouBasis, termMonths, method, residual, effectiveDate)
	if err != nil {
		return nil, err
	}

	rows := make([]ScheduleRow, 0, len(pre)+termMonths)
	rows = append(rows, pre...)
	for i := 0; i < termMonths; i++ {
		rows = append(rows, ScheduleRow{
			Period:           lastPeriod + i + 1,
			Date:             depr[i].Date,
			Payment:          newPayments[i],
			Interest:         amort[i].Interest,
			Principal:        amort[i].Principal,
			ClosingLiability: amort[i].ClosingLiability,
			Depreciation:     depr[i].Depreciation,
			ROUBalance:       depr[i].ClosingBalance,
			TotalExpense:     round2(amort[i].Interest.Add(depr[i].Depreciation)),
		})
	}

	return &ModificationResult{
		Schedule:          Schedule{Rows: rows},
		EffectiveDate:     effectiveDate,
		CarryingLiability: carryingLiability,
		CarryingROU:       carryingROU,
		NewLiability:      newLiability,
		NewROU:            rouBasis,
		GainToProfitLoss:  gain,
	}, nil
}

// depreciateOrFlat handles the fully-written-off asset: a zero basis
// produces zero depreciation rows rather than an input error, since the
// liability schedule must still run.
func depreciateOrFlat(rouBasis decimal.Decimal, termMonths int, method DepreciationMethod, residual decimal.Decimal, startDate time.Time) ([]DepreciationEntry, error) {
	if rouBasis.IsPositive() {
		return Depreciate(rouBasis, termMonths, method, residual, startDate)
	}
	if residual.IsPositive() {
		return nil, &InvalidInputError{Field: "residual_value", Reason: "cannot exceed a written-off ROU asset"}
	}
	entries := make([]DepreciationEntry, 0, termMonths)
	for i := 0; i < termMonths; i++ {
		entries = append(entries, DepreciationEntry{
			Date:           MonthAt(startDate, i),
			Depreciation:   decimal.Zero,
			ClosingBalance: decimal.Zero,
		})
	}
	return entries, nil
}
