/*
schedule.go - Joining the liability and ROU trajectories into one table

PURPOSE:
  Builds the full amortization schedule: the amortization engine and the
  depreciation engine run over the same term and are combined row by
  row. The schedule is the primary artifact consumed by every downstream
  reporting component.

LENGTH INVARIANT:
  The payment stream length must match the declared term. This is
  checked before any computation proceeds.
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// RightOfUseAsset measures the opening ROU asset from the lease
// liability: liability + initial direct costs - incentives + prepayments.
// All inputs must be non-negative.
func RightOfUseAsset(liability, directCosts, incentives, prepayments decimal.Decimal) (decimal.Decimal, error) {
	for _, in := range []struct {
		field string
		value decimal.Decimal
	}{
		{"liability", liability},
		{"direct_costs", directCosts},
		{"incentives", incentives},
		{"prepayments", prepayments},
	} {
		if in.value.IsNegative() {
			return decimal.Zero, &InvalidInputError{Field: in.field, Reason: "must be non-negative"}
		}
	}
	return round2(liability.Add(directCosts).Sub(incentives).Add(prepayments)), nil
}

// BuildSchedule produces the combined amortization table and its summary.
//
// The opening liability is measured as the present value of the payment
// stream at annualRate (end-of-period timing). Each row pairs the
// period's liability split with the same period's depreciation charge.
func BuildSchedule(startDate time.Time, payments PaymentStream, annualRate decimal.Decimal, termMonths int, rouAsset decimal.Decimal, method DepreciationMethod, residual decimal.Decimal) (Schedule, Summary, error) {
	if len(payments) != termMonths {
		return Schedule{}, Summary{}, &InconsistentLengthError{Declared: termMonths, Actual: len(payments)}
	}

	liability, err := PresentValue(payments, annualRate, TimingArrears)
	if err != nil {
		return Schedule{}, Summary{}, err
	}

	amort, err := Amortize(liability, payments, annualRate.Div(twelve), TimingArrears)
	if err != nil {
		return Schedule{}, Summary{}, err
	}

	depr, err := Depreciate(rouAsset, termMonths, method, residual, startDate)
	if err != nil {
		return Schedule{}, Summary{}, err
	}

	rows := make([]ScheduleRow, 0, termMonths)
	for i := 0; i < termMonths; i++ {
		rows = append(rows, ScheduleRow{
			Period:           i + 1,
			Date:             depr[i].Date,
			Payment:          payments[i],
			Interest:         amort[i].Interest,
			Principal:        amort[i].Principal,
			ClosingLiability: amort[i].ClosingLiability,
			Depreciation:     depr[i].Depreciation,
			ROUBalance:       depr[i].ClosingBalance,
			TotalExpense:     round2(amort[i].Interest.Add(depr[i].Depreciation)),
		})
	}

	schedule := Schedule{Rows: rows}
	summary := Summary{
		InitialLiability: liability,
		ROUAsset:         rouAsset,
		TotalPayments:    payments.Total(),
		TotalInterest:    schedule.TotalInterest(),
		Method:           method,
		ResidualValue:    residual,
		AnnualRate:       annualRate,
	}
	return schedule, summary, nil
}
