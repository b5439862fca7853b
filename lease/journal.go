/*
journal.go - Journal-entry derivation

PURPOSE:
  Derives double-entry journal lines from a model run:
  - Initial recognition: Dr ROU Asset / Cr Lease Liability, with direct
    cost and incentive lines when present
  - Recurring monthly: Dr Depreciation Expense + Dr Interest Expense /
    Cr Lease Liability (principal) + Cr Cash/Bank (payment)
  - Modification adjustment at the cutover, including the P&L gain line
    when the ROU asset was floored at zero
  - Exempt lease: Dr Lease Expense / Cr Cash

  Every entry balances: total debits equal total credits.
*/
package lease

import (
	"github.com/shopspring/decimal"
	"github.com/warp/lease-engine/engine"
)

// Side marks a journal line as debit or credit.
type Side string

const (
	Debit  Side = "Dr"
	Credit Side = "Cr"
)

// JournalLine is one line of a journal entry.
type JournalLine struct {
	Account string
	Side    Side
	Amount  decimal.Decimal
}

// InitialRecognition derives the inception entry for a capitalized lease.
func InitialRecognition(r *ModelResult) []JournalLine {
	lines := []JournalLine{
		{Account: "Right-of-use Asset", Side: Debit, Amount: r.ROUAsset},
		{Account: "Lease Liability", Side: Credit, Amount: r.Liability},
	}
	if r.Terms.InitialDirectCosts.IsPositive() {
		lines = append(lines, JournalLine{Account: "Cash/Bank (direct costs)", Side: Credit, Amount: r.Terms.InitialDirectCosts})
	}
	if r.Terms.Incentives.IsPositive() {
		lines = append(lines, JournalLine{Account: "Cash/Bank (incentives received)", Side: Debit, Amount: r.Terms.Incentives})
	}
	if r.Terms.Prepayments.IsPositive() {
		lines = append(lines, JournalLine{Account: "Prepaid Lease Payments", Side: Credit, Amount: r.Terms.Prepayments})
	}
	return lines
}

// RecurringEntry derives the monthly entry for one schedule row.
func RecurringEntry(row engine.ScheduleRow) []JournalLine {
	return []JournalLine{
		{Account: "Depreciation Expense", Side: Debit, Amount: row.Depreciation},
		{Account: "Interest Expense", Side: Debit, Amount: row.Interest},
		{Account: "Lease Liability", Side: Debit, Amount: row.Principal},
		{Account: "Cash/Bank", Side: Credit, Amount: row.Payment},
		{Account: "Accumulated Depreciation - ROU", Side: Credit, Amount: row.Depreciation},
	}
}

// ModificationEntry derives the adjustment entry at a modification
// cutover from the deltas the processor measured.
func ModificationEntry(mod *engine.ModificationResult) []JournalLine {
	var lines []JournalLine

	rouDelta := mod.NewROU.Sub(mod.CarryingROU)
	liabilityDelta := mod.NewLiability.Sub(mod.CarryingLiability)

	switch {
	case rouDelta.IsPositive():
		lines = append(lines, JournalLine{Account: "Right-of-use Asset (modification)", Side: Debit, Amount: rouDelta})
	case rouDelta.IsNegative():
		lines = append(lines, JournalLine{Account: "Right-of-use Asset (modification)", Side: Credit, Amount: rouDelta.Abs()})
	}

	switch {
	case liabilityDelta.IsPositive():
		lines = append(lines, JournalLine{Account: "Lease Liability (modification)", Side: Credit, Amount: liabilityDelta})
	case liabilityDelta.IsNegative():
		lines = append(lines, JournalLine{Account: "Lease Liability (modification)", Side: Debit, Amount: liabilityDelta.Abs()})
	}

	if mod.GainToProfitLoss.IsPositive() {
		lines = append(lines, JournalLine{Account: "Gain on Lease Modification (P&L)", Side: Credit, Amount: mod.GainToProfitLoss})
	}

	return lines
}

// ExemptMonthlyEntry derives the monthly entry for an exempt lease.
func ExemptMonthlyEntry(row ExpenseRow) []JournalLine {
	return []JournalLine{
		{Account: "Lease Expense", Side: Debit, Amount: row.Expense},
		{Account: "Cash/Bank", Side: Credit, Amount: row.Expense},
	}
}

// Balances reports whether total debits equal total credits.
func Balances(lines []JournalLine) bool {
	dr := decimal.Zero
	cr := decimal.Zero
	for _, l := range lines {
		if l.Side == Debit {
			dr = dr.Add(l.Amount)
		} else {
			cr = cr.Add(l.Amount)
		}
	}
	return dr.Equal(cr)
}
