/*
model.go - Full IFRS 16 model run

PURPOSE:
  Orchestrates one complete measurement from lease terms to finished
  schedule:

    1. Validate terms
    2. Evaluate practical-expedient exemptions (may short-circuit)
    3. Generate the escalated payment stream
    4. Fold a residual value guarantee into the final payment
    5. Measure liability (PV) and ROU asset
    6. Build the combined amortization schedule
    7. Attach structured validation results

  Each call is request/response: complete Terms in, complete ModelResult
  out, nothing carried over between calls.
*/
package lease

import (
	"github.com/shopspring/decimal"
	"github.com/warp/lease-engine/engine"
)

// Run executes the full model for the given terms.
func Run(t Terms) (*ModelResult, error) {
	if err := validateTerms(&t); err != nil {
		return nil, err
	}

	result := &ModelResult{Terms: t, Exemption: EvaluateExemptions(t)}

	if result.Exemption.Exempt {
		rows, err := ExpenseSchedule(t)
		if err != nil {
			return nil, err
		}
		result.ExpenseRows = rows
		return result, nil
	}

	payments, err := engine.GeneratePayments(t.MonthlyPayment, t.TermMonths, t.CPIPercent, t.Adjustments)
	if err != nil {
		return nil, err
	}

	// A residual value guarantee cannot exceed what the lessee pays in total.
	if t.ResidualValue.IsPositive() && t.ResidualValue.GreaterThanOrEqual(payments.Total()) {
		return nil, &engine.InvalidInputError{Field: "residual_value", Reason: "cannot exceed total lease payments"}
	}

	// The guaranteed residual is a payment obligation of the final period,
	// so it enters the liability through the payment stream.
	if t.ResidualValue.IsPositive() {
		last := len(payments) - 1
		payments[last] = payments[last].Add(t.ResidualValue)
	}

	annualRate := t.DiscountRatePercent.Div(decimal.NewFromInt(100))
	liability, err := engine.PresentValue(payments, annualRate, engine.TimingArrears)
	if err != nil {
		return nil, err
	}

	rouAsset, err := engine.RightOfUseAsset(liability, t.InitialDirectCosts, t.Incentives, t.Prepayments)
	if err != nil {
		return nil, err
	}
	if t.ResidualValue.GreaterThanOrEqual(rouAsset) {
		return nil, &engine.InvalidInputError{Field: "residual_value", Reason: "must be less than the ROU asset"}
	}

	schedule, summary, err := engine.BuildSchedule(t.StartDate, payments, annualRate, t.TermMonths, rouAsset, t.DepreciationMethod, t.ResidualValue)
	if err != nil {
		return nil, err
	}

	result.Payments = payments
	result.Liability = liability
	result.ROUAsset = rouAsset
	result.Schedule = schedule
	result.Summary = summary
	result.Checks = engine.ValidateSchedule(schedule, rouAsset, t.ResidualValue)
	return result, nil
}

// ApplyModification splices a revised schedule onto an existing run.
// The revised payments are flat (CPI assumptions restart on a revised
// stream only if the caller encodes them into the new payment amount).
func ApplyModification(r *ModelResult, ev ModificationEvent) (*engine.ModificationResult, error) {
	if !r.Capitalized() {
		return nil, &engine.InvalidInputError{Field: "modification", Reason: "exempt leases have no schedule to modify"}
	}
	if ev.NewTermMonths < 1 {
		return nil, &engine.InvalidInputError{Field: "new_term_months", Reason: "must be at least 1"}
	}

	newPayments, err := engine.GeneratePayments(ev.NewMonthlyPayment, ev.NewTermMonths, decimal.Zero, nil)
	if err != nil {
		return nil, err
	}

	newRate := ev.NewDiscountRatePct.Div(decimal.NewFromInt(100))
	return engine.Modify(
		r.Schedule,
		r.Terms.StartDate,
		ev.EffectiveDate,
		newPayments,
		newRate,
		r.Terms.DepreciationMethod,
		decimal.Zero,
	)
}

func validateTerms(t *Terms) error {
	if t.TermMonths < 1 {
		return &engine.InvalidInputError{Field: "term_months", Reason: "must be at least 1"}
	}
	if t.MonthlyPayment.IsNegative() {
		return &engine.InvalidInputError{Field: "monthly_payment", Reason: "must be non-negative"}
	}
	if t.DiscountRatePercent.IsNegative() || t.DiscountRatePercent.GreaterThan(decimal.NewFromInt(100)) {
		return &engine.InvalidInputError{Field: "discount_rate", Reason: "must be between 0 and 100 percent"}
	}
	if t.ResidualValue.IsNegative() {
		return &engine.InvalidInputError{Field: "residual_value", Reason: "must be non-negative"}
	}
	if t.StartDate.IsZero() {
		return &engine.InvalidInputError{Field: "start_date", Reason: "is required"}
	}
	if t.DepreciationMethod == "" {
		t.DepreciationMethod = engine.MethodStraightLine
	}
	if !engine.KnownMethod(t.DepreciationMethod) {
		return &engine.InvalidInputError{Field: "depreciation_method", Reason: "unknown method"}
	}
	return nil
}
