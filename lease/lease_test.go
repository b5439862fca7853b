package lease_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/lease-engine/engine"
	"github.com/warp/lease-engine/lease"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// officeLease is a plain capitalized lease: 12 x 10000 at 6%, no frills.
func officeLease() lease.Terms {
	return lease.Terms{
		Name:                "Office floor 3",
		StartDate:           engine.NewDate(2025, 1, 1),
		TermMonths:          12,
		MonthlyPayment:      dec("10000"),
		DiscountRatePercent: dec("6"),
	}
}

// =============================================================================
// FULL MODEL RUN
// =============================================================================

func TestRun_CapitalizedLease(t *testing.T) {
	// GIVEN: A 12 x 1000 lease at 6% above the low-value threshold
	// WHEN: Running the model
	// THEN: Liability is the annuity PV, ROU matches it with no
	//       adjustments, and every structured check passes

	terms := lease.Terms{
		Name:                "Copier fleet",
		StartDate:           engine.NewDate(2025, 1, 1),
		TermMonths:          12,
		MonthlyPayment:      dec("1000"),
		DiscountRatePercent: dec("6"),
		LowValueThreshold:   dec("500"),
	}

	result, err := lease.Run(terms)
	require.NoError(t, err)
	require.True(t, result.Capitalized())

	assert.Equal(t, "11618.93", result.Liability.StringFixed(2))
	assert.Equal(t, "11618.93", result.ROUAsset.StringFixed(2))
	require.Equal(t, 12, result.Schedule.Len())

	last := result.Schedule.Last()
	assert.True(t, last.ClosingLiability.IsZero())
	assert.True(t, last.ROUBalance.IsZero())

	for _, c := range result.Checks {
		assert.True(t, c.Passed, "%s: %s", c.Name, c.Detail)
	}
}

func TestRun_ROUAdjustments(t *testing.T) {
	// GIVEN: Direct costs, incentives, and prepayments on top of the liability
	// WHEN: Running the model
	// THEN: ROU = liability + costs - incentives + prepayments

	terms := officeLease()
	terms.InitialDirectCosts = dec("2000")
	terms.Incentives = dec("500")
	terms.Prepayments = dec("1000")

	result, err := lease.Run(terms)
	require.NoError(t, err)

	expected := result.Liability.Add(dec("2500"))
	assert.Equal(t, expected.StringFixed(2), result.ROUAsset.StringFixed(2))
}

func TestRun_ResidualValueGuarantee(t *testing.T) {
	// GIVEN: A 24 x 1000 lease at 6% with a 500 guaranteed residual
	// WHEN: Running the model
	// THEN: The guarantee enters the liability through the final payment
	//       and the ROU balance lands on the residual, not zero

	terms := lease.Terms{
		Name:                "Delivery van",
		StartDate:           engine.NewDate(2025, 1, 1),
		TermMonths:          24,
		MonthlyPayment:      dec("1000"),
		DiscountRatePercent: dec("6"),
		ResidualValue:       dec("500"),
		LowValueThreshold:   dec("500"),
	}

	result, err := lease.Run(terms)
	require.NoError(t, err)

	require.Len(t, result.Payments, 24)
	assert.Equal(t, "1500.00", result.Payments[23].StringFixed(2), "residual folded into the final payment")
	assert.Equal(t, "23006.46", result.Liability.StringFixed(2))

	last := result.Schedule.Last()
	assert.True(t, last.ClosingLiability.IsZero())
	assert.Equal(t, "500.00", last.ROUBalance.StringFixed(2))

	for _, c := range result.Checks {
		assert.True(t, c.Passed, "%s: %s", c.Name, c.Detail)
	}
}

func TestRun_ZeroRate(t *testing.T) {
	// GIVEN: A zero discount rate
	// WHEN: Running a 12 x 6000 lease
	// THEN: The liability is the plain payment sum and no interest accrues

	terms := lease.Terms{
		Name:                "Warehouse annex",
		StartDate:           engine.NewDate(2025, 1, 1),
		TermMonths:          12,
		MonthlyPayment:      dec("6000"),
		DiscountRatePercent: decimal.Zero,
	}

	result, err := lease.Run(terms)
	require.NoError(t, err)

	assert.Equal(t, "72000.00", result.Liability.StringFixed(2))
	assert.True(t, result.Summary.TotalInterest.IsZero())
	for _, row := range result.Schedule.Rows {
		assert.True(t, row.Interest.IsZero())
	}
}

func TestRun_InvalidTerms(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*lease.Terms)
	}{
		{"zero term", func(t *lease.Terms) { t.TermMonths = 0 }},
		{"negative payment", func(t *lease.Terms) { t.MonthlyPayment = dec("-1") }},
		{"rate above 100", func(t *lease.Terms) { t.DiscountRatePercent = dec("101") }},
		{"negative residual", func(t *lease.Terms) { t.ResidualValue = dec("-1") }},
		{"missing start date", func(t *lease.Terms) { t.StartDate = time.Time{} }},
		{"unknown method", func(t *lease.Terms) { t.DepreciationMethod = "units_of_production" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			terms := officeLease()
			tc.mutate(&terms)
			_, err := lease.Run(terms)
			require.Error(t, err)
			assert.True(t, engine.IsClientError(err))
		})
	}
}

func TestRun_ResidualCannotSwallowThePayments(t *testing.T) {
	// GIVEN: A residual guarantee at or above the total payments
	// WHEN: Running the model
	// THEN: The input is rejected before any measurement

	terms := officeLease()
	terms.ResidualValue = dec("120000")
	_, err := lease.Run(terms)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
}

// =============================================================================
// PRACTICAL EXPEDIENTS
// =============================================================================

func TestRun_ShortTermExemption(t *testing.T) {
	// GIVEN: An 11-month lease (strict boundary)
	// WHEN: Running the model
	// THEN: The lease routes to straight-line expense with no schedule

	terms := officeLease()
	terms.TermMonths = 11

	result, err := lease.Run(terms)
	require.NoError(t, err)

	assert.False(t, result.Capitalized())
	assert.True(t, result.Exemption.ShortTerm)
	assert.Contains(t, result.Exemption.Reasons, "Short-term lease (IFRS 16.6)")

	require.Len(t, result.ExpenseRows, 11)
	assert.Equal(t, "10000.00", result.ExpenseRows[0].Expense.StringFixed(2))
	assert.True(t, result.Schedule.IsEmpty())
}

func TestRun_TwelveMonthsIsNotShortTerm(t *testing.T) {
	// GIVEN: Exactly 12 months
	// WHEN: Evaluating exemptions
	// THEN: The short-term expedient does not apply

	status := lease.EvaluateExemptions(officeLease())
	assert.False(t, status.ShortTerm)
	assert.False(t, status.Exempt)
}

func TestRun_LowValueExemption(t *testing.T) {
	// GIVEN: A monthly payment under the default 5000 threshold
	// WHEN: Evaluating exemptions
	// THEN: The low-value expedient applies

	terms := officeLease()
	terms.MonthlyPayment = dec("4999")

	status := lease.EvaluateExemptions(terms)
	assert.True(t, status.LowValue)
	assert.True(t, status.Exempt)
	assert.Contains(t, status.Reasons, "Low-value lease (IFRS 16.5)")
}

func TestRun_LowValueThresholdOverride(t *testing.T) {
	// GIVEN: A custom threshold below the payment
	// WHEN: Evaluating exemptions
	// THEN: The default no longer applies

	terms := officeLease()
	terms.MonthlyPayment = dec("4999")
	terms.LowValueThreshold = dec("100")

	status := lease.EvaluateExemptions(terms)
	assert.False(t, status.LowValue)
	assert.False(t, status.Exempt)
}

// =============================================================================
// MODIFICATIONS
// =============================================================================

func TestApplyModification_ReplacesRemainingTerm(t *testing.T) {
	// GIVEN: A 24 x 10000 lease at 5% run from 2025-01-01
	// WHEN: Modifying effective 2026-01-01 to 12 x 9000 at 4%
	// THEN: Carrying amounts come from row 12 and the splice renumbers
	//       contiguously through period 24

	terms := lease.Terms{
		Name:                "Head office",
		StartDate:           engine.NewDate(2025, 1, 1),
		TermMonths:          24,
		MonthlyPayment:      dec("10000"),
		DiscountRatePercent: dec("5"),
	}
	result, err := lease.Run(terms)
	require.NoError(t, err)

	mod, err := lease.ApplyModification(result, lease.ModificationEvent{
		EffectiveDate:      engine.NewDate(2026, 1, 1),
		NewTermMonths:      12,
		NewMonthlyPayment:  dec("9000"),
		NewDiscountRatePct: dec("4"),
		Kind:               "modification",
		Reason:             "renegotiated rent",
	})
	require.NoError(t, err)

	assert.Equal(t, "116812.22", mod.CarryingLiability.StringFixed(2))
	assert.Equal(t, "113969.46", mod.CarryingROU.StringFixed(2))
	assert.Equal(t, "105695.95", mod.NewLiability.StringFixed(2))
	assert.Equal(t, "102853.19", mod.NewROU.StringFixed(2))
	assert.True(t, mod.GainToProfitLoss.IsZero())

	require.Equal(t, 24, mod.Schedule.Len())
	assert.Equal(t, 24, mod.Schedule.Last().Period)
	assert.True(t, mod.Schedule.Last().ClosingLiability.IsZero())
}

func TestApplyModification_ExemptLeaseRejected(t *testing.T) {
	// GIVEN: An exempt short-term lease
	// WHEN: Applying a modification
	// THEN: There is no schedule to splice; the request is rejected

	terms := officeLease()
	terms.TermMonths = 6
	result, err := lease.Run(terms)
	require.NoError(t, err)

	_, err = lease.ApplyModification(result, lease.ModificationEvent{
		EffectiveDate:     engine.NewDate(2025, 3, 1),
		NewTermMonths:     6,
		NewMonthlyPayment: dec("9000"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
}

// =============================================================================
// JOURNAL ENTRIES
// =============================================================================

func TestInitialRecognition_Balances(t *testing.T) {
	// GIVEN: A run with direct costs, incentives, and prepayments
	// WHEN: Deriving the inception entry
	// THEN: Debits equal credits and the ROU line carries the asset

	terms := officeLease()
	terms.InitialDirectCosts = dec("2000")
	terms.Incentives = dec("500")
	terms.Prepayments = dec("1000")
	result, err := lease.Run(terms)
	require.NoError(t, err)

	lines := lease.InitialRecognition(result)
	require.Len(t, lines, 5)
	assert.Equal(t, "Right-of-use Asset", lines[0].Account)
	assert.Equal(t, lease.Debit, lines[0].Side)
	assert.Equal(t, result.ROUAsset.StringFixed(2), lines[0].Amount.StringFixed(2))
	assert.True(t, lease.Balances(lines))
}

func TestRecurringEntry_Balances(t *testing.T) {
	// GIVEN: Any schedule row
	// WHEN: Deriving the monthly entry
	// THEN: Depreciation, interest, and principal debits offset the cash
	//       and accumulated depreciation credits exactly

	result, err := lease.Run(officeLease())
	require.NoError(t, err)

	for _, row := range result.Schedule.Rows {
		lines := lease.RecurringEntry(row)
		assert.True(t, lease.Balances(lines), "period %d", row.Period)
	}
}

func TestModificationEntry_Balances(t *testing.T) {
	// GIVEN: A modification that shrinks both the asset and the liability
	// WHEN: Deriving the adjustment entry
	// THEN: The asset and liability deltas offset each other exactly

	terms := lease.Terms{
		Name:                "Head office",
		StartDate:           engine.NewDate(2025, 1, 1),
		TermMonths:          24,
		MonthlyPayment:      dec("10000"),
		DiscountRatePercent: dec("5"),
	}
	result, err := lease.Run(terms)
	require.NoError(t, err)

	mod, err := lease.ApplyModification(result, lease.ModificationEvent{
		EffectiveDate:      engine.NewDate(2026, 1, 1),
		NewTermMonths:      12,
		NewMonthlyPayment:  dec("9000"),
		NewDiscountRatePct: dec("4"),
	})
	require.NoError(t, err)

	lines := lease.ModificationEntry(mod)
	require.NotEmpty(t, lines)
	assert.True(t, lease.Balances(lines))
}

func TestExemptMonthlyEntry_Balances(t *testing.T) {
	terms := officeLease()
	terms.TermMonths = 6
	result, err := lease.Run(terms)
	require.NoError(t, err)

	lines := lease.ExemptMonthlyEntry(result.ExpenseRows[0])
	require.Len(t, lines, 2)
	assert.True(t, lease.Balances(lines))
}
