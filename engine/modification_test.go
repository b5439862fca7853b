package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/lease-engine/engine"
)

func buildOriginal(t *testing.T) engine.Schedule {
	t.Helper()
	payments := flatPayments("1000", 24)
	schedule, _, err := engine.BuildSchedule(engine.NewDate(2025, 1, 1), payments, dec("0.05"), 24, dec("22793.90"), engine.MethodStraightLine, decimal.Zero)
	require.NoError(t, err)
	return schedule
}

// =============================================================================
// SPLICING
// =============================================================================

func TestModify_SplicesAtCutover(t *testing.T) {
	// GIVEN: A 24 x 1000 lease at 5% started 2025-01-01
	// WHEN: Modifying effective 2026-01-01 to 18 x 1200 at 6%
	// THEN: The first 12 rows survive untouched, carrying amounts come
	//       from row 12, and the new portion renumbers contiguously

	original := buildOriginal(t)
	leaseStart := engine.NewDate(2025, 1, 1)
	effective := engine.NewDate(2026, 1, 1)

	mod, err := engine.Modify(original, leaseStart, effective, flatPayments("1200", 18), dec("0.06"), engine.MethodStraightLine, decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, "11681.21", mod.CarryingLiability.StringFixed(2))
	assert.Equal(t, "11396.90", mod.CarryingROU.StringFixed(2))
	assert.Equal(t, "20607.32", mod.NewLiability.StringFixed(2))
	assert.Equal(t, "20323.01", mod.NewROU.StringFixed(2), "carrying ROU plus the liability delta")
	assert.True(t, mod.GainToProfitLoss.IsZero())

	require.Equal(t, 30, mod.Schedule.Len())

	// Pre-modification rows are byte-for-byte the originals.
	for i := 0; i < 12; i++ {
		assert.Equal(t, original.Rows[i], mod.Schedule.Rows[i], "row %d", i+1)
	}

	// Post rows renumber from 13 and start at the cutover date.
	post := mod.Schedule.Rows[12]
	assert.Equal(t, 13, post.Period)
	assert.Equal(t, effective, post.Date)
	assert.Equal(t, "1200.00", post.Payment.StringFixed(2))

	last := mod.Schedule.Last()
	assert.Equal(t, 30, last.Period)
	assert.True(t, last.ClosingLiability.IsZero())
	assert.True(t, last.ROUBalance.IsZero())
}

func TestModify_SplicedScheduleStaysValid(t *testing.T) {
	// GIVEN: A spliced schedule
	// WHEN: Running the structured checks against the combined asset base
	// THEN: Periods stay contiguous and both trajectories still zero out

	original := buildOriginal(t)
	mod, err := engine.Modify(original, engine.NewDate(2025, 1, 1), engine.NewDate(2026, 1, 1), flatPayments("1200", 18), dec("0.06"), engine.MethodStraightLine, decimal.Zero)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, c := range engine.ValidateSchedule(mod.Schedule, dec("22793.90"), decimal.Zero) {
		names[c.Name] = c.Passed
	}
	assert.True(t, names["contiguous_periods"])
	assert.True(t, names["liability_zero_out"])
	assert.True(t, names["payment_split"])
}

// =============================================================================
// ROU FLOOR AND P&L GAIN
// =============================================================================

func TestModify_FloorsROUAtZero(t *testing.T) {
	// GIVEN: A carrying ROU far below the liability decrease
	// WHEN: The revised terms slash the liability
	// THEN: The asset floors at zero, the excess lands in P&L, and the
	//       remaining schedule carries zero depreciation

	original := engine.Schedule{Rows: []engine.ScheduleRow{{
		Period:           1,
		Date:             engine.NewDate(2025, 1, 1),
		Payment:          dec("1000"),
		Interest:         dec("20"),
		Principal:        dec("980"),
		ClosingLiability: dec("5000"),
		Depreciation:     dec("900"),
		ROUBalance:       dec("100"),
		TotalExpense:     dec("920"),
	}}}

	mod, err := engine.Modify(original, engine.NewDate(2025, 1, 1), engine.NewDate(2025, 2, 1), flatPayments("1000", 1), decimal.Zero, engine.MethodStraightLine, decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, "1000.00", mod.NewLiability.StringFixed(2))
	assert.True(t, mod.NewROU.IsZero(), "adjustment would be 100 + (1000 - 5000)")
	assert.Equal(t, "3900.00", mod.GainToProfitLoss.StringFixed(2))

	post := mod.Schedule.Rows[1]
	assert.True(t, post.Depreciation.IsZero())
	assert.True(t, post.ROUBalance.IsZero())
}

func TestModify_ResidualRejectedOnWrittenOffAsset(t *testing.T) {
	// GIVEN: A modification that floors the ROU asset at zero
	// WHEN: A positive residual is requested for the revised portion
	// THEN: The input is rejected

	original := engine.Schedule{Rows: []engine.ScheduleRow{{
		Period:           1,
		Date:             engine.NewDate(2025, 1, 1),
		Payment:          dec("1000"),
		ClosingLiability: dec("5000"),
		ROUBalance:       dec("100"),
	}}}

	_, err := engine.Modify(original, engine.NewDate(2025, 1, 1), engine.NewDate(2025, 2, 1), flatPayments("1000", 1), decimal.Zero, engine.MethodStraightLine, dec("50"))
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
}

// =============================================================================
// TIMING GUARDS
// =============================================================================

func TestModify_RejectsEffectiveDateAtOrBeforeStart(t *testing.T) {
	// GIVEN: An effective date on the lease start
	// WHEN: Modifying
	// THEN: The typed timing error is returned

	original := buildOriginal(t)
	start := engine.NewDate(2025, 1, 1)

	_, err := engine.Modify(original, start, start, flatPayments("1200", 18), dec("0.06"), engine.MethodStraightLine, decimal.Zero)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrModificationTiming)
	assert.True(t, engine.IsClientError(err))

	_, err = engine.Modify(original, start, engine.NewDate(2024, 12, 1), flatPayments("1200", 18), dec("0.06"), engine.MethodStraightLine, decimal.Zero)
	assert.ErrorIs(t, err, engine.ErrModificationTiming)
}

func TestModify_EmptyNewPaymentsRejected(t *testing.T) {
	original := buildOriginal(t)
	_, err := engine.Modify(original, engine.NewDate(2025, 1, 1), engine.NewDate(2026, 1, 1), nil, dec("0.06"), engine.MethodStraightLine, decimal.Zero)
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
}

func TestModify_BeforeFirstRowDateStartsFresh(t *testing.T) {
	// GIVEN: An effective date after lease start but before any row has
	//        elapsed beyond the first
	// WHEN: Modifying one day into the lease
	// THEN: Only rows dated strictly before the cutover survive and the
	//       carrying amounts come from the last of them

	original := buildOriginal(t)
	effective := engine.NewDate(2025, 1, 2)

	mod, err := engine.Modify(original, engine.NewDate(2025, 1, 1), effective, flatPayments("1200", 18), dec("0.06"), engine.MethodStraightLine, decimal.Zero)
	require.NoError(t, err)

	require.Equal(t, 19, mod.Schedule.Len(), "one surviving row plus 18 new")
	assert.Equal(t, original.Rows[0].ClosingLiability, mod.CarryingLiability)
	assert.Equal(t, 2, mod.Schedule.Rows[1].Period)
}
