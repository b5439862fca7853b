/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the engine's decimal-typed domain model from the external
  API contract: amounts cross the wire as JSON numbers, dates as
  YYYY-MM-DD strings.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Structural validation (parsable dates, known methods) happens in the
  handlers; domain validation is the engine's job and surfaces as 400s.

SEE ALSO:
  - handlers.go: Uses these types
  - lease/types.go: The domain-side input type
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/lease-engine/engine"
	"github.com/warp/lease-engine/lease"
	"github.com/warp/lease-engine/store/sqlite"
)

const dateFormat = "2006-01-02"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// AdjustmentDTO is one discrete payment adjustment.
type AdjustmentDTO struct {
	Month   int     `json:"month"` // 0-based month index
	Percent float64 `json:"percent"`
}

// LeaseRequest is the request to create or preview a lease.
type LeaseRequest struct {
	ID                 string          `json:"id,omitempty"`
	Name               string          `json:"name"`
	Entity             string          `json:"entity,omitempty"`
	Location           string          `json:"location,omitempty"`
	AssetClass         string          `json:"asset_class,omitempty"`
	StartDate          string          `json:"start_date"`
	TermMonths         int             `json:"term_months"`
	MonthlyPayment     float64         `json:"monthly_payment"`
	DiscountRatePct    float64         `json:"discount_rate_pct"`
	CPIPct             float64         `json:"cpi_pct,omitempty"`
	Adjustments        []AdjustmentDTO `json:"adjustments,omitempty"`
	InitialDirectCosts float64         `json:"initial_direct_costs,omitempty"`
	Incentives         float64         `json:"incentives,omitempty"`
	Prepayments        float64         `json:"prepayments,omitempty"`
	ResidualValue      float64         `json:"residual_value,omitempty"`
	DepreciationMethod string          `json:"depreciation_method,omitempty"`
	LowValueThreshold  float64         `json:"low_value_threshold,omitempty"`
}

// ToTerms converts the request into domain terms.
func (r LeaseRequest) ToTerms() (lease.Terms, error) {
	startDate, err := time.Parse(dateFormat, r.StartDate)
	if err != nil {
		return lease.Terms{}, err
	}

	var adjustments map[int]decimal.Decimal
	if len(r.Adjustments) > 0 {
		adjustments = make(map[int]decimal.Decimal, len(r.Adjustments))
		for _, a := range r.Adjustments {
			adjustments[a.Month] = decimal.NewFromFloat(a.Percent)
		}
	}

	return lease.Terms{
		Name:                r.Name,
		Entity:              r.Entity,
		Location:            r.Location,
		AssetClass:          r.AssetClass,
		StartDate:           startDate,
		TermMonths:          r.TermMonths,
		MonthlyPayment:      decimal.NewFromFloat(r.MonthlyPayment),
		DiscountRatePercent: decimal.NewFromFloat(r.DiscountRatePct),
		CPIPercent:          decimal.NewFromFloat(r.CPIPct),
		Adjustments:         adjustments,
		InitialDirectCosts:  decimal.NewFromFloat(r.InitialDirectCosts),
		Incentives:          decimal.NewFromFloat(r.Incentives),
		Prepayments:         decimal.NewFromFloat(r.Prepayments),
		ResidualValue:       decimal.NewFromFloat(r.ResidualValue),
		DepreciationMethod:  engine.DepreciationMethod(r.DepreciationMethod),
		LowValueThreshold:   decimal.NewFromFloat(r.LowValueThreshold),
	}, nil
}

// ModificationRequest is the request to apply a lease modification.
type ModificationRequest struct {
	EffectiveDate      string  `json:"effective_date"`
	NewTermMonths      int     `json:"new_term_months"`
	NewMonthlyPayment  float64 `json:"new_monthly_payment"`
	NewDiscountRatePct float64 `json:"new_discount_rate_pct"`
	Kind               string  `json:"kind,omitempty"` // "modification" or "reassessment"
	Reason             string  `json:"reason,omitempty"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// LeaseDTO represents a lease in API responses.
type LeaseDTO struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Entity             string  `json:"entity,omitempty"`
	Location           string  `json:"location,omitempty"`
	AssetClass         string  `json:"asset_class,omitempty"`
	StartDate          string  `json:"start_date"`
	TermMonths         int     `json:"term_months"`
	MonthlyPayment     float64 `json:"monthly_payment"`
	DiscountRatePct    float64 `json:"discount_rate_pct"`
	CPIPct             float64 `json:"cpi_pct"`
	ResidualValue      float64 `json:"residual_value"`
	DepreciationMethod string  `json:"depreciation_method"`
	Exempt             bool    `json:"exempt"`
	Liability          float64 `json:"liability"`
	ROUAsset           float64 `json:"rou_asset"`
	CreatedAt          string  `json:"created_at,omitempty"`
}

// ScheduleRowDTO is one period of the amortization table.
type ScheduleRowDTO struct {
	Period           int     `json:"period"`
	Date             string  `json:"date"`
	Payment          float64 `json:"payment"`
	Interest         float64 `json:"interest"`
	Principal        float64 `json:"principal"`
	ClosingLiability float64 `json:"closing_liability"`
	Depreciation     float64 `json:"depreciation"`
	ROUBalance       float64 `json:"rou_balance"`
	TotalExpense     float64 `json:"total_expense"`
}

// ExpenseRowDTO is one period of an exempt lease's expense schedule.
type ExpenseRowDTO struct {
	Period  int     `json:"period"`
	Date    string  `json:"date"`
	Expense float64 `json:"expense"`
}

// YearMetricsDTO is one calendar-year disclosure bundle.
type YearMetricsDTO struct {
	Year                int     `json:"year"`
	Depreciation        float64 `json:"depreciation"`
	Interest            float64 `json:"interest"`
	PrincipalPayments   float64 `json:"principal_payments"`
	LiabilityCurrent    float64 `json:"liability_current"`
	LiabilityNonCurrent float64 `json:"liability_noncurrent"`
	ROUBalance          float64 `json:"rou_balance"`
}

// DisclosureDTO pairs the current and prior year metric bundles.
type DisclosureDTO struct {
	ReportingDate string         `json:"reporting_date"`
	CurrentYear   YearMetricsDTO `json:"current_year"`
	PriorYear     YearMetricsDTO `json:"prior_year"`
}

// CheckDTO is one structured validation outcome.
type CheckDTO struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// JournalLineDTO is one journal entry line.
type JournalLineDTO struct {
	Account string  `json:"account"`
	Side    string  `json:"side"`
	Amount  float64 `json:"amount"`
}

// JournalsDTO bundles the derived journal entries for a lease.
type JournalsDTO struct {
	InitialRecognition []JournalLineDTO `json:"initial_recognition,omitempty"`
	RecurringSample    []JournalLineDTO `json:"recurring_sample,omitempty"`
	ExemptMonthly      []JournalLineDTO `json:"exempt_monthly,omitempty"`
}

// ModificationDTO reports the result of a modification splice.
type ModificationDTO struct {
	ID                string           `json:"id"`
	EffectiveDate     string           `json:"effective_date"`
	CarryingLiability float64          `json:"carrying_liability"`
	CarryingROU       float64          `json:"carrying_rou"`
	NewLiability      float64          `json:"new_liability"`
	NewROU            float64          `json:"new_rou"`
	GainToProfitLoss  float64          `json:"gain_to_pl"`
	AdjustmentEntry   []JournalLineDTO `json:"adjustment_entry"`
	Schedule          []ScheduleRowDTO `json:"schedule"`
}

// ModelResultDTO is the full output of a model run (create or preview).
type ModelResultDTO struct {
	Lease       LeaseDTO         `json:"lease"`
	Exempt      bool             `json:"exempt"`
	Reasons     []string         `json:"exemption_reasons,omitempty"`
	Schedule    []ScheduleRowDTO `json:"schedule,omitempty"`
	ExpenseRows []ExpenseRowDTO  `json:"expense_schedule,omitempty"`
	Checks      []CheckDTO       `json:"checks,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func f(d decimal.Decimal) float64 { return d.InexactFloat64() }

func leaseDTO(rec sqlite.LeaseRecord) LeaseDTO {
	return LeaseDTO{
		ID:                 rec.ID,
		Name:               rec.Name,
		Entity:             rec.Entity,
		Location:           rec.Location,
		AssetClass:         rec.AssetClass,
		StartDate:          rec.StartDate.Format(dateFormat),
		TermMonths:         rec.TermMonths,
		MonthlyPayment:     f(rec.MonthlyPayment),
		DiscountRatePct:    f(rec.DiscountRatePct),
		CPIPct:             f(rec.CPIPct),
		ResidualValue:      f(rec.ResidualValue),
		DepreciationMethod: rec.DepreciationMethod,
		Exempt:             rec.Exempt,
		Liability:          f(rec.Liability),
		ROUAsset:           f(rec.ROUAsset),
		CreatedAt:          rec.CreatedAt.Format(time.RFC3339),
	}
}

func scheduleDTO(s engine.Schedule) []ScheduleRowDTO {
	rows := make([]ScheduleRowDTO, len(s.Rows))
	for i, r := range s.Rows {
		rows[i] = ScheduleRowDTO{
			Period:           r.Period,
			Date:             r.Date.Format(dateFormat),
			Payment:          f(r.Payment),
			Interest:         f(r.Interest),
			Principal:        f(r.Principal),
			ClosingLiability: f(r.ClosingLiability),
			Depreciation:     f(r.Depreciation),
			ROUBalance:       f(r.ROUBalance),
			TotalExpense:     f(r.TotalExpense),
		}
	}
	return rows
}

func expenseRowsDTO(rows []lease.ExpenseRow) []ExpenseRowDTO {
	out := make([]ExpenseRowDTO, len(rows))
	for i, r := range rows {
		out[i] = ExpenseRowDTO{Period: r.Period, Date: r.Date.Format(dateFormat), Expense: f(r.Expense)}
	}
	return out
}

func checksDTO(checks []engine.PropertyCheck) []CheckDTO {
	out := make([]CheckDTO, len(checks))
	for i, c := range checks {
		out[i] = CheckDTO{Name: c.Name, Passed: c.Passed, Detail: c.Detail}
	}
	return out
}

func journalLinesDTO(lines []lease.JournalLine) []JournalLineDTO {
	out := make([]JournalLineDTO, len(lines))
	for i, l := range lines {
		out[i] = JournalLineDTO{Account: l.Account, Side: string(l.Side), Amount: f(l.Amount)}
	}
	return out
}

func yearMetricsDTO(m engine.YearMetrics) YearMetricsDTO {
	return YearMetricsDTO{
		Year:                m.Year,
		Depreciation:        f(m.Depreciation),
		Interest:            f(m.Interest),
		PrincipalPayments:   f(m.PrincipalPayments),
		LiabilityCurrent:    f(m.LiabilityCurrent),
		LiabilityNonCurrent: f(m.LiabilityNonCurrent),
		ROUBalance:          f(m.ROUBalance),
	}
}
