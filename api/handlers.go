/*
handlers.go - HTTP API handlers for the lease accounting service

PURPOSE:
  Exposes the lease engine via REST. Handlers parse HTTP
  request/response and JSON, then delegate to the lease and engine
  packages; no accounting logic lives here.

ENDPOINTS:
  Leases:
    GET    /api/leases                      List leases
    POST   /api/leases                      Create lease and compute schedule
    GET    /api/leases/{id}                 Lease detail
    GET    /api/leases/{id}/schedule        Amortization schedule
    GET    /api/leases/{id}/disclosures     Year-bucketed disclosure metrics
    GET    /api/leases/{id}/journals        Derived journal entries
    GET    /api/leases/{id}/validation      Structured schedule checks
    POST   /api/leases/{id}/modifications   Apply a modification/reassessment

  Preview:
    POST   /api/preview                     Run the model without persisting

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: invalid input, inconsistent lengths, modification timing
  - 404: lease not found
  - 500: internal errors
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/warp/lease-engine/engine"
	"github.com/warp/lease-engine/lease"
	"github.com/warp/lease-engine/store/sqlite"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store
	Log   *logrus.Logger
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.New()
	}
	return &Handler{Store: store, Log: log}
}

// =============================================================================
// LEASE HANDLERS
// =============================================================================

// CreateLease runs the model for the submitted terms and persists the
// lease together with its schedule.
func (h *Handler) CreateLease(w http.ResponseWriter, r *http.Request) {
	var req LeaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	terms, err := req.ToTerms()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}

	result, err := lease.Run(terms)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	id := req.ID
	if id == "" {
		id = fmt.Sprintf("lease-%d", time.Now().UnixNano())
	}

	rec := recordFromResult(id, result)
	if err := h.Store.SaveLease(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save lease", err)
		return
	}
	if result.Capitalized() {
		if err := h.Store.ReplaceSchedule(r.Context(), id, result.Schedule.Rows); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save schedule", err)
			return
		}
	}

	h.Log.WithFields(logrus.Fields{
		"lease_id": id,
		"term":     terms.TermMonths,
		"exempt":   result.Exemption.Exempt,
	}).Info("lease created")

	writeJSON(w, http.StatusCreated, resultDTO(rec, result))
}

// PreviewLease runs the model without persisting anything.
func (h *Handler) PreviewLease(w http.ResponseWriter, r *http.Request) {
	var req LeaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	terms, err := req.ToTerms()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}

	result, err := lease.Run(terms)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resultDTO(recordFromResult("preview", result), result))
}

// ListLeases returns all stored leases.
func (h *Handler) ListLeases(w http.ResponseWriter, r *http.Request) {
	leases, err := h.Store.ListLeases(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leases", err)
		return
	}

	dtos := make([]LeaseDTO, len(leases))
	for i, rec := range leases {
		dtos[i] = leaseDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetLease returns a single lease.
func (h *Handler) GetLease(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadLease(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, leaseDTO(*rec))
}

// GetSchedule returns the amortization schedule for a lease.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadLease(w, r)
	if !ok {
		return
	}

	schedule, err := h.Store.GetSchedule(r.Context(), rec.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, scheduleDTO(schedule))
}

// GetDisclosures aggregates the schedule into disclosure metrics at the
// requested reporting date (default: today).
func (h *Handler) GetDisclosures(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadLease(w, r)
	if !ok {
		return
	}

	reportingDate := time.Now().UTC()
	if v := r.URL.Query().Get("reporting_date"); v != "" {
		parsed, err := time.Parse(dateFormat, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid reporting_date format (use YYYY-MM-DD)", err)
			return
		}
		reportingDate = parsed
	}

	schedule, err := h.Store.GetSchedule(r.Context(), rec.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load schedule", err)
		return
	}

	d := engine.Aggregate(schedule, reportingDate)
	writeJSON(w, http.StatusOK, DisclosureDTO{
		ReportingDate: reportingDate.Format(dateFormat),
		CurrentYear:   yearMetricsDTO(d.CurrentYear),
		PriorYear:     yearMetricsDTO(d.PriorYear),
	})
}

// GetJournals derives journal entries for a lease.
func (h *Handler) GetJournals(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadLease(w, r)
	if !ok {
		return
	}
	terms := recordToTerms(*rec)

	if rec.Exempt {
		rows, err := lease.ExpenseSchedule(terms)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, JournalsDTO{
			ExemptMonthly: journalLinesDTO(lease.ExemptMonthlyEntry(rows[0])),
		})
		return
	}

	schedule, err := h.Store.GetSchedule(r.Context(), rec.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load schedule", err)
		return
	}
	if schedule.IsEmpty() {
		writeError(w, http.StatusNotFound, "Lease has no stored schedule", nil)
		return
	}

	result := &lease.ModelResult{Terms: terms, Liability: rec.Liability, ROUAsset: rec.ROUAsset}
	writeJSON(w, http.StatusOK, JournalsDTO{
		InitialRecognition: journalLinesDTO(lease.InitialRecognition(result)),
		RecurringSample:    journalLinesDTO(lease.RecurringEntry(schedule.Rows[0])),
	})
}

// GetValidation runs the structured schedule checks for a lease.
func (h *Handler) GetValidation(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadLease(w, r)
	if !ok {
		return
	}
	if rec.Exempt {
		writeError(w, http.StatusBadRequest, "Exempt leases have no schedule to validate", nil)
		return
	}

	schedule, err := h.Store.GetSchedule(r.Context(), rec.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load schedule", err)
		return
	}

	checks := engine.ValidateSchedule(schedule, rec.ROUAsset, rec.ResidualValue)
	writeJSON(w, http.StatusOK, checksDTO(checks))
}

// =============================================================================
// MODIFICATION HANDLERS
// =============================================================================

// CreateModification applies a modification to a stored lease, replaces
// its schedule with the spliced one, and records the event.
func (h *Handler) CreateModification(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadLease(w, r)
	if !ok {
		return
	}
	if rec.Exempt {
		writeError(w, http.StatusBadRequest, "Exempt leases cannot be modified", nil)
		return
	}

	var req ModificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	effectiveDate, err := time.Parse(dateFormat, req.EffectiveDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid effective_date format (use YYYY-MM-DD)", err)
		return
	}

	schedule, err := h.Store.GetSchedule(r.Context(), rec.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load schedule", err)
		return
	}

	result := &lease.ModelResult{Terms: recordToTerms(*rec), Schedule: schedule}
	ev := lease.ModificationEvent{
		EffectiveDate:      effectiveDate,
		NewTermMonths:      req.NewTermMonths,
		NewMonthlyPayment:  decimal.NewFromFloat(req.NewMonthlyPayment),
		NewDiscountRatePct: decimal.NewFromFloat(req.NewDiscountRatePct),
		Kind:               req.Kind,
		Reason:             req.Reason,
	}

	mod, err := lease.ApplyModification(result, ev)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	if err := h.Store.ReplaceSchedule(r.Context(), rec.ID, mod.Schedule.Rows); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save spliced schedule", err)
		return
	}

	modID := fmt.Sprintf("mod-%d", time.Now().UnixNano())
	err = h.Store.SaveModification(r.Context(), sqlite.ModificationRecord{
		ID:                 modID,
		LeaseID:            rec.ID,
		EffectiveDate:      effectiveDate,
		NewTermMonths:      req.NewTermMonths,
		NewMonthlyPayment:  ev.NewMonthlyPayment,
		NewDiscountRatePct: ev.NewDiscountRatePct,
		Kind:               req.Kind,
		Reason:             req.Reason,
		CarryingLiability:  mod.CarryingLiability,
		CarryingROU:        mod.CarryingROU,
		NewLiability:       mod.NewLiability,
		NewROU:             mod.NewROU,
		GainToPL:           mod.GainToProfitLoss,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save modification", err)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"lease_id":  rec.ID,
		"mod_id":    modID,
		"effective": req.EffectiveDate,
	}).Info("lease modified")

	writeJSON(w, http.StatusCreated, ModificationDTO{
		ID:                modID,
		EffectiveDate:     req.EffectiveDate,
		CarryingLiability: f(mod.CarryingLiability),
		CarryingROU:       f(mod.CarryingROU),
		NewLiability:      f(mod.NewLiability),
		NewROU:            f(mod.NewROU),
		GainToProfitLoss:  f(mod.GainToProfitLoss),
		AdjustmentEntry:   journalLinesDTO(lease.ModificationEntry(mod)),
		Schedule:          scheduleDTO(mod.Schedule),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) loadLease(w http.ResponseWriter, r *http.Request) (*sqlite.LeaseRecord, bool) {
	id := chi.URLParam(r, "id")
	rec, err := h.Store.GetLease(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load lease", err)
		return nil, false
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Lease not found", nil)
		return nil, false
	}
	return rec, true
}

func recordFromResult(id string, result *lease.ModelResult) sqlite.LeaseRecord {
	t := result.Terms
	return sqlite.LeaseRecord{
		ID:                 id,
		Name:               t.Name,
		Entity:             t.Entity,
		Location:           t.Location,
		AssetClass:         t.AssetClass,
		StartDate:          t.StartDate,
		TermMonths:         t.TermMonths,
		MonthlyPayment:     t.MonthlyPayment,
		DiscountRatePct:    t.DiscountRatePercent,
		CPIPct:             t.CPIPercent,
		DirectCosts:        t.InitialDirectCosts,
		Incentives:         t.Incentives,
		Prepayments:        t.Prepayments,
		ResidualValue:      t.ResidualValue,
		DepreciationMethod: string(t.DepreciationMethod),
		Exempt:             result.Exemption.Exempt,
		Liability:          result.Liability,
		ROUAsset:           result.ROUAsset,
	}
}

func recordToTerms(rec sqlite.LeaseRecord) lease.Terms {
	return lease.Terms{
		Name:                rec.Name,
		Entity:              rec.Entity,
		Location:            rec.Location,
		AssetClass:          rec.AssetClass,
		StartDate:           rec.StartDate,
		TermMonths:          rec.TermMonths,
		MonthlyPayment:      rec.MonthlyPayment,
		DiscountRatePercent: rec.DiscountRatePct,
		CPIPercent:          rec.CPIPct,
		InitialDirectCosts:  rec.DirectCosts,
		Incentives:          rec.Incentives,
		Prepayments:         rec.Prepayments,
		ResidualValue:       rec.ResidualValue,
		DepreciationMethod:  engine.DepreciationMethod(rec.DepreciationMethod),
	}
}

func resultDTO(rec sqlite.LeaseRecord, result *lease.ModelResult) ModelResultDTO {
	dto := ModelResultDTO{
		Lease:   leaseDTO(rec),
		Exempt:  result.Exemption.Exempt,
		Reasons: result.Exemption.Reasons,
	}
	if result.Capitalized() {
		dto.Schedule = scheduleDTO(result.Schedule)
		dto.Checks = checksDTO(result.Checks)
	} else {
		dto.ExpenseRows = expenseRowsDTO(result.ExpenseRows)
	}
	return dto
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := errorResponse{Error: message}
	if err != nil {
		resp.Detail = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps engine errors to HTTP statuses: caller input
// mistakes are 400s, everything else is a 500.
func writeEngineError(w http.ResponseWriter, err error) {
	if engine.IsClientError(err) {
		writeError(w, http.StatusBadRequest, "Invalid lease input", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "Model run failed", err)
}
