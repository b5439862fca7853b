/*
Package sqlite provides SQLite-backed persistence for leases and their
computed schedules.

PURPOSE:
  Stores lease terms, the measurements computed from them, the full
  amortization table, and modification events. In production the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  leases:          Terms plus computed opening liability / ROU asset
  schedule_rows:   The amortization table, one row per period
  modifications:   Modification events with cutover measurements

SCHEDULE REPLACEMENT:
  A lease's schedule is replaced wholesale when the lease is recomputed
  or modified; rows are never edited in place. ReplaceSchedule runs the
  delete and inserts in one transaction.

MONETARY COLUMNS:
  Stored as TEXT decimals and parsed with shopspring/decimal on read, so
  no precision is lost on the round trip.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block and crash recovery improves.

USAGE:
  store, err := sqlite.New("./data/leases.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/lease-engine/engine"
)

const dateFormat = "2006-01-02"

// Store implements lease persistence using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS leases (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		entity TEXT,
		location TEXT,
		asset_class TEXT,
		start_date TEXT NOT NULL,
		term_months INTEGER NOT NULL,
		monthly_payment TEXT NOT NULL,
		discount_rate_pct TEXT NOT NULL,
		cpi_pct TEXT NOT NULL,
		direct_costs TEXT NOT NULL,
		incentives TEXT NOT NULL,
		prepayments TEXT NOT NULL,
		residual_value TEXT NOT NULL,
		depreciation_method TEXT NOT NULL,
		exempt INTEGER NOT NULL DEFAULT 0,
		liability TEXT NOT NULL,
		rou_asset TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS schedule_rows (
		lease_id TEXT NOT NULL,
		period INTEGER NOT NULL,
		date TEXT NOT NULL,
		payment TEXT NOT NULL,
		interest TEXT NOT NULL,
		principal TEXT NOT NULL,
		closing_liability TEXT NOT NULL,
		depreciation TEXT NOT NULL,
		rou_balance TEXT NOT NULL,
		total_expense TEXT NOT NULL,
		PRIMARY KEY (lease_id, period)
	);

	CREATE INDEX IF NOT EXISTS idx_schedule_rows_lease_date
		ON schedule_rows(lease_id, date);

	CREATE TABLE IF NOT EXISTS modifications (
		id TEXT PRIMARY KEY,
		lease_id TEXT NOT NULL,
		effective_date TEXT NOT NULL,
		new_term_months INTEGER NOT NULL,
		new_monthly_payment TEXT NOT NULL,
		new_discount_rate_pct TEXT NOT NULL,
		kind TEXT,
		reason TEXT,
		carrying_liability TEXT NOT NULL,
		carrying_rou TEXT NOT NULL,
		new_liability TEXT NOT NULL,
		new_rou TEXT NOT NULL,
		gain_to_pl TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_modifications_lease
		ON modifications(lease_id, effective_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RECORDS
// =============================================================================

// LeaseRecord is the persisted form of a lease and its measurements.
type LeaseRecord struct {
	ID                 string
	Name               string
	Entity             string
	Location           string
	AssetClass         string
	StartDate          time.Time
	TermMonths         int
	MonthlyPayment     decimal.Decimal
	DiscountRatePct    decimal.Decimal
	CPIPct             decimal.Decimal
	DirectCosts        decimal.Decimal
	Incentives         decimal.Decimal
	Prepayments        decimal.Decimal
	ResidualValue      decimal.Decimal
	DepreciationMethod string
	Exempt             bool
	Liability          decimal.Decimal
	ROUAsset           decimal.Decimal
	CreatedAt          time.Time
}

// ModificationRecord is the persisted form of a modification event.
type ModificationRecord struct {
	ID                 string
	LeaseID            string
	EffectiveDate      time.Time
	NewTermMonths      int
	NewMonthlyPayment  decimal.Decimal
	NewDiscountRatePct decimal.Decimal
	Kind               string
	Reason             string
	CarryingLiability  decimal.Decimal
	CarryingROU        decimal.Decimal
	NewLiability       decimal.Decimal
	NewROU             decimal.Decimal
	GainToPL           decimal.Decimal
	CreatedAt          time.Time
}

// =============================================================================
// LEASES
// =============================================================================

// SaveLease inserts or replaces a lease record.
func (s *Store) SaveLease(ctx context.Context, l LeaseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO leases (
			id, name, entity, location, asset_class, start_date, term_months,
			monthly_payment, discount_rate_pct, cpi_pct, direct_costs,
			incentives, prepayments, residual_value, depreciation_method,
			exempt, liability, rou_asset, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Name, l.Entity, l.Location, l.AssetClass,
		l.StartDate.Format(dateFormat), l.TermMonths,
		l.MonthlyPayment.String(), l.DiscountRatePct.String(), l.CPIPct.String(),
		l.DirectCosts.String(), l.Incentives.String(), l.Prepayments.String(),
		l.ResidualValue.String(), l.DepreciationMethod,
		boolToInt(l.Exempt), l.Liability.String(), l.ROUAsset.String(),
		l.CreatedAt.Format(time.RFC3339),
	)
	return err
}

// GetLease returns a lease by ID, or nil when not found.
func (s *Store) GetLease(ctx context.Context, id string) (*LeaseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, entity, location, asset_class, start_date, term_months,
		       monthly_payment, discount_rate_pct, cpi_pct, direct_costs,
		       incentives, prepayments, residual_value, depreciation_method,
		       exempt, liability, rou_asset, created_at
		FROM leases WHERE id = ?`, id)

	l, err := scanLease(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ListLeases returns all leases ordered by creation time.
func (s *Store) ListLeases(ctx context.Context) ([]LeaseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, entity, location, asset_class, start_date, term_months,
		       monthly_payment, discount_rate_pct, cpi_pct, direct_costs,
		       incentives, prepayments, residual_value, depreciation_method,
		       exempt, liability, rou_asset, created_at
		FROM leases ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leases []LeaseRecord
	for rows.Next() {
		l, err := scanLease(rows)
		if err != nil {
			return nil, err
		}
		leases = append(leases, *l)
	}
	return leases, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLease(r rowScanner) (*LeaseRecord, error) {
	var (
		l                                     LeaseRecord
		startDate, createdAt                  string
		payment, rate, cpi, costs, incentives string
		prepayments, residual, liability, rou string
		exempt                                int
	)
	err := r.Scan(&l.ID, &l.Name, &l.Entity, &l.Location, &l.AssetClass,
		&startDate, &l.TermMonths, &payment, &rate, &cpi, &costs,
		&incentives, &prepayments, &residual, &l.DepreciationMethod,
		&exempt, &liability, &rou, &createdAt)
	if err != nil {
		return nil, err
	}

	if l.StartDate, err = time.Parse(dateFormat, startDate); err != nil {
		return nil, fmt.Errorf("bad start_date: %w", err)
	}
	if l.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("bad created_at: %w", err)
	}

	fields := []struct {
		dst *decimal.Decimal
		src string
	}{
		{&l.MonthlyPayment, payment}, {&l.DiscountRatePct, rate},
		{&l.CPIPct, cpi}, {&l.DirectCosts, costs},
		{&l.Incentives, incentives}, {&l.Prepayments, prepayments},
		{&l.ResidualValue, residual}, {&l.Liability, liability},
		{&l.ROUAsset, rou},
	}
	for _, f := range fields {
		if *f.dst, err = decimal.NewFromString(f.src); err != nil {
			return nil, fmt.Errorf("bad decimal column: %w", err)
		}
	}
	l.Exempt = exempt != 0
	return &l, nil
}

// =============================================================================
// SCHEDULES
// =============================================================================

// ReplaceSchedule replaces the stored schedule for a lease in one
// transaction.
func (s *Store) ReplaceSchedule(ctx context.Context, leaseID string, rows []engine.ScheduleRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_rows WHERE lease_id = ?`, leaseID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO schedule_rows (
			lease_id, period, date, payment, interest, principal,
			closing_liability, depreciation, rou_balance, total_expense
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.ExecContext(ctx, leaseID, r.Period, r.Date.Format(dateFormat),
			r.Payment.String(), r.Interest.String(), r.Principal.String(),
			r.ClosingLiability.String(), r.Depreciation.String(),
			r.ROUBalance.String(), r.TotalExpense.String())
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetSchedule returns the stored schedule for a lease, ordered by period.
func (s *Store) GetSchedule(ctx context.Context, leaseID string) (engine.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT period, date, payment, interest, principal,
		       closing_liability, depreciation, rou_balance, total_expense
		FROM schedule_rows WHERE lease_id = ? ORDER BY period`, leaseID)
	if err != nil {
		return engine.Schedule{}, err
	}
	defer rows.Close()

	var schedule engine.Schedule
	for rows.Next() {
		var (
			r                                      engine.ScheduleRow
			date                                   string
			payment, interest, principal, closing  string
			depreciation, rouBalance, totalExpense string
		)
		if err := rows.Scan(&r.Period, &date, &payment, &interest, &principal,
			&closing, &depreciation, &rouBalance, &totalExpense); err != nil {
			return engine.Schedule{}, err
		}
		if r.Date, err = time.Parse(dateFormat, date); err != nil {
			return engine.Schedule{}, fmt.Errorf("bad row date: %w", err)
		}
		fields := []struct {
			dst *decimal.Decimal
			src string
		}{
			{&r.Payment, payment}, {&r.Interest, interest},
			{&r.Principal, principal}, {&r.ClosingLiability, closing},
			{&r.Depreciation, depreciation}, {&r.ROUBalance, rouBalance},
			{&r.TotalExpense, totalExpense},
		}
		for _, f := range fields {
			if *f.dst, err = decimal.NewFromString(f.src); err != nil {
				return engine.Schedule{}, fmt.Errorf("bad decimal column: %w", err)
			}
		}
		schedule.Rows = append(schedule.Rows, r)
	}
	return schedule, rows.Err()
}

// =============================================================================
// MODIFICATIONS
// =============================================================================

// SaveModification appends a modification event record.
func (s *Store) SaveModification(ctx context.Context, m ModificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO modifications (
			id, lease_id, effective_date, new_term_months, new_monthly_payment,
			new_discount_rate_pct, kind, reason, carrying_liability,
			carrying_rou, new_liability, new_rou, gain_to_pl, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.LeaseID, m.EffectiveDate.Format(dateFormat), m.NewTermMonths,
		m.NewMonthlyPayment.String(), m.NewDiscountRatePct.String(),
		m.Kind, m.Reason, m.CarryingLiability.String(), m.CarryingROU.String(),
		m.NewLiability.String(), m.NewROU.String(), m.GainToPL.String(),
		m.CreatedAt.Format(time.RFC3339),
	)
	return err
}

// ListModifications returns a lease's modification events in effective
// date order.
func (s *Store) ListModifications(ctx context.Context, leaseID string) ([]ModificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, lease_id, effective_date, new_term_months, new_monthly_payment,
		       new_discount_rate_pct, kind, reason, carrying_liability,
		       carrying_rou, new_liability, new_rou, gain_to_pl, created_at
		FROM modifications WHERE lease_id = ? ORDER BY effective_date`, leaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mods []ModificationRecord
	for rows.Next() {
		var (
			m                                   ModificationRecord
			effectiveDate, createdAt            string
			payment, rate, carryingL, carryingR string
			newL, newR, gain                    string
		)
		if err := rows.Scan(&m.ID, &m.LeaseID, &effectiveDate, &m.NewTermMonths,
			&payment, &rate, &m.Kind, &m.Reason, &carryingL, &carryingR,
			&newL, &newR, &gain, &createdAt); err != nil {
			return nil, err
		}
		if m.EffectiveDate, err = time.Parse(dateFormat, effectiveDate); err != nil {
			return nil, fmt.Errorf("bad effective_date: %w", err)
		}
		if m.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("bad created_at: %w", err)
		}
		fields := []struct {
			dst *decimal.Decimal
			src string
		}{
			{&m.NewMonthlyPayment, payment}, {&m.NewDiscountRatePct, rate},
			{&m.CarryingLiability, carryingL}, {&m.CarryingROU, carryingR},
			{&m.NewLiability, newL}, {&m.NewROU, newR}, {&m.GainToPL, gain},
		}
		for _, f := range fields {
			if *f.dst, err = decimal.NewFromString(f.src); err != nil {
				return nil, fmt.Errorf("bad decimal column: %w", err)
			}
		}
		mods = append(mods, m)
	}
	return mods, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
