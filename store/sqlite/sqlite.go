/*
Package sqlite provides a SQLite-backed implementation of the reference
repository, promo redemption, and decision audit log.

PURPOSE:
  Implements refdata.Repository, refdata.PromoRedeemer, and
  refdata.DecisionLog using SQLite. In production the same patterns apply
  to PostgreSQL - only minor SQL dialect differences.

EFFECTIVE-DATED READS:
  Every lookup carries the same WHERE clause the in-memory ActiveOn check
  implements:

    valid_from <= :asOf
    AND (valid_to IS NULL OR valid_to >= :asOf)
    AND active = 1

  Dates are stored as RFC3339 UTC strings, so lexicographic comparison
  matches chronological order.

PROMO ATOMICITY:
  Check-cap-and-increment is a single conditional UPDATE:

    UPDATE promo_codes SET usage_count = usage_count + 1
    WHERE code = ? AND (usage_cap IS NULL OR usage_count < usage_cap)

  RowsAffected tells the caller whether a use was consumed. Two concurrent
  redemptions of a code with one use left cannot both see rows=1.

DECISION AUDIT:
  quote_decisions is append-only: no UPDATE, no DELETE.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block and a single writer at a time is enough for
  the promo counter.

USAGE:
  store, err := sqlite.New("./data/premium.db")
  defer store.Close()
  store.Import(ctx, factory.DefaultSeed())

SEE ALSO:
  - refdata/repository.go: Interface definitions
  - refdata/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/premium-engine/refdata"
)

// Store implements the reference-data storage interfaces using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every pooled connection to ":memory:" would get its own empty database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
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

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS countries (
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		risk_group TEXT NOT NULL,
		risk_coefficient TEXT NOT NULL,
		valid_from TEXT NOT NULL,
		valid_to TEXT,
		active INTEGER NOT NULL DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_countries_code ON countries(code);

	CREATE TABLE IF NOT EXISTS coverage_levels (
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		coverage_amount TEXT NOT NULL,
		daily_rate TEXT NOT NULL,
		max_payout_amount TEXT,
		valid_from TEXT NOT NULL,
		valid_to TEXT,
		active INTEGER NOT NULL DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_coverage_levels_code ON coverage_levels(code);

	CREATE TABLE IF NOT EXISTS risk_types (
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		base_coefficient TEXT NOT NULL,
		mandatory INTEGER NOT NULL DEFAULT 0,
		valid_from TEXT NOT NULL,
		valid_to TEXT,
		active INTEGER NOT NULL DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_risk_types_code ON risk_types(code);

	CREATE TABLE IF NOT EXISTS age_coefficients (
		age_from INTEGER NOT NULL,
		age_to INTEGER NOT NULL,
		coefficient TEXT NOT NULL,
		description TEXT,
		valid_from TEXT NOT NULL,
		valid_to TEXT,
		active INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS age_risk_modifiers (
		risk_code TEXT NOT NULL,
		age_from INTEGER NOT NULL,
		age_to INTEGER NOT NULL,
		multiplier TEXT NOT NULL,
		valid_from TEXT NOT NULL,
		valid_to TEXT,
		active INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS duration_coefficients (
		days_from INTEGER NOT NULL,
		days_to INTEGER NOT NULL,
		coefficient TEXT NOT NULL,
		valid_from TEXT NOT NULL,
		valid_to TEXT,
		active INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS risk_bundles (
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		discount_percent TEXT NOT NULL,
		required_risk_codes TEXT NOT NULL, -- JSON array
		valid_from TEXT NOT NULL,
		valid_to TEXT,
		active INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS country_default_rates (
		country_code TEXT NOT NULL,
		daily_rate TEXT NOT NULL,
		valid_from TEXT NOT NULL,
		valid_to TEXT,
		active INTEGER NOT NULL DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_default_rates_country ON country_default_rates(country_code);

	CREATE TABLE IF NOT EXISTS promo_codes (
		code TEXT PRIMARY KEY,
		discount_type TEXT NOT NULL,
		value TEXT NOT NULL,
		max_discount TEXT,
		min_premium TEXT,
		usage_cap INTEGER,
		usage_count INTEGER NOT NULL DEFAULT 0,
		valid_from TEXT NOT NULL,
		valid_to TEXT,
		active INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS rule_parameters (
		rule_name TEXT NOT NULL,
		param_name TEXT NOT NULL,
		value TEXT NOT NULL,
		valid_from TEXT NOT NULL,
		valid_to TEXT,
		active INTEGER NOT NULL DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_rule_parameters_key ON rule_parameters(rule_name, param_name);

	-- Append-only audit of rendered decisions
	CREATE TABLE IF NOT EXISTS quote_decisions (
		quote_id TEXT PRIMARY KEY,
		decided_at TEXT NOT NULL,
		person_name TEXT NOT NULL,
		country_code TEXT NOT NULL,
		decision TEXT NOT NULL,
		reason TEXT,
		premium TEXT NOT NULL,
		currency TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DATE / DECIMAL ENCODING
// =============================================================================

func encodeDate(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func encodeDatePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return encodeDate(*t)
}

func decodeDate(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func decodeWindow(validFrom string, validTo sql.NullString) refdata.Window {
	w := refdata.Window{ValidFrom: decodeDate(validFrom), Active: true}
	if validTo.Valid {
		to := decodeDate(validTo.String)
		w.ValidTo = &to
	}
	return w
}

func decodeDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

func decodeDecimalPtr(s sql.NullString) (*decimal.Decimal, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// activeClause is the shared effective-dating predicate. Bind asOf twice.
const activeClause = `valid_from <= ? AND (valid_to IS NULL OR valid_to >= ?) AND active = 1`

// =============================================================================
// REPOSITORY IMPLEMENTATION
// =============================================================================

func (s *Store) CountryByCode(ctx context.Context, code string, asOf time.Time) (*refdata.Country, error) {
	at := encodeDate(asOf)
	row := s.db.QueryRowContext(ctx, `
		SELECT code, name, risk_group, risk_coefficient, valid_from, valid_to
		FROM countries WHERE code = ? AND `+activeClause+` LIMIT 1`,
		code, at, at)

	var c refdata.Country
	var coeff, validFrom string
	var validTo sql.NullString
	if err := row.Scan(&c.Code, &c.Name, (*string)(&c.RiskGroup), &coeff, &validFrom, &validTo); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	var err error
	if c.RiskCoefficient, err = decodeDecimal(coeff); err != nil {
		return nil, err
	}
	c.Window = decodeWindow(validFrom, validTo)
	return &c, nil
}

func (s *Store) CoverageLevelByCode(ctx context.Context, code string, asOf time.Time) (*refdata.CoverageLevel, error) {
	at := encodeDate(asOf)
	row := s.db.QueryRowContext(ctx, `
		SELECT code, name, coverage_amount, daily_rate, max_payout_amount, valid_from, valid_to
		FROM coverage_levels WHERE code = ? AND `+activeClause+` LIMIT 1`,
		code, at, at)

	var l refdata.CoverageLevel
	var amount, rate, validFrom string
	var maxPayout, validTo sql.NullString
	if err := row.Scan(&l.Code, &l.Name, &amount, &rate, &maxPayout, &validFrom, &validTo); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	var err error
	if l.CoverageAmount, err = decodeDecimal(amount); err != nil {
		return nil, err
	}
	if l.DailyRate, err = decodeDecimal(rate); err != nil {
		return nil, err
	}
	if l.MaxPayoutAmount, err = decodeDecimalPtr(maxPayout); err != nil {
		return nil, err
	}
	l.Window = decodeWindow(validFrom, validTo)
	return &l, nil
}

func (s *Store) RiskTypeByCode(ctx context.Context, code string, asOf time.Time) (*refdata.RiskType, error) {
	at := encodeDate(asOf)
	row := s.db.QueryRowContext(ctx, `
		SELECT code, name, base_coefficient, mandatory, valid_from, valid_to
		FROM risk_types WHERE code = ? AND `+activeClause+` LIMIT 1`,
		code, at, at)

	var r refdata.RiskType
	var coeff, validFrom string
	var validTo sql.NullString
	if err := row.Scan(&r.Code, &r.Name, &coeff, &r.Mandatory, &validFrom, &validTo); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	var err error
	if r.BaseCoefficient, err = decodeDecimal(coeff); err != nil {
		return nil, err
	}
	r.Window = decodeWindow(validFrom, validTo)
	return &r, nil
}

func (s *Store) AgeCoefficientFor(ctx context.Context, age int, asOf time.Time) (*refdata.AgeCoefficient, error) {
	at := encodeDate(asOf)
	row := s.db.QueryRowContext(ctx, `
		SELECT age_from, age_to, coefficient, description, valid_from, valid_to
		FROM age_coefficients
		WHERE age_from <= ? AND age_to >= ? AND `+activeClause+` LIMIT 1`,
		age, age, at, at)

	var a refdata.AgeCoefficient
	var coeff, validFrom string
	var desc, validTo sql.NullString
	if err := row.Scan(&a.AgeFrom, &a.AgeTo, &coeff, &desc, &validFrom, &validTo); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	var err error
	if a.Coefficient, err = decodeDecimal(coeff); err != nil {
		return nil, err
	}
	a.Description = desc.String
	a.Window = decodeWindow(validFrom, validTo)
	return &a, nil
}

func (s *Store) AgeRiskModifierFor(ctx context.Context, riskCode string, age int, asOf time.Time) (*refdata.AgeRiskModifier, error) {
	at := encodeDate(asOf)
	row := s.db.QueryRowContext(ctx, `
		SELECT risk_code, age_from, age_to, multiplier, valid_from, valid_to
		FROM age_risk_modifiers
		WHERE risk_code = ? AND age_from <= ? AND age_to >= ? AND `+activeClause+` LIMIT 1`,
		riskCode, age, age, at, at)

	var m refdata.AgeRiskModifier
	var mult, validFrom string
	var validTo sql.NullString
	if err := row.Scan(&m.RiskCode, &m.AgeFrom, &m.AgeTo, &mult, &validFrom, &validTo); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	var err error
	if m.Multiplier, err = decodeDecimal(mult); err != nil {
		return nil, err
	}
	m.Window = decodeWindow(validFrom, validTo)
	return &m, nil
}

// DurationCoefficientFor prefers the matching band with the highest lower
// bound (ORDER BY days_from DESC).
func (s *Store) DurationCoefficientFor(ctx context.Context, days int, asOf time.Time) (*refdata.DurationCoefficient, error) {
	at := encodeDate(asOf)
	row := s.db.QueryRowContext(ctx, `
		SELECT days_from, days_to, coefficient, valid_from, valid_to
		FROM duration_coefficients
		WHERE days_from <= ? AND days_to >= ? AND `+activeClause+`
		ORDER BY days_from DESC LIMIT 1`,
		days, days, at, at)

	var d refdata.DurationCoefficient
	var coeff, validFrom string
	var validTo sql.NullString
	if err := row.Scan(&d.DaysFrom, &d.DaysTo, &coeff, &validFrom, &validTo); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	var err error
	if d.Coefficient, err = decodeDecimal(coeff); err != nil {
		return nil, err
	}
	d.Window = decodeWindow(validFrom, validTo)
	return &d, nil
}

func (s *Store) RiskBundles(ctx context.Context, asOf time.Time) ([]refdata.RiskBundle, error) {
	at := encodeDate(asOf)
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, name, discount_percent, required_risk_codes, valid_from, valid_to
		FROM risk_bundles WHERE `+activeClause,
		at, at)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []refdata.RiskBundle
	for rows.Next() {
		var b refdata.RiskBundle
		var pct, required, validFrom string
		var validTo sql.NullString
		if err := rows.Scan(&b.Code, &b.Name, &pct, &required, &validFrom, &validTo); err != nil {
			return nil, err
		}
		if b.DiscountPercent, err = decodeDecimal(pct); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(required), &b.RequiredRiskCodes); err != nil {
			return nil, fmt.Errorf("bundle %s required codes: %w", b.Code, err)
		}
		b.Window = decodeWindow(validFrom, validTo)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) CountryDefaultRateFor(ctx context.Context, countryCode string, asOf time.Time) (*refdata.CountryDefaultRate, error) {
	at := encodeDate(asOf)
	row := s.db.QueryRowContext(ctx, `
		SELECT country_code, daily_rate, valid_from, valid_to
		FROM country_default_rates WHERE country_code = ? AND `+activeClause+` LIMIT 1`,
		countryCode, at, at)

	var r refdata.CountryDefaultRate
	var rate, validFrom string
	var validTo sql.NullString
	if err := row.Scan(&r.CountryCode, &rate, &validFrom, &validTo); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	var err error
	if r.DailyRate, err = decodeDecimal(rate); err != nil {
		return nil, err
	}
	r.Window = decodeWindow(validFrom, validTo)
	return &r, nil
}

func (s *Store) PromoCodeByCode(ctx context.Context, code string, asOf time.Time) (*refdata.PromoCode, error) {
	at := encodeDate(asOf)
	row := s.db.QueryRowContext(ctx, `
		SELECT code, discount_type, value, max_discount, min_premium, usage_cap, usage_count, valid_from, valid_to
		FROM promo_codes WHERE code = ? AND `+activeClause+` LIMIT 1`,
		code, at, at)

	var p refdata.PromoCode
	var value, validFrom string
	var maxDiscount, minPremium, validTo sql.NullString
	var usageCap sql.NullInt64
	if err := row.Scan(&p.Code, (*string)(&p.Type), &value, &maxDiscount, &minPremium, &usageCap, &p.UsageCount, &validFrom, &validTo); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	var err error
	if p.Value, err = decodeDecimal(value); err != nil {
		return nil, err
	}
	if p.MaxDiscount, err = decodeDecimalPtr(maxDiscount); err != nil {
		return nil, err
	}
	if p.MinPremium, err = decodeDecimalPtr(minPremium); err != nil {
		return nil, err
	}
	if usageCap.Valid {
		cap := int(usageCap.Int64)
		p.UsageCap = &cap
	}
	p.Window = decodeWindow(validFrom, validTo)
	return &p, nil
}

func (s *Store) RuleParameter(ctx context.Context, ruleName, paramName string, asOf time.Time) (*refdata.RuleParameter, error) {
	at := encodeDate(asOf)
	row := s.db.QueryRowContext(ctx, `
		SELECT rule_name, param_name, value, valid_from, valid_to
		FROM rule_parameters WHERE rule_name = ? AND param_name = ? AND `+activeClause+` LIMIT 1`,
		ruleName, paramName, at, at)

	var p refdata.RuleParameter
	var value, validFrom string
	var validTo sql.NullString
	if err := row.Scan(&p.RuleName, &p.ParamName, &value, &validFrom, &validTo); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	var err error
	if p.Value, err = decodeDecimal(value); err != nil {
		return nil, err
	}
	p.Window = decodeWindow(validFrom, validTo)
	return &p, nil
}

// =============================================================================
// PROMO REDEMPTION - One conditional UPDATE, no read-then-write
// =============================================================================

func (s *Store) RedeemPromo(ctx context.Context, code string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE promo_codes SET usage_count = usage_count + 1
		WHERE code = ? AND (usage_cap IS NULL OR usage_count < usage_cap)`,
		code)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// =============================================================================
// DECISION LOG - Append-only
// =============================================================================

func (s *Store) AppendDecision(ctx context.Context, entry refdata.DecisionEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quote_decisions (quote_id, decided_at, person_name, country_code, decision, reason, premium, currency)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.QuoteID, encodeDate(entry.At), entry.PersonName, entry.CountryCode,
		entry.Decision, entry.Reason, entry.Premium, entry.Currency)
	return err
}

// ListDecisions returns the most recent decisions, newest first.
func (s *Store) ListDecisions(ctx context.Context, limit int) ([]refdata.DecisionEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT quote_id, decided_at, person_name, country_code, decision, reason, premium, currency
		FROM quote_decisions ORDER BY decided_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []refdata.DecisionEntry
	for rows.Next() {
		var e refdata.DecisionEntry
		var at string
		var reason sql.NullString
		if err := rows.Scan(&e.QuoteID, &at, &e.PersonName, &e.CountryCode, &e.Decision, &reason, &e.Premium, &e.Currency); err != nil {
			return nil, err
		}
		e.At = decodeDate(at)
		e.Reason = reason.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// =============================================================================
// SEED IMPORT - Replaces reference contents atomically
// =============================================================================

// Import replaces all reference tables with the dataset in one transaction.
// The decision audit table is left untouched.
func (s *Store) Import(ctx context.Context, ds refdata.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	tables := []string{
		"countries", "coverage_levels", "risk_types", "age_coefficients",
		"age_risk_modifiers", "duration_coefficients", "risk_bundles",
		"country_default_rates", "promo_codes", "rule_parameters",
	}
	for _, t := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return err
		}
	}

	for _, c := range ds.Countries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO countries (code, name, risk_group, risk_coefficient, valid_from, valid_to, active)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.Code, c.Name, string(c.RiskGroup), c.RiskCoefficient.String(),
			encodeDate(c.ValidFrom), encodeDatePtr(c.ValidTo), c.Active); err != nil {
			return err
		}
	}
	for _, l := range ds.CoverageLevels {
		var maxPayout any
		if l.MaxPayoutAmount != nil {
			maxPayout = l.MaxPayoutAmount.String()
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO coverage_levels (code, name, coverage_amount, daily_rate, max_payout_amount, valid_from, valid_to, active)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			l.Code, l.Name, l.CoverageAmount.String(), l.DailyRate.String(), maxPayout,
			encodeDate(l.ValidFrom), encodeDatePtr(l.ValidTo), l.Active); err != nil {
			return err
		}
	}
	for _, r := range ds.RiskTypes {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO risk_types (code, name, base_coefficient, mandatory, valid_from, valid_to, active)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.Code, r.Name, r.BaseCoefficient.String(), r.Mandatory,
			encodeDate(r.ValidFrom), encodeDatePtr(r.ValidTo), r.Active); err != nil {
			return err
		}
	}
	for _, a := range ds.AgeCoefficients {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO age_coefficients (age_from, age_to, coefficient, description, valid_from, valid_to, active)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			a.AgeFrom, a.AgeTo, a.Coefficient.String(), a.Description,
			encodeDate(a.ValidFrom), encodeDatePtr(a.ValidTo), a.Active); err != nil {
			return err
		}
	}
	for _, m := range ds.AgeRiskModifiers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO age_risk_modifiers (risk_code, age_from, age_to, multiplier, valid_from, valid_to, active)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			m.RiskCode, m.AgeFrom, m.AgeTo, m.Multiplier.String(),
			encodeDate(m.ValidFrom), encodeDatePtr(m.ValidTo), m.Active); err != nil {
			return err
		}
	}
	for _, d := range ds.DurationCoefficients {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO duration_coefficients (days_from, days_to, coefficient, valid_from, valid_to, active)
			VALUES (?, ?, ?, ?, ?, ?)`,
			d.DaysFrom, d.DaysTo, d.Coefficient.String(),
			encodeDate(d.ValidFrom), encodeDatePtr(d.ValidTo), d.Active); err != nil {
			return err
		}
	}
	for _, b := range ds.Bundles {
		required, err := json.Marshal(b.RequiredRiskCodes)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO risk_bundles (code, name, discount_percent, required_risk_codes, valid_from, valid_to, active)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			b.Code, b.Name, b.DiscountPercent.String(), string(required),
			encodeDate(b.ValidFrom), encodeDatePtr(b.ValidTo), b.Active); err != nil {
			return err
		}
	}
	for _, r := range ds.DefaultRates {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO country_default_rates (country_code, daily_rate, valid_from, valid_to, active)
			VALUES (?, ?, ?, ?, ?)`,
			r.CountryCode, r.DailyRate.String(),
			encodeDate(r.ValidFrom), encodeDatePtr(r.ValidTo), r.Active); err != nil {
			return err
		}
	}
	for _, p := range ds.PromoCodes {
		var maxDiscount, minPremium, usageCap any
		if p.MaxDiscount != nil {
			maxDiscount = p.MaxDiscount.String()
		}
		if p.MinPremium != nil {
			minPremium = p.MinPremium.String()
		}
		if p.UsageCap != nil {
			usageCap = *p.UsageCap
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO promo_codes (code, discount_type, value, max_discount, min_premium, usage_cap, usage_count, valid_from, valid_to, active)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Code, string(p.Type), p.Value.String(), maxDiscount, minPremium, usageCap, p.UsageCount,
			encodeDate(p.ValidFrom), encodeDatePtr(p.ValidTo), p.Active); err != nil {
			return err
		}
	}
	for _, p := range ds.RuleParameters {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO rule_parameters (rule_name, param_name, value, valid_from, valid_to, active)
			VALUES (?, ?, ?, ?, ?, ?)`,
			p.RuleName, p.ParamName, p.Value.String(),
			encodeDate(p.ValidFrom), encodeDatePtr(p.ValidTo), p.Active); err != nil {
			return err
		}
	}

	return tx.Commit()
}
