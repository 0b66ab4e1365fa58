// Package sqlite keeps the wealth records in a SQLite database through
// database/sql and mattn/go-sqlite3.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/wealthgrid/gateway"
	"github.com/rustyeddy/wealthgrid/wealth"
)

type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

var _ gateway.Gateway = (*SQLite)(nil)

// New opens (or creates) the database at path and applies the schema.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db, now: time.Now}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// classify maps driver errors onto the gateway taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return gateway.ErrNotFound
	}
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %v", gateway.ErrConflict, err)
	}
	return err
}

func (s *SQLite) GetProfile(ctx context.Context, identityID string) (wealth.Profile, error) {
	var (
		p       wealth.Profile
		grid    string
		answers string
	)

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, financial_score, risk_tolerance, wealth_grid, answers, is_onboarded, updated_at
		FROM profiles
		WHERE id = ?`, identityID)

	err := row.Scan(
		&p.IdentityID,
		&p.Name,
		&p.FinancialScore,
		&p.RiskTolerance,
		&grid,
		&answers,
		&p.Onboarded,
		&p.UpdatedAt,
	)
	if err != nil {
		return wealth.Profile{}, fmt.Errorf("profile %s: %w", identityID, classify(err))
	}

	if err := json.Unmarshal([]byte(grid), &p.Grid); err != nil {
		return wealth.Profile{}, fmt.Errorf("decode wealth_grid: %w", err)
	}
	if err := json.Unmarshal([]byte(answers), &p.Answers); err != nil {
		return wealth.Profile{}, fmt.Errorf("decode answers: %w", err)
	}
	return p, nil
}

func (s *SQLite) UpsertProfile(ctx context.Context, p wealth.Profile) error {
	grid, err := json.Marshal(p.Grid)
	if err != nil {
		return fmt.Errorf("encode wealth_grid: %w", err)
	}
	if p.Answers == nil {
		p.Answers = wealth.Answers{}
	}
	answers, err := json.Marshal(p.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = s.now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles
		(id, name, financial_score, risk_tolerance, wealth_grid, answers, is_onboarded, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			financial_score = excluded.financial_score,
			risk_tolerance = excluded.risk_tolerance,
			wealth_grid = excluded.wealth_grid,
			answers = excluded.answers,
			is_onboarded = excluded.is_onboarded,
			updated_at = excluded.updated_at`,
		p.IdentityID, p.Name, p.FinancialScore, string(p.RiskTolerance),
		string(grid), string(answers), p.Onboarded, p.UpdatedAt,
	)
	return classify(err)
}
