package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"edgar_statements/pkg/core/statement"
	"edgar_statements/pkg/core/validate"
)

// StatementRepo persists parsed income statements and their validation
// results, one row per ticker.
type StatementRepo struct{}

// NewStatementRepo creates a repository instance.
func NewStatementRepo() *StatementRepo {
	return &StatementRepo{}
}

// StoredStatement is one persisted statement with its validation findings
// and provenance.
type StoredStatement struct {
	Statement  *statement.IncomeStatement `json:"statement"`
	Validation *validate.ValidationResult `json:"validation,omitempty"`
	Source     string                     `json:"source,omitempty"`
	UpdatedAt  time.Time                  `json:"updated_at"`
}

// Save upserts the statement by ticker. The statement body goes into a
// JSONB column; periods are a map keyed by period key, which JSONB indexes
// well enough for the read patterns here.
func (r *StatementRepo) Save(ctx context.Context, s *statement.IncomeStatement, validation *validate.ValidationResult, source string) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}
	if s == nil || s.Ticker == "" {
		return fmt.Errorf("statement has no ticker")
	}

	statementJSON, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal statement: %w", err)
	}
	var validationJSON []byte
	if validation != nil {
		validationJSON, err = json.Marshal(validation)
		if err != nil {
			return fmt.Errorf("failed to marshal validation: %w", err)
		}
	}

	query := `
		INSERT INTO income_statements (ticker, company_name, statement_json, validation_json, source, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (ticker)
		DO UPDATE SET
			company_name = EXCLUDED.company_name,
			statement_json = EXCLUDED.statement_json,
			validation_json = EXCLUDED.validation_json,
			source = EXCLUDED.source,
			updated_at = EXCLUDED.updated_at;
	`

	ticker := strings.ToUpper(strings.TrimSpace(s.Ticker))
	_, err = pool.Exec(ctx, query, ticker, s.CompanyName, statementJSON, validationJSON, source, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save statement: %w", err)
	}
	return nil
}

// Load retrieves the stored statement for a ticker.
func (r *StatementRepo) Load(ctx context.Context, ticker string) (*StoredStatement, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT statement_json, validation_json, source, updated_at FROM income_statements WHERE ticker = $1`

	var (
		statementJSON  []byte
		validationJSON []byte
		source         *string
		updatedAt      time.Time
	)
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	err := pool.QueryRow(ctx, query, ticker).Scan(&statementJSON, &validationJSON, &source, &updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no statement stored for ticker %s", ticker)
		}
		return nil, fmt.Errorf("failed to load statement: %w", err)
	}

	stored := &StoredStatement{UpdatedAt: updatedAt}
	if source != nil {
		stored.Source = *source
	}
	if err := json.Unmarshal(statementJSON, &stored.Statement); err != nil {
		return nil, fmt.Errorf("failed to unmarshal statement: %w", err)
	}
	if len(validationJSON) > 0 {
		if err := json.Unmarshal(validationJSON, &stored.Validation); err != nil {
			return nil, fmt.Errorf("failed to unmarshal validation: %w", err)
		}
	}
	return stored, nil
}

// Tickers lists every ticker with a stored statement.
func (r *StatementRepo) Tickers(ctx context.Context) ([]string, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	rows, err := pool.Query(ctx, `SELECT ticker FROM income_statements ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickers: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, err
		}
		tickers = append(tickers, ticker)
	}
	return tickers, rows.Err()
}
