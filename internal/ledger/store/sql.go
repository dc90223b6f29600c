package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/previsao/internal/ledger"
)

// SQL keeps the settings document in a single row of the settings table.
type SQL struct {
	db    *sql.DB
	load  string
	write string
}

func NewPostgres(db *sql.DB) *SQL {
	return &SQL{
		db:   db,
		load: `SELECT document FROM settings WHERE id = 1`,
		write: `
			INSERT INTO settings (id, document, updated_at)
			VALUES (1, $1, NOW())
			ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = NOW()
		`,
	}
}

func NewSQLite(db *sql.DB) *SQL {
	return &SQL{
		db:   db,
		load: `SELECT document FROM settings WHERE id = 1`,
		write: `
			INSERT INTO settings (id, document, updated_at)
			VALUES (1, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (id) DO UPDATE SET document = excluded.document, updated_at = CURRENT_TIMESTAMP
		`,
	}
}

func (s *SQL) Load(ctx context.Context) (*ledger.Settings, error) {
	var raw []byte

	err := s.db.QueryRowContext(ctx, s.load).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return &ledger.Settings{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("querying settings: %w", err)
	}

	return Decode(raw)
}

func (s *SQL) Save(ctx context.Context, settings *ledger.Settings) error {
	raw, err := Encode(settings)
	if err != nil {
		return err
	}

	// JSONB rejects bytea parameters, so the document goes over the wire as text.
	if _, err := s.db.ExecContext(ctx, s.write, string(raw)); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}

	return nil
}
