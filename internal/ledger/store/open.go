package store

import (
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/previsao/internal/config"
	"github.com/MrJamesThe3rd/previsao/internal/database"
	"github.com/MrJamesThe3rd/previsao/internal/ledger"
)

// Open builds the repository selected by cfg.Store.Backend, migrating the
// schema of SQL backends. The returned close func releases the database.
func Open(cfg *config.Config) (ledger.Repository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Backend {
	case config.BackendFile:
		slog.Info("using file store", "path", cfg.Store.FilePath)
		return NewFile(cfg.Store.FilePath), noop, nil

	case config.BackendPostgres:
		if err := database.Migrate(database.Postgres, cfg.ConnectionString()); err != nil {
			return nil, nil, fmt.Errorf("migrating postgres: %w", err)
		}

		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, nil, err
		}

		slog.Info("using postgres store", "host", cfg.DB.Host, "database", cfg.DB.Name)

		return NewPostgres(db), db.Close, nil

	case config.BackendSQLite:
		db, err := database.NewSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}

		if err := database.Migrate(database.SQLite, database.SQLiteDSN(cfg.Store.SQLitePath)); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrating sqlite: %w", err)
		}

		slog.Info("using sqlite store", "path", cfg.Store.SQLitePath)

		return NewSQLite(db), db.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
