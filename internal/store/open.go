package store

import (
	"context"
	"fmt"

	"github.com/bourbon-beast/hockey-tracker-vite/internal/config"
)

// Open connects to the backend selected by cfg.StoreBackend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case config.BackendFirestore:
		return NewFirestore(ctx, cfg.FirestoreProjectID, cfg.CredentialsFile)
	case config.BackendPostgres:
		return NewPostgres(ctx, PostgresOptions{
			URL:      cfg.DatabaseURL,
			MinConns: cfg.DBPoolMinConns,
			MaxConns: cfg.DBPoolMaxConns,
			MaxLife:  cfg.DBPoolMaxLife,
		})
	case config.BackendSQLite:
		return NewSQLite(ctx, cfg.SQLitePath)
	case config.BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
