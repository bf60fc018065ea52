// db.go
//
// Opens the high-score store for the server.
// SQLite at DB_PATH is preferred; if it cannot be opened or migrated the
// server keeps running on an in-memory store and the high score lasts only as
// long as the process.

package main

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mathsdarts/assets"
	"github.com/robalobadob/mathsdarts/internal/store"
)

// openStore returns the store and the database behind it (nil when the store
// is in memory).
func openStore(ctx context.Context, dsn string) (store.Store, *sql.DB) {
	db, err := store.Open(dsn)
	if err != nil {
		log.Warn().Err(err).Str("path", dsn).Msg("open database; high score will not persist")
		return store.NewMemoryStore(), nil
	}
	if err := store.Migrate(ctx, db, assets.FS, assets.MigrationsDir); err != nil {
		_ = db.Close()
		log.Warn().Err(err).Str("path", dsn).Msg("migrate database; high score will not persist")
		return store.NewMemoryStore(), nil
	}
	log.Info().Str("path", dsn).Msg("database ready")
	return store.NewSQLiteStore(db), db
}
