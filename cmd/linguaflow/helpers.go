package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/linguaops/linguaflow/internal/api"
	"github.com/linguaops/linguaflow/internal/config"
	"github.com/linguaops/linguaflow/internal/storage"
)

// initStorage opens the local estimate history database with proper path
// expansion and runs migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/linguaflow/linguaflow.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newStoreClient builds the document store client from configuration.
func newStoreClient() (*api.Client, error) {
	settings := config.LoadDocumentStore()
	if settings.URL == "" {
		return nil, fmt.Errorf("document store URL not configured (set store.url or --store-url)")
	}
	return api.NewClient(settings.URL, settings.APIKey)
}
