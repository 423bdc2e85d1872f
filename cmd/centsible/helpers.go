package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/centsible/centsible/internal/classify"
	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/config"
	"github.com/centsible/centsible/internal/engine"
	"github.com/centsible/centsible/internal/service"
	"github.com/centsible/centsible/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/centsible/centsible.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// modelPath resolves the classifier artifact location.
func modelPath() string {
	path := viper.GetString("classifier.model_path")
	if path == "" {
		path = "$HOME/.local/share/centsible/model.json"
	}
	return config.ExpandPath(path)
}

// initClassifier loads the trained model, falling back to a model trained on
// the built-in corpus when no artifact exists yet.
func initClassifier() (*classify.Classifier, error) {
	classifier, err := classify.LoadModel(modelPath())
	if err == nil {
		return classifier, nil
	}
	if !errors.Is(err, common.ErrModelNotFound) {
		return nil, err
	}

	samples, err := classify.SeedCorpus()
	if err != nil {
		return nil, err
	}
	classifier, _, err = classify.Train(samples, config.DefaultTaxonomy(), classify.TrainOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to train fallback model: %w", err)
	}
	return classifier, nil
}

// initEngine builds the analytics engine on the default taxonomy.
func initEngine() (*engine.Engine, error) {
	return engine.New(config.DefaultTaxonomy())
}

// parseDate accepts YYYY-MM-DD dates from flags and arguments.
func parseDate(value string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", value, err)
	}
	return day, nil
}

// monthFilter builds a filter covering a whole calendar month.
func monthFilter(month string) (service.TransactionFilter, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return service.TransactionFilter{}, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", month, err)
	}
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return service.TransactionFilter{StartDate: &start, EndDate: &end}, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
