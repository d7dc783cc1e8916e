package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"soquy/internal/common"
	"soquy/internal/config"
	"soquy/internal/ledger"
	"soquy/internal/service"
	"soquy/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
// Opening and migrating are retried; another soquy process may hold the
// database briefly.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath, err := config.DatabasePath()
	if err != nil {
		return nil, err
	}

	var store service.Storage
	err = common.WithRetry(ctx, func() error {
		s, openErr := storage.NewSQLiteStorage(dbPath)
		if openErr != nil {
			return openErr
		}
		if migrateErr := s.Migrate(ctx); migrateErr != nil {
			_ = s.Close()
			return fmt.Errorf("failed to run migrations: %w", migrateErr)
		}
		store = s
		return nil
	}, common.RetryOptions{MaxAttempts: 3, InitialDelay: 200 * time.Millisecond, MaxDelay: 2 * time.Second})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// friendly wraps known ledger errors with a message fit for terminal output;
// anything unrecognized passes through unchanged.
func friendly(err error) error {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return common.NewUserError("nothing with that identifier exists", err)
	case errors.Is(err, common.ErrDuplicate):
		return common.NewUserError("a record with that name already exists", err)
	case errors.Is(err, common.ErrValidation):
		return common.NewUserError("that combination is not allowed", err)
	case errors.Is(err, common.ErrReferenced):
		return common.NewUserError("the record is still in use", err)
	case errors.Is(err, common.ErrUnsupportedType):
		return common.NewUserError("unknown transaction type", err)
	}
	return err
}

// initLedger initializes storage and wraps it in a ledger.
func initLedger(ctx context.Context) (*ledger.Ledger, service.Storage, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}
	return ledger.New(store), store, nil
}
