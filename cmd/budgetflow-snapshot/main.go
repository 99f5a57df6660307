package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"budgetflow/internal/config"
	"budgetflow/internal/log"
	"budgetflow/internal/session"
	"budgetflow/internal/snapshot"
	"budgetflow/internal/store"
)

// budgetflow-snapshot exports the full ledger state as JSON to stdout, or
// imports a JSON snapshot file into the configured store.
func main() {
	var (
		export     = flag.Bool("export", false, "write the current state as JSON to stdout")
		importPath = flag.String("import", "", "path to a JSON snapshot file to load into the store")
	)
	flag.Parse()

	if *export == (*importPath != "") {
		fmt.Fprintln(os.Stderr, "usage: budgetflow-snapshot -export | -import <file>")
		os.Exit(2)
	}

	_ = godotenv.Load()

	logger := log.New(log.Config{
		Level:     slog.LevelWarn,
		Component: log.ComponentSnapshot,
		Handler:   slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}),
	})
	slog.SetDefault(logger.Logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, err := store.New(ctx, store.Config{
		Type:          store.Backend(cfg.DataBackend),
		SQLitePath:    cfg.SQLiteDBPath,
		SpreadsheetID: cfg.SpreadsheetID,
		SheetName:     cfg.SheetName,
		DataDirectory: cfg.DataDirectory,
	})
	if err != nil {
		logger.Error("Failed to initialize slice store", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	sess := session.New(st, nil, cfg.DefaultSettings())
	if err := sess.Restore(ctx); err != nil {
		logger.Error("Failed to restore session from store", log.FieldError, err)
		os.Exit(1)
	}

	switch {
	case *export:
		if err := snapshot.Encode(os.Stdout, sess.Export()); err != nil {
			logger.Error("Failed to encode snapshot", log.FieldError, err)
			os.Exit(1)
		}
	case *importPath != "":
		f, err := os.Open(*importPath)
		if err != nil {
			logger.Error("Failed to open snapshot file", log.FieldError, err, log.FieldPath, *importPath)
			os.Exit(1)
		}
		snap, err := snapshot.Decode(f)
		f.Close()
		if err != nil {
			logger.Error("Failed to decode snapshot file", log.FieldError, err, log.FieldPath, *importPath)
			os.Exit(1)
		}
		sess.Dispatch(ctx, snap.Command())
		if err := sess.Flush(ctx); err != nil {
			logger.Error("Failed to persist imported state", log.FieldError, err)
			os.Exit(1)
		}
	}

	if err := sess.Close(); err != nil {
		logger.Error("Close failed", log.FieldError, err)
		os.Exit(1)
	}
}
