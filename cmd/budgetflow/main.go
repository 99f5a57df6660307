package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"budgetflow/internal/config"
	"budgetflow/internal/events"
	"budgetflow/internal/ledger"
	"budgetflow/internal/log"
	"budgetflow/internal/report"
	"budgetflow/internal/session"
	"budgetflow/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	slog.SetDefault(logger.Logger)

	logger.Info("Starting budgetflow")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
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
	logger.Info("Initialized slice store", log.FieldBackend, cfg.DataBackend)

	var ev *events.Client
	if cfg.AMQPURL != "" {
		ev, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without change events", log.FieldError, err)
			ev = nil
		} else {
			logger.Info("AMQP client initialized, slice changes will be published")
		}
	}

	sess := session.New(st, ev, cfg.DefaultSettings())
	if err := sess.Restore(ctx); err != nil {
		logger.Error("Failed to restore session from store", log.FieldError, err)
		os.Exit(1)
	}

	// Graceful shutdown handling
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	runSyncPass(ctx, logger, sess)

	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := sess.Flush(shutdownCtx); err != nil {
				logger.Error("Final flush failed", log.FieldError, err)
			}
			shutdownCancel()
			if ev != nil {
				ev.Close()
			}
			if err := sess.Close(); err != nil {
				logger.Error("Close failed", log.FieldError, err)
			}
			logger.Info("Stopped gracefully")
			return
		case <-ticker.C:
			runSyncPass(ctx, logger, sess)
		}
	}
}

// runSyncPass reconciles every month against the current template list and
// logs the figures a dashboard would show.
func runSyncPass(ctx context.Context, logger *log.Logger, sess *session.Service) {
	syncLog := logger.WithComponent(log.ComponentSync)

	state := sess.State()
	synced := 0
	for _, m := range state.Months {
		if len(ledger.MissingTemplates(m, state.Templates)) == 0 {
			continue
		}
		changed := sess.Dispatch(ctx, ledger.SyncRecurring{MonthID: m.ID})
		if len(changed) > 0 {
			synced++
			syncLog.Info("Synchronized recurring expenses",
				log.FieldMonthID, m.ID,
				log.FieldMonthName, m.Name)
		}
	}
	syncLog.Info("Recurring sync pass complete",
		log.FieldCount, synced,
		"months_total", len(state.Months))

	overview := report.GlobalOverview(sess.State().Months)
	logger.Info("Ledger overview",
		"net_worth", overview.NetWorth.String(),
		"total_spent", overview.TotalSpent.String(),
		"savings_rate", overview.SavingsRate)

	for _, a := range sess.Alerts() {
		logger.WithComponent(log.ComponentAlerts).Warn(a.Message,
			log.FieldAlertID, a.ID,
			"type", string(a.Type))
	}
}
