package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/parish-fund-ledger/internal/api_server"
	"github.com/parish-fund-ledger/internal/audit_processor/outbox_poller"
	"github.com/parish-fund-ledger/internal/config"
	"github.com/parish-fund-ledger/internal/data/postgres"
	"github.com/parish-fund-ledger/internal/ledger"
	"github.com/parish-fund-ledger/internal/logger"
	"github.com/parish-fund-ledger/internal/planning"
	"github.com/parish-fund-ledger/internal/platform/messaging/producers"
	"github.com/parish-fund-ledger/internal/platform/persistence"
	"github.com/parish-fund-ledger/internal/report"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api_server")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize database with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producer for the audit event stream
	auditProducer, err := producers.NewAuditEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize audit event Kafka producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	fundRepo := postgres.NewFundRepository(log, postgresDB)
	journalRepo := postgres.NewTransactionRepository(log, postgresDB)
	budgetRepo := postgres.NewBudgetRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)

	// Initialize engines
	ledgerService := ledger.NewService(log, postgresDB, accountRepo, fundRepo, journalRepo, outboxRepo)
	chartService := ledger.NewChartService(log, accountRepo, fundRepo)
	reporter := report.NewReporter(log, report.NewAggregator(log, journalRepo), accountRepo)
	projector := planning.NewProjector(log, postgresDB, budgetRepo, journalRepo, accountRepo)

	// Initialize outbox poller, pushing audit events onto the Kafka stream
	auditPublisher := outbox_poller.NewAuditPublisher(outboxRepo, auditProducer, log)
	poller := outbox_poller.NewPoller(&cfg.Outbox, outboxRepo, auditPublisher, log)

	// Initialize REST server
	server := api_server.NewServer(log, cfg, ledgerService, chartService, reporter, projector)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	var wg sync.WaitGroup

	// Start outbox poller in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Start(appCtx)
	}()

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context, stopping the poller
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Wait for the poller to drain its current batch
	wg.Wait()

	if err = auditProducer.Close(); err != nil {
		log.Error("Error closing Kafka producer", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
