// Command process-tickets drains the pending queue once and exits.
// It is the non-interactive counterpart of POST /api/tickets/process
// with all=true, suitable for cron.
package main

import (
	"context"
	"os"
	"time"

	"ticketflow/internal/ai"
	"ticketflow/internal/config"
	"ticketflow/internal/email"
	"ticketflow/internal/pipeline"
	"ticketflow/internal/store"
)

func main() {
	cfg := config.Load()
	logger := cfg.SetupLogger()

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Configuration invalid")
	}

	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Row store connection failed")
	}

	ticketStore := store.NewTicketStore(
		store.NewSQLTable(db, cfg.PendingTable),
		store.NewSQLTable(db, cfg.ProcessedTable),
		logger,
	)

	aiClient := ai.NewClient(cfg)
	orchestrator := pipeline.New(
		ticketStore,
		ai.NewClassifier(aiClient, aiClient.Model(), logger),
		ai.NewReplyGenerator(aiClient, aiClient.Model(), logger),
		email.NewService(cfg.SendGridAPIKey, cfg.FromEmail, cfg.FromName),
		logger,
	)

	// One external call can hang for the transport timeout, so scale
	// the overall deadline generously.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	summary, err := orchestrator.ProcessAll(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("Processing run failed")
	}

	for _, r := range summary.Results {
		if r.Err != nil {
			logger.Warn().Str("email", r.Email).Err(r.Err).Msg("Ticket left pending")
		}
	}

	logger.Info().
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Msg("Processing run finished")

	if summary.Failed > 0 {
		os.Exit(1)
	}
}
