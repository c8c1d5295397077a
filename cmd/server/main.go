package main

import (
	"ticketflow/internal/ai"
	"ticketflow/internal/config"
	"ticketflow/internal/email"
	"ticketflow/internal/pipeline"
	"ticketflow/internal/server"
	"ticketflow/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger
	logger := cfg.SetupLogger()

	// Missing credentials abort before any ticket is handled
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Configuration invalid")
	}

	// Build the ticket store: SQL-backed when DATABASE_URL is set,
	// otherwise an in-memory sheet for local development
	var pending, processed store.Table
	if cfg.DatabaseURL != "" {
		db, err := store.Open(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Row store connection failed")
		}
		logger.Info().Msg("Row store connection established")
		pending = store.NewSQLTable(db, cfg.PendingTable)
		processed = store.NewSQLTable(db, cfg.ProcessedTable)
	} else {
		logger.Warn().Msg("DATABASE_URL not set, using in-memory tables (data is lost on restart)")
		pending = store.NewMemTable(cfg.PendingTable)
		processed = store.NewMemTable(cfg.ProcessedTable)
	}

	ticketStore := store.NewTicketStore(pending, processed, logger)

	// Assemble the pipeline
	aiClient := ai.NewClient(cfg)
	classifier := ai.NewClassifier(aiClient, aiClient.Model(), logger)
	replies := ai.NewReplyGenerator(aiClient, aiClient.Model(), logger)
	sender := email.NewService(cfg.SendGridAPIKey, cfg.FromEmail, cfg.FromName)
	orchestrator := pipeline.New(ticketStore, classifier, replies, sender, logger)

	// Create and initialize server
	srv := server.New(cfg, ticketStore, orchestrator, logger)
	srv.Initialize()

	// Start server
	if err := srv.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Server failed to start")
	}
}
