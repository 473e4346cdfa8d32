package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/centromex/donorlog/internal/bot"
	"github.com/centromex/donorlog/internal/config"
	"github.com/centromex/donorlog/internal/db"
	"github.com/centromex/donorlog/internal/ledger"
	"github.com/centromex/donorlog/internal/logging"
	"github.com/centromex/donorlog/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logging.New(os.Stderr, "production", "")
		fallback.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logging.New(os.Stderr, cfg.AppEnv, cfg.LogLevel)
	log.Info().Str("store", cfg.Store).Msg("starting blood donation log")

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	persister, closePersister, err := openPersister(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closePersister(); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	store := ledger.NewStore()
	if err := store.Load(persister); err != nil {
		return err
	}
	log.Info().Int("records", store.Len()).Msg("donation records loaded")

	ctrl := session.NewController(store, persister, session.WithLogger(log))

	if cfg.TelegramToken == "" {
		return session.NewConsole(ctrl, os.Stdin, os.Stdout).Run()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telegramBot, err := bot.New(bot.Config{
		Token:   cfg.TelegramToken,
		OwnerID: cfg.TelegramOwnerID,
	}, ctrl, log)
	if err != nil {
		return err
	}

	log.Info().Msg("bot is running, press Ctrl+C to stop")
	if err := telegramBot.Run(ctx); err != nil {
		log.Error().Err(err).Msg("bot error")
	}

	// Run has returned, so nothing else touches the store.
	return ctrl.Export()
}

func openPersister(cfg *config.Config) (ledger.Persister, func() error, error) {
	if cfg.Store != config.StoreSQLite {
		return ledger.NewCSVFiles(cfg.DataFile, cfg.SummaryFile), func() error { return nil }, nil
	}

	database, err := db.New(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", cfg.DBPath, err)
	}
	return database, database.Close, nil
}
