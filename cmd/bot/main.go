// Package main is the entry point for the casino bot.
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"star-casino-bot/internal/bot"
	"star-casino-bot/internal/config"
	"star-casino-bot/internal/game"
	"star-casino-bot/internal/game/basketball"
	"star-casino-bot/internal/game/bowling"
	"star-casino-bot/internal/game/darts"
	"star-casino-bot/internal/game/dice"
	"star-casino-bot/internal/game/football"
	"star-casino-bot/internal/ledger"
	"star-casino-bot/internal/logbook"
	"star-casino-bot/internal/payment"
	"star-casino-bot/internal/pkg/lock"
	"star-casino-bot/internal/settlement"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.Admin.ID == 0 {
		log.Warn().Msg("No admin id configured, admin commands are disabled")
	}

	log.Info().Msg("Configuration loaded successfully")

	// The ledger store owns the account map: loaded once here, persisted
	// after every mutation, flushed again on shutdown.
	store, err := ledger.Open(cfg.Storage.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open ledger store")
	}

	book, err := logbook.New(cfg.Logs.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open action log")
	}

	// Register games
	registry := game.NewRegistry()
	for _, g := range []game.Game{
		basketball.New(),
		dice.New(),
		football.New(),
		darts.New(),
		bowling.New(),
	} {
		if err := registry.Register(g); err != nil {
			log.Fatal().Err(err).Str("game", g.Name()).Msg("Failed to register game")
		}
	}

	log.Info().
		Int("game_count", registry.Count()).
		Strs("games", registry.Commands()).
		Msg("Games registered")

	locks := lock.New()

	// The draw source and the payment reverser are Telegram-backed; they
	// are bound to the bot below, after it exists.
	draws := bot.NewDiceDraw(cfg.Games.DrawWait)
	reverser := bot.NewStarReverser()

	engine := settlement.NewEngine(store, registry, draws, locks, book)
	reconciler := payment.NewReconciler(store, locks, reverser, book, payment.Limits{
		MinDeposit: cfg.Deposit.Min,
		MaxDeposit: cfg.Deposit.Max,
	})

	telegramBot, err := bot.New(&bot.Dependencies{
		Config:     cfg,
		Store:      store,
		Games:      registry,
		Engine:     engine,
		Reconciler: reconciler,
		Locks:      locks,
		Logbook:    book,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	draws.Bind(telegramBot.Telebot())
	reverser.Bind(telegramBot.Telebot())

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Msg("Bot is starting...")
		telegramBot.Start()
	}()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	telegramBot.Stop()
	if err := store.Close(); err != nil {
		log.Error().Err(err).Msg("Final snapshot flush failed")
	}
	log.Info().Msg("Bot stopped gracefully")
}
