// Package bot provides the Telegram transport: bot initialization, handler
// registration and the Telegram-backed implementations of the core's draw
// and reversal primitives.
package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"star-casino-bot/internal/config"
	"star-casino-bot/internal/game"
	"star-casino-bot/internal/handler"
	"star-casino-bot/internal/ledger"
	"star-casino-bot/internal/logbook"
	"star-casino-bot/internal/payment"
	"star-casino-bot/internal/pkg/lock"
	"star-casino-bot/internal/settlement"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot   *tele.Bot
	cfg   *config.Config
	games *game.Registry

	accountHandler *handler.AccountHandler
	gameHandler    *handler.GameHandler
	paymentHandler *handler.PaymentHandler
	adminHandler   *handler.AdminHandler
}

// Dependencies holds everything the bot handlers need.
type Dependencies struct {
	Config     *config.Config
	Store      *ledger.Store
	Games      *game.Registry
	Engine     *settlement.Engine
	Reconciler *payment.Reconciler
	Locks      *lock.AccountLock
	Logbook    *logbook.Logbook
}

// New creates a Bot with the given dependencies. The transport is either a
// webhook or a long poller, selected by configuration.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: buildPoller(&deps.Config.Bot),
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		bot:   teleBot,
		cfg:   deps.Config,
		games: deps.Games,
	}

	sessions := handler.NewSessions()
	b.accountHandler = handler.NewAccountHandler(deps.Store, deps.Games, deps.Logbook)
	b.gameHandler = handler.NewGameHandler(deps.Store, deps.Games, deps.Engine, sessions)
	b.paymentHandler = handler.NewPaymentHandler(
		deps.Store, deps.Games, deps.Engine, deps.Reconciler, sessions,
		deps.Config.Deposit.Presets, deps.Config.Deposit.Max,
		deps.Config.Admin.ID,
	)
	b.adminHandler = handler.NewAdminHandler(deps.Store, deps.Reconciler, deps.Locks, deps.Logbook)

	b.registerMiddleware()
	b.registerHandlers()

	return b, nil
}

// buildPoller selects webhook or long polling.
func buildPoller(cfg *config.BotConfig) tele.Poller {
	if cfg.WebhookURL != "" {
		return &tele.Webhook{
			Listen:   cfg.ListenAddr,
			Endpoint: &tele.WebhookEndpoint{PublicURL: cfg.WebhookURL},
		}
	}
	period := cfg.PollPeriod
	if period <= 0 {
		period = 10 * time.Second
	}
	return &tele.LongPoller{Timeout: period}
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(RecoveryMiddleware())
	b.bot.Use(LoggingMiddleware())
}

// registerHandlers registers all command, text and callback handlers.
func (b *Bot) registerHandlers() {
	b.bot.Handle("/start", b.accountHandler.HandleStart)
	b.bot.Handle("/profile", b.accountHandler.HandleProfile)
	b.bot.Handle("/rules", b.accountHandler.HandleRules)
	b.bot.Handle("/deposit", b.paymentHandler.HandleDeposit)
	b.bot.Handle("/withdraw", b.paymentHandler.HandleWithdraw)

	// Admin commands behind the admin guard.
	adminGroup := b.bot.Group()
	adminGroup.Use(AdminMiddleware(b.cfg))
	adminGroup.Handle("/stats", b.adminHandler.HandleStats)
	adminGroup.Handle("/users", b.adminHandler.HandleUsers)
	adminGroup.Handle("/grant", b.adminHandler.HandleGrant)
	adminGroup.Handle("/refund", b.adminHandler.HandleRefund)
	adminGroup.Handle("/send", b.adminHandler.HandleSend)
	adminGroup.Handle("/logs", b.adminHandler.HandleLogs)

	// Payment lifecycle.
	b.bot.Handle(tele.OnCheckout, b.paymentHandler.HandleCheckout)
	b.bot.Handle(tele.OnPayment, b.paymentHandler.HandlePayment)

	// Everything else arrives as plain text or callbacks.
	b.bot.Handle(tele.OnText, b.handleText)
	b.bot.Handle(tele.OnCallback, b.handleCallback)
}

// handleText routes reply-keyboard presses and typed amounts.
func (b *Bot) handleText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())

	switch text {
	case handler.BtnProfile:
		return b.accountHandler.HandleProfile(c)
	case handler.BtnDeposit:
		return b.paymentHandler.HandleDeposit(c)
	case handler.BtnRules:
		return b.accountHandler.HandleRules(c)
	case handler.BtnCancel:
		return b.paymentHandler.HandleCancel(c)
	case handler.BtnCustom:
		return b.paymentHandler.HandleCustomDeposit(c)
	}

	if _, ok := b.games.GetByEmoji(text); ok {
		return b.gameHandler.HandleGameSelected(c)
	}

	if strings.HasPrefix(text, "⭐") {
		return b.paymentHandler.HandlePreset(c)
	}

	if consumed, err := b.paymentHandler.HandleDepositAmount(c); consumed {
		return err
	}
	if consumed, err := b.paymentHandler.HandleWithdrawAmount(c); consumed {
		return err
	}
	if consumed, err := b.gameHandler.HandleStake(c, b.paymentHandler.SendBetInvoice); consumed {
		return err
	}
	return nil
}

// handleCallback routes inline button presses. Telebot prefixes callback
// data with \f<unique>|.
func (b *Bot) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}

	data := strings.TrimPrefix(callback.Data, "\f")
	unique, rest, _ := strings.Cut(data, "|")
	switch unique {
	case "bet":
		return b.gameHandler.HandleBetCallback(c, rest)
	case "withdraw":
		// The approve button lands in the admin's chat, but the guard
		// cannot live in the command middleware for callbacks.
		if sender := c.Sender(); sender == nil || !b.cfg.IsAdmin(sender.ID) {
			return c.Respond(&tele.CallbackResponse{Text: "No access"})
		}
		return b.adminHandler.HandleWithdrawApprove(c, rest)
	}

	log.Debug().Str("data", data).Msg("Unrouted callback")
	return c.Respond()
}

// Start starts the transport. Blocks until Stop.
func (b *Bot) Start() {
	log.Info().Msg("Starting bot...")
	b.bot.Start()
}

// Stop stops the transport gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}

// Telebot returns the underlying telebot instance, used to build the
// draw source and the payment reverser.
func (b *Bot) Telebot() *tele.Bot {
	return b.bot
}
