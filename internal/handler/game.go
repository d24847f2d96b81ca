package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"star-casino-bot/internal/game"
	"star-casino-bot/internal/ledger"
	"star-casino-bot/internal/payment"
	"star-casino-bot/internal/settlement"
)

// GameHandler drives the bet flow: game -> bet type -> stake -> settlement.
type GameHandler struct {
	store    *ledger.Store
	games    *game.Registry
	engine   *settlement.Engine
	sessions *Sessions
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(store *ledger.Store, games *game.Registry, engine *settlement.Engine, sessions *Sessions) *GameHandler {
	return &GameHandler{
		store:    store,
		games:    games,
		engine:   engine,
		sessions: sessions,
	}
}

// HandleGameSelected reacts to a game emoji press with the bet type keyboard.
func (h *GameHandler) HandleGameSelected(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	g, ok := h.games.GetByEmoji(c.Text())
	if !ok {
		return nil
	}

	h.sessions.Set(sender.ID, &Session{Game: g.Command()})
	return c.Send(
		fmt.Sprintf("%s %s\n\nPick a bet type:", g.Emoji(), g.Name()),
		BetTypeKeyboard(g),
	)
}

// HandleBetCallback reacts to a bet type button. Callback data is
// "<game>|<betType>".
func (h *GameHandler) HandleBetCallback(c tele.Context, data string) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	parts := strings.Split(data, "|")
	if len(parts) != 2 {
		return c.Respond(&tele.CallbackResponse{Text: "Bad bet selection"})
	}
	gameCmd, betType := parts[0], parts[1]

	g, ok := h.games.Get(gameCmd)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown game"})
	}

	acc, _, err := h.store.GetOrCreate(sender.ID, profileOf(sender))
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Try again later"})
	}

	h.sessions.Set(sender.ID, &Session{Game: gameCmd, BetType: betType})
	if err := c.Respond(); err != nil {
		log.Debug().Err(err).Msg("Callback respond failed")
	}
	return c.Send(fmt.Sprintf(
		"%s Bet: %s\n\n"+
			"\U0001F4B3 Balance: %d ⭐\n\n"+
			"Enter your stake:",
		g.Emoji(), betType, acc.Balance,
	), CancelKeyboard())
}

// HandleStake reacts to a typed stake amount once a game and bet type are
// chosen. Balance-funded when the balance covers the stake, otherwise the
// caller is routed to the invoice path.
//
// Returns true when the text was consumed as a stake.
func (h *GameHandler) HandleStake(c tele.Context, sendInvoice func(c tele.Context, gameCmd, betType string, stake int64) error) (bool, error) {
	sender := c.Sender()
	if sender == nil {
		return false, nil
	}

	sess := h.sessions.Get(sender.ID)
	if sess == nil || sess.Game == "" || sess.BetType == "" {
		return false, nil
	}

	stake, err := strconv.ParseInt(strings.TrimSpace(c.Text()), 10, 64)
	if err != nil {
		return false, nil
	}
	if stake <= 0 {
		return true, c.Reply("❌ The stake must be a positive number")
	}

	acc, _, err := h.store.GetOrCreate(sender.ID, profileOf(sender))
	if err != nil {
		return true, c.Reply("❌ Try again later")
	}

	if acc.Balance < stake {
		// Not enough internal funds: pay the stake directly with Stars.
		return true, sendInvoice(c, sess.Game, sess.BetType, stake)
	}

	h.sessions.Clear(sender.ID)
	if err := c.Send(fmt.Sprintf("\U0001F4B3 Debiting %d ⭐ from your balance...", stake)); err != nil {
		log.Debug().Err(err).Msg("Send failed")
	}

	outcome, err := h.engine.PlaceBet(context.Background(), sender.ID, sess.Game, sess.BetType, stake)
	if err != nil {
		return true, c.Send(h.betErrorText(err), MainKeyboard(h.games))
	}
	return true, c.Send(RenderOutcome(outcome), MainKeyboard(h.games))
}

// betErrorText maps settlement errors to user-visible reasons.
func (h *GameHandler) betErrorText(err error) string {
	switch {
	case errors.Is(err, settlement.ErrInsufficientFunds):
		return "❌ Not enough balance for this stake"
	case errors.Is(err, settlement.ErrInvalidStake):
		return "❌ The stake must be a positive number"
	case errors.Is(err, ledger.ErrPersistence):
		return "❌ Could not record the round, your stake was returned"
	default:
		log.Error().Err(err).Msg("Bet failed")
		return "❌ The round could not be played, please try again"
	}
}

// RenderOutcome formats a settled round for the chat.
func RenderOutcome(o *settlement.Outcome) string {
	r := o.Round
	if r.Won {
		return fmt.Sprintf(
			"\U0001F389 YOU WIN!\n\n"+
				"Result: %s\n"+
				"\U0001F3AF Bet: %s\n\n"+
				"\U0001F4B0 Winnings: %d ⭐ (%s)\n"+
				"\U0001F4B3 Balance: %d ⭐",
			r.Outcome, r.BetType, r.Payout, o.Coefficient, o.Balance,
		)
	}
	return fmt.Sprintf(
		"\U0001F614 No luck this time\n\n"+
			"Result: %s\n"+
			"\U0001F3AF Bet: %s\n\n"+
			"\U0001F4B8 Lost: %d ⭐\n"+
			"\U0001F4B3 Balance: %d ⭐",
		r.Outcome, r.BetType, r.Stake, o.Balance,
	)
}

// refundErrorText maps reconciliation errors to user-visible reasons.
// Shared by the admin handlers.
func refundErrorText(err error) string {
	switch {
	case errors.Is(err, payment.ErrRefundNotFound):
		return "❌ No matching payment or round"
	case errors.Is(err, payment.ErrAlreadyRefunded):
		return "❌ Already refunded"
	case errors.Is(err, payment.ErrInsufficientPaymentAmount):
		return "❌ No confirmed payment covers that amount"
	case errors.Is(err, payment.ErrInsufficientBalance):
		return "❌ The balance does not cover that amount"
	case errors.Is(err, payment.ErrExternalReversalFailed):
		return "❌ Telegram rejected the reversal, nothing was changed"
	default:
		return "❌ Refund failed: " + err.Error()
	}
}
