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

// Invoice payload kinds. The payload travels through Telegram and comes
// back on the successful payment update.
const (
	payloadDeposit = "deposit"
	payloadBet     = "bet"
)

// PaymentHandler drives Stars deposits, externally paid bets and
// withdrawal requests.
type PaymentHandler struct {
	store      *ledger.Store
	games      *game.Registry
	engine     *settlement.Engine
	reconciler *payment.Reconciler
	sessions   *Sessions
	presets    []int64
	maxDeposit int64
	adminID    int64
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(
	store *ledger.Store,
	games *game.Registry,
	engine *settlement.Engine,
	reconciler *payment.Reconciler,
	sessions *Sessions,
	presets []int64,
	maxDeposit int64,
	adminID int64,
) *PaymentHandler {
	return &PaymentHandler{
		store:      store,
		games:      games,
		engine:     engine,
		reconciler: reconciler,
		sessions:   sessions,
		presets:    presets,
		maxDeposit: maxDeposit,
		adminID:    adminID,
	}
}

// HandleDeposit shows the deposit preset keyboard.
func (h *PaymentHandler) HandleDeposit(c tele.Context) error {
	return c.Send(
		"\U0001F4B0 Top up your balance\n\nPick an amount or enter your own:",
		DepositKeyboard(h.presets),
	)
}

// HandleCustomDeposit asks for a typed deposit amount.
func (h *PaymentHandler) HandleCustomDeposit(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	h.sessions.Set(sender.ID, &Session{AwaitDeposit: true})
	return c.Send(fmt.Sprintf(
		"✏ Enter the deposit amount:\n\nMinimum: 1 ⭐\nMaximum: %d ⭐",
		h.maxDeposit,
	), CancelKeyboard())
}

// HandleCancel clears any pending session and restores the main keyboard.
func (h *PaymentHandler) HandleCancel(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	h.sessions.Clear(sender.ID)
	return c.Send("Cancelled", MainKeyboard(h.games))
}

// HandlePreset reacts to a preset deposit button press ("⭐ N").
func (h *PaymentHandler) HandlePreset(c tele.Context) error {
	raw := strings.TrimSpace(strings.TrimPrefix(c.Text(), "⭐"))
	amount, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return h.sendDepositInvoice(c, amount)
}

// HandleDepositAmount consumes a typed amount when a custom deposit was
// requested. Returns true when the text was consumed.
func (h *PaymentHandler) HandleDepositAmount(c tele.Context) (bool, error) {
	sender := c.Sender()
	if sender == nil {
		return false, nil
	}
	sess := h.sessions.Get(sender.ID)
	if sess == nil || !sess.AwaitDeposit {
		return false, nil
	}

	amount, err := strconv.ParseInt(strings.TrimSpace(c.Text()), 10, 64)
	if err != nil {
		return false, nil
	}

	if err := h.reconciler.ValidateDepositAmount(amount); err != nil {
		return true, c.Reply(fmt.Sprintf(
			"❌ Amount must be between 1 and %d ⭐", h.maxDeposit,
		))
	}

	h.sessions.Clear(sender.ID)
	return true, h.sendDepositInvoice(c, amount)
}

// HandleWithdraw starts a payout request: the user enters an amount, the
// admin receives it with an approval button.
func (h *PaymentHandler) HandleWithdraw(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	if h.adminID == 0 {
		return c.Reply("❌ Withdrawals are not available right now")
	}

	acc, _, err := h.store.GetOrCreate(sender.ID, profileOf(sender))
	if err != nil {
		return c.Reply("❌ Try again later")
	}
	if acc.Balance <= 0 {
		return c.Reply("❌ Nothing to withdraw, the balance is empty")
	}

	h.sessions.Set(sender.ID, &Session{AwaitWithdraw: true})
	return c.Send(fmt.Sprintf(
		"\U0001F4B8 Enter the amount to withdraw:\n\n\U0001F4B3 Balance: %d ⭐",
		acc.Balance,
	), CancelKeyboard())
}

// HandleWithdrawAmount consumes a typed amount when a withdrawal was
// requested: the request goes to the admin with an approve button.
// Returns true when the text was consumed.
func (h *PaymentHandler) HandleWithdrawAmount(c tele.Context) (bool, error) {
	sender := c.Sender()
	if sender == nil {
		return false, nil
	}
	sess := h.sessions.Get(sender.ID)
	if sess == nil || !sess.AwaitWithdraw {
		return false, nil
	}

	amount, err := strconv.ParseInt(strings.TrimSpace(c.Text()), 10, 64)
	if err != nil {
		return false, nil
	}
	if amount <= 0 {
		return true, c.Reply("❌ The amount must be a positive number")
	}

	acc, _, err := h.store.GetOrCreate(sender.ID, profileOf(sender))
	if err != nil {
		return true, c.Reply("❌ Try again later")
	}
	if amount > acc.Balance {
		return true, c.Reply(fmt.Sprintf("❌ Only %d ⭐ available", acc.Balance))
	}

	h.sessions.Clear(sender.ID)

	m := &tele.ReplyMarkup{}
	m.Inline(m.Row(m.Data("✅ Approve", cbWithdraw,
		strconv.FormatInt(sender.ID, 10), strconv.FormatInt(amount, 10))))

	name := acc.DisplayName()
	if name == "" {
		name = "-"
	}
	if _, err := c.Bot().Send(&tele.User{ID: h.adminID}, fmt.Sprintf(
		"\U0001F4B8 Withdrawal request\n\n"+
			"\U0001F464 ID:%d %s\n"+
			"\U0001F4B0 Requested: %d ⭐\n"+
			"\U0001F4B3 Balance: %d ⭐",
		sender.ID, name, amount, acc.Balance,
	), m); err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Withdrawal notification failed")
		return true, c.Reply("❌ Could not reach the operator, please try again later")
	}

	return true, c.Send(
		"✅ Request sent\n\nThe stars come back once the operator approves it.",
		MainKeyboard(h.games),
	)
}

func (h *PaymentHandler) sendDepositInvoice(c tele.Context, amount int64) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	if err := h.reconciler.ValidateDepositAmount(amount); err != nil {
		return c.Reply(fmt.Sprintf(
			"❌ Amount must be between 1 and %d ⭐", h.maxDeposit,
		))
	}

	if err := c.Send(fmt.Sprintf(
		"\U0001F4B3 Waiting for a %d ⭐ payment\n\nThe invoice is below ⬇",
		amount,
	), CancelKeyboard()); err != nil {
		log.Debug().Err(err).Msg("Send failed")
	}

	inv := &tele.Invoice{
		Title:       "Balance top-up",
		Description: fmt.Sprintf("Top up the balance by %d ⭐", amount),
		Payload:     fmt.Sprintf("%d:%s:%d", sender.ID, payloadDeposit, amount),
		Currency:    "XTR",
		Prices: []tele.Price{
			{Label: fmt.Sprintf("Top-up %d ⭐", amount), Amount: int(amount)},
		},
	}
	_, err := inv.Send(c.Bot(), sender, nil)
	return err
}

// SendBetInvoice issues an invoice whose successful payment plays the bet
// directly, without touching the internal balance.
func (h *PaymentHandler) SendBetInvoice(c tele.Context, gameCmd, betType string, stake int64) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	g, ok := h.games.Get(gameCmd)
	if !ok {
		return c.Reply("❌ Unknown game")
	}

	if err := c.Send(fmt.Sprintf(
		"\U0001F4B3 Not enough balance, pay the %d ⭐ stake directly\n\nThe invoice is below ⬇",
		stake,
	), CancelKeyboard()); err != nil {
		log.Debug().Err(err).Msg("Send failed")
	}

	inv := &tele.Invoice{
		Title:       fmt.Sprintf("%s bet", g.Name()),
		Description: fmt.Sprintf("%s, bet %s, stake %d ⭐", g.Name(), betType, stake),
		Payload:     fmt.Sprintf("%d:%s:%s:%s:%d", sender.ID, payloadBet, gameCmd, betType, stake),
		Currency:    "XTR",
		Prices: []tele.Price{
			{Label: fmt.Sprintf("Stake %d ⭐", stake), Amount: int(stake)},
		},
	}
	_, err := inv.Send(c.Bot(), sender, nil)
	return err
}

// HandleCheckout accepts every pre-checkout query; validation already
// happened when the invoice was issued.
func (h *PaymentHandler) HandleCheckout(c tele.Context) error {
	return c.Accept()
}

// HandlePayment reacts to a confirmed payment: either a deposit credit or
// an externally funded bet, selected by the invoice payload.
func (h *PaymentHandler) HandlePayment(c tele.Context) error {
	sender := c.Sender()
	msg := c.Message()
	if sender == nil || msg == nil || msg.Payment == nil {
		return nil
	}

	pay := msg.Payment
	chargeID := pay.TelegramChargeID
	parts := strings.Split(pay.Payload, ":")
	if len(parts) < 3 {
		log.Warn().Str("payload", pay.Payload).Msg("Unparseable invoice payload")
		return nil
	}

	h.sessions.Clear(sender.ID)

	switch parts[1] {
	case payloadDeposit:
		amount, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return nil
		}
		acc, err := h.reconciler.ConfirmDeposit(context.Background(), sender.ID, amount, chargeID, profileOf(sender))
		if err != nil {
			if errors.Is(err, payment.ErrDuplicateCharge) {
				log.Warn().Str("charge_id", chargeID).Msg("Replayed payment confirmation ignored")
				return nil
			}
			log.Error().Err(err).Msg("Deposit confirmation failed")
			return c.Send("❌ The payment arrived but could not be recorded, contact support")
		}
		return c.Send(fmt.Sprintf(
			"✅ Balance topped up!\n\n"+
				"\U0001F4B0 Credited: %d ⭐\n"+
				"\U0001F4B3 Balance: %d ⭐",
			amount, acc.Balance,
		), MainKeyboard(h.games))

	case payloadBet:
		if len(parts) != 5 {
			return nil
		}
		gameCmd, betType := parts[2], parts[3]
		stake, err := strconv.ParseInt(parts[4], 10, 64)
		if err != nil {
			return nil
		}

		if err := c.Send("✅ Payment received!\n\n\U0001F3AE Rolling..."); err != nil {
			log.Debug().Err(err).Msg("Send failed")
		}
		outcome, err := h.engine.PlacePaidBet(context.Background(), sender.ID, gameCmd, betType, stake, chargeID)
		if err != nil {
			log.Error().Err(err).Str("charge_id", chargeID).Msg("Paid bet failed after confirmed payment")
			return c.Send("❌ The round could not be played, contact support for a refund")
		}
		return c.Send(RenderOutcome(outcome), MainKeyboard(h.games))
	}

	log.Warn().Str("payload", pay.Payload).Msg("Unknown invoice payload kind")
	return nil
}
