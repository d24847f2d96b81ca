package bot

import (
	"context"
	"fmt"
	"sync"

	tele "gopkg.in/telebot.v3"
)

// StarReverser implements payment.Reverser with Telegram's
// refundStarPayment method. Telebot has no typed wrapper for it, so the
// call goes through Bot.Raw.
type StarReverser struct {
	mu  sync.RWMutex
	bot *tele.Bot
}

// NewStarReverser creates a StarReverser. Bind must be called before the
// first Refund.
func NewStarReverser() *StarReverser {
	return &StarReverser{}
}

// Bind attaches the telebot instance.
func (r *StarReverser) Bind(b *tele.Bot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bot = b
}

// Refund reverses a Stars charge. Any error means the reversal did not
// happen and the caller must leave the ledger untouched.
func (r *StarReverser) Refund(ctx context.Context, userID int64, chargeID string) error {
	r.mu.RLock()
	b := r.bot
	r.mu.RUnlock()
	if b == nil {
		return fmt.Errorf("star reverser not bound to a bot")
	}

	params := map[string]string{
		"user_id":                    fmt.Sprintf("%d", userID),
		"telegram_payment_charge_id": chargeID,
	}
	if _, err := b.Raw("refundStarPayment", params); err != nil {
		return fmt.Errorf("refundStarPayment: %w", err)
	}
	return nil
}
