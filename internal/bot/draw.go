package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	tele "gopkg.in/telebot.v3"

	"star-casino-bot/internal/game"
)

// DiceDraw implements settlement.DrawSource by sending the game's animated
// dice emoji and reading its value after the animation has played out. The
// wait is a real suspension point: cancelling the context aborts the bet
// and the engine rolls the debit back.
type DiceDraw struct {
	mu   sync.RWMutex
	bot  *tele.Bot
	wait time.Duration
}

// NewDiceDraw creates a DiceDraw with the given animation wait. Bind must
// be called before the first Draw.
func NewDiceDraw(wait time.Duration) *DiceDraw {
	return &DiceDraw{wait: wait}
}

// Bind attaches the telebot instance. Split from the constructor because
// the bot itself is built after the engine that owns this source.
func (d *DiceDraw) Bind(b *tele.Bot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bot = b
}

// Draw sends the animated dice to the user's chat and returns its value.
func (d *DiceDraw) Draw(ctx context.Context, userID int64, g game.Game) (int, error) {
	d.mu.RLock()
	b := d.bot
	d.mu.RUnlock()
	if b == nil {
		return 0, fmt.Errorf("dice draw not bound to a bot")
	}

	msg, err := b.Send(&tele.User{ID: userID}, &tele.Dice{Type: tele.DiceType(g.Emoji())})
	if err != nil {
		return 0, fmt.Errorf("send dice: %w", err)
	}
	if msg.Dice == nil {
		return 0, fmt.Errorf("no dice value in response")
	}

	// The value is fixed as soon as Telegram answers, but showing the
	// result before the animation finishes spoils it.
	timer := time.NewTimer(d.wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-timer.C:
	}

	return msg.Dice.Value, nil
}
