// Package game defines the outcome resolver interface and registry.
// Each game maps a (bet type, draw) pair to a win/loss verdict, an outcome
// label and a payout coefficient. Resolvers are pure: no state, no I/O,
// fully enumerable over draws 1..6.
package game

import (
	"errors"
	"fmt"
)

// Draw bounds for the six-sided randomizer.
const (
	MinDraw = 1
	MaxDraw = 6
)

// Errors shared by all resolvers.
var (
	ErrInvalidDraw    = errors.New("draw must be between 1 and 6")
	ErrUnknownBetType = errors.New("unknown bet type")
)

// Coefficient is a rational payout multiplier. Payouts are computed with
// integer truncation toward zero; the truncation is the house edge at the
// unit level and must not be rounded.
type Coefficient struct {
	Num int64
	Den int64
}

// Payout applies the coefficient to a stake, truncating toward zero.
func (c Coefficient) Payout(stake int64) int64 {
	if c.Den == 0 {
		return 0
	}
	return stake * c.Num / c.Den
}

// IsZero reports whether the coefficient pays nothing.
func (c Coefficient) IsZero() bool {
	return c.Num == 0 || c.Den == 0
}

// String renders the coefficient the way it is shown to users, e.g. "x1.8".
func (c Coefficient) String() string {
	if c.IsZero() {
		return "x0"
	}
	return fmt.Sprintf("x%.4g", float64(c.Num)/float64(c.Den))
}

// Result is the outcome of resolving one draw against one bet.
type Result struct {
	Won         bool
	Outcome     string
	Coefficient Coefficient
}

// Game is implemented by each casino game. Adding a game only requires
// implementing this interface and registering it.
type Game interface {
	// Name returns the game's display name (e.g. "Basketball").
	Name() string

	// Command returns the command that triggers this game (e.g. "basketball").
	Command() string

	// Emoji returns the Telegram dice emoji whose animation produces the
	// 1..6 draw for this game.
	Emoji() string

	// BetTypes returns the bet types this game accepts, in display order.
	BetTypes() []string

	// Resolve maps a bet type and a draw to a settlement result. It is
	// deterministic and total over betType in BetTypes() and draw 1..6.
	Resolve(betType string, draw int) (*Result, error)
}

// CheckDraw validates that a draw is inside the 1..6 range.
func CheckDraw(draw int) error {
	if draw < MinDraw || draw > MaxDraw {
		return fmt.Errorf("%w: got %d", ErrInvalidDraw, draw)
	}
	return nil
}
