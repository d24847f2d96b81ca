// Package basketball implements the basketball throw game.
package basketball

import (
	"fmt"

	"star-casino-bot/internal/game"
)

// Bet types, matching the possible outcome labels.
const (
	BetGoal  = "goal"
	BetStuck = "stuck"
	BetMiss  = "miss"
)

var coefficients = map[string]game.Coefficient{
	BetGoal:  {Num: 9, Den: 5},   // x1.8
	BetStuck: {Num: 11, Den: 5},  // x2.2
	BetMiss:  {Num: 13, Den: 10}, // x1.3
}

// Basketball implements game.Game.
type Basketball struct{}

// New creates the basketball game.
func New() *Basketball { return &Basketball{} }

func (b *Basketball) Name() string    { return "Basketball" }
func (b *Basketball) Command() string { return "basketball" }
func (b *Basketball) Emoji() string   { return "\U0001F3C0" } // 🏀

func (b *Basketball) BetTypes() []string {
	return []string{BetGoal, BetStuck, BetMiss}
}

// Outcome maps a draw to its label: 4-6 goal, 3 stuck on the rim, 1-2 miss.
func Outcome(draw int) string {
	switch {
	case draw >= 4:
		return BetGoal
	case draw == 3:
		return BetStuck
	default:
		return BetMiss
	}
}

// Resolve maps a bet and a draw to a settlement result.
func (b *Basketball) Resolve(betType string, draw int) (*game.Result, error) {
	if err := game.CheckDraw(draw); err != nil {
		return nil, err
	}
	coeff, ok := coefficients[betType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", game.ErrUnknownBetType, betType)
	}

	outcome := Outcome(draw)
	res := &game.Result{Outcome: outcome}
	if betType == outcome {
		res.Won = true
		res.Coefficient = coeff
	}
	return res, nil
}
