// Package bowling implements the bowling game.
package bowling

import (
	"fmt"

	"star-casino-bot/internal/game"
)

// Bet types, matching the possible outcome labels.
const (
	BetStrike = "strike"
	BetMiss   = "miss"
)

var coefficients = map[string]game.Coefficient{
	BetStrike: {Num: 14, Den: 5},  // x2.8
	BetMiss:   {Num: 13, Den: 10}, // x1.3
}

// Bowling implements game.Game.
type Bowling struct{}

// New creates the bowling game.
func New() *Bowling { return &Bowling{} }

func (b *Bowling) Name() string    { return "Bowling" }
func (b *Bowling) Command() string { return "bowling" }
func (b *Bowling) Emoji() string   { return "\U0001F3B3" } // 🎳

func (b *Bowling) BetTypes() []string {
	return []string{BetStrike, BetMiss}
}

// Outcome maps a draw to its label: only 6 is a strike.
func Outcome(draw int) string {
	if draw == 6 {
		return BetStrike
	}
	return BetMiss
}

// Resolve maps a bet and a draw to a settlement result.
func (b *Bowling) Resolve(betType string, draw int) (*game.Result, error) {
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
