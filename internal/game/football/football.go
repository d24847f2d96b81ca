// Package football implements the football penalty game.
package football

import (
	"fmt"

	"star-casino-bot/internal/game"
)

// Bet types, matching the possible outcome labels.
const (
	BetGoal = "goal"
	BetMiss = "miss"
)

var coefficients = map[string]game.Coefficient{
	BetGoal: {Num: 8, Den: 5}, // x1.6
	BetMiss: {Num: 7, Den: 5}, // x1.4
}

// Football implements game.Game.
type Football struct{}

// New creates the football game.
func New() *Football { return &Football{} }

func (f *Football) Name() string    { return "Football" }
func (f *Football) Command() string { return "football" }
func (f *Football) Emoji() string   { return "⚽" } // ⚽

func (f *Football) BetTypes() []string {
	return []string{BetGoal, BetMiss}
}

// Outcome maps a draw to its label: 3-6 goal, 1-2 miss.
func Outcome(draw int) string {
	if draw >= 3 {
		return BetGoal
	}
	return BetMiss
}

// Resolve maps a bet and a draw to a settlement result.
func (f *Football) Resolve(betType string, draw int) (*game.Result, error) {
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
