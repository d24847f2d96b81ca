// Package darts implements the darts game.
package darts

import (
	"fmt"

	"star-casino-bot/internal/game"
)

// Bet types, matching the possible outcome labels.
const (
	BetCenter = "center"
	BetRed    = "red"
	BetWhite  = "white"
	BetMiss   = "miss"
)

var coefficients = map[string]game.Coefficient{
	BetCenter: {Num: 4, Den: 1},  // x4.0
	BetRed:    {Num: 11, Den: 5}, // x2.2
	BetWhite:  {Num: 8, Den: 5},  // x1.6
	BetMiss:   {Num: 6, Den: 5},  // x1.2
}

// Darts implements game.Game.
type Darts struct{}

// New creates the darts game.
func New() *Darts { return &Darts{} }

func (d *Darts) Name() string    { return "Darts" }
func (d *Darts) Command() string { return "darts" }
func (d *Darts) Emoji() string   { return "\U0001F3AF" } // 🎯

func (d *Darts) BetTypes() []string {
	return []string{BetCenter, BetRed, BetWhite, BetMiss}
}

// Outcome maps a draw to its board zone: 6 center, 4-5 red, 2-3 white, 1 miss.
func Outcome(draw int) string {
	switch {
	case draw == 6:
		return BetCenter
	case draw >= 4:
		return BetRed
	case draw >= 2:
		return BetWhite
	default:
		return BetMiss
	}
}

// Resolve maps a bet and a draw to a settlement result.
func (d *Darts) Resolve(betType string, draw int) (*game.Result, error) {
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
