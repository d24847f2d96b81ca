// Package dice implements the dice game. Unlike the single-axis games it
// evaluates two independent axes of the same draw: parity (even/odd) and
// magnitude (gt3/lt4). A bet wins when it matches either satisfied axis.
package dice

import (
	"fmt"

	"star-casino-bot/internal/game"
)

// Bet types. Each names one axis value.
const (
	BetEven = "even"
	BetOdd  = "odd"
	BetGt3  = "gt3"
	BetLt4  = "lt4"
)

// Every dice bet pays the same coefficient.
var coefficient = game.Coefficient{Num: 17, Den: 10} // x1.7

// Dice implements game.Game.
type Dice struct{}

// New creates the dice game.
func New() *Dice { return &Dice{} }

func (d *Dice) Name() string    { return "Dice" }
func (d *Dice) Command() string { return "dice" }
func (d *Dice) Emoji() string   { return "\U0001F3B2" } // 🎲

// BetTypes returns the four axis bets.
func (d *Dice) BetTypes() []string {
	return []string{BetEven, BetOdd, BetGt3, BetLt4}
}

// Axes returns the satisfied axis labels for a draw: one parity label and
// one magnitude label.
func Axes(draw int) (parity, magnitude string) {
	if draw%2 == 0 {
		parity = BetEven
	} else {
		parity = BetOdd
	}
	if draw > 3 {
		magnitude = BetGt3
	} else {
		magnitude = BetLt4
	}
	return parity, magnitude
}

// Resolve checks the bet against both axes of the draw. The outcome label
// is a composite of the draw value and both axis results.
func (d *Dice) Resolve(betType string, draw int) (*game.Result, error) {
	if err := game.CheckDraw(draw); err != nil {
		return nil, err
	}
	switch betType {
	case BetEven, BetOdd, BetGt3, BetLt4:
	default:
		return nil, fmt.Errorf("%w: %q", game.ErrUnknownBetType, betType)
	}

	parity, magnitude := Axes(draw)
	res := &game.Result{
		Outcome: fmt.Sprintf("%d (%s, %s)", draw, parity, magnitude),
	}
	if betType == parity || betType == magnitude {
		res.Won = true
		res.Coefficient = coefficient
	}
	return res, nil
}
