package darts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"star-casino-bot/internal/game"
)

// TestOutcome enumerates the board zones: 6 center, 4-5 red, 2-3 white, 1 miss.
func TestOutcome(t *testing.T) {
	tests := []struct {
		draw     int
		expected string
	}{
		{1, BetMiss},
		{2, BetWhite},
		{3, BetWhite},
		{4, BetRed},
		{5, BetRed},
		{6, BetCenter},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Outcome(tt.draw), "draw %d", tt.draw)
	}
}

func TestResolve(t *testing.T) {
	d := New()

	tests := []struct {
		name    string
		betType string
		draw    int
		won     bool
		payout  int64 // for stake 10 when won
	}{
		{"center wins on 6", BetCenter, 6, true, 40},
		{"center loses on 5", BetCenter, 5, false, 0},
		{"red wins on 4", BetRed, 4, true, 22},
		{"red wins on 5", BetRed, 5, true, 22},
		{"red loses on 6", BetRed, 6, false, 0},
		{"white wins on 2", BetWhite, 2, true, 16},
		{"white wins on 3", BetWhite, 3, true, 16},
		{"white loses on 1", BetWhite, 1, false, 0},
		{"miss wins on 1", BetMiss, 1, true, 12},
		{"miss loses on 2", BetMiss, 2, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := d.Resolve(tt.betType, tt.draw)
			require.NoError(t, err)
			assert.Equal(t, tt.won, res.Won)
			assert.Equal(t, tt.payout, res.Coefficient.Payout(10))
			assert.Equal(t, Outcome(tt.draw), res.Outcome)
		})
	}
}

func TestResolveErrors(t *testing.T) {
	d := New()

	_, err := d.Resolve(BetCenter, 7)
	assert.ErrorIs(t, err, game.ErrInvalidDraw)

	_, err = d.Resolve("bullseye", 6)
	assert.ErrorIs(t, err, game.ErrUnknownBetType)
}

func TestGameMetadata(t *testing.T) {
	d := New()
	assert.Equal(t, "Darts", d.Name())
	assert.Equal(t, "darts", d.Command())
	assert.Equal(t, "🎯", d.Emoji())
	assert.Equal(t, []string{BetCenter, BetRed, BetWhite, BetMiss}, d.BetTypes())
}
