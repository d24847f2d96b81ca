package football

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"star-casino-bot/internal/game"
)

// TestOutcome enumerates the full draw range: 3-6 goal, 1-2 miss.
func TestOutcome(t *testing.T) {
	tests := []struct {
		draw     int
		expected string
	}{
		{1, BetMiss},
		{2, BetMiss},
		{3, BetGoal},
		{4, BetGoal},
		{5, BetGoal},
		{6, BetGoal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Outcome(tt.draw), "draw %d", tt.draw)
	}
}

func TestResolve(t *testing.T) {
	f := New()

	tests := []struct {
		name    string
		betType string
		draw    int
		won     bool
		payout  int64 // for stake 10 when won
	}{
		{"goal bet wins on 3", BetGoal, 3, true, 16},
		{"goal bet wins on 6", BetGoal, 6, true, 16},
		{"goal bet loses on 2", BetGoal, 2, false, 0},
		{"miss bet wins on 1", BetMiss, 1, true, 14},
		{"miss bet wins on 2", BetMiss, 2, true, 14},
		{"miss bet loses on 3", BetMiss, 3, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.Resolve(tt.betType, tt.draw)
			require.NoError(t, err)
			assert.Equal(t, tt.won, res.Won)
			assert.Equal(t, tt.payout, res.Coefficient.Payout(10))
		})
	}
}

func TestResolveErrors(t *testing.T) {
	f := New()

	_, err := f.Resolve(BetGoal, 0)
	assert.ErrorIs(t, err, game.ErrInvalidDraw)

	_, err = f.Resolve("header", 3)
	assert.ErrorIs(t, err, game.ErrUnknownBetType)
}

func TestGameMetadata(t *testing.T) {
	f := New()
	assert.Equal(t, "Football", f.Name())
	assert.Equal(t, "football", f.Command())
	assert.Equal(t, "⚽", f.Emoji())
	assert.Equal(t, []string{BetGoal, BetMiss}, f.BetTypes())
}
