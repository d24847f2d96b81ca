package dice

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"star-casino-bot/internal/game"
)

// TestAxes enumerates both axes for the full draw range.
func TestAxes(t *testing.T) {
	tests := []struct {
		draw      int
		parity    string
		magnitude string
	}{
		{1, BetOdd, BetLt4},
		{2, BetEven, BetLt4},
		{3, BetOdd, BetLt4},
		{4, BetEven, BetGt3},
		{5, BetOdd, BetGt3},
		{6, BetEven, BetGt3},
	}

	for _, tt := range tests {
		parity, magnitude := Axes(tt.draw)
		assert.Equal(t, tt.parity, parity, "draw %d parity", tt.draw)
		assert.Equal(t, tt.magnitude, magnitude, "draw %d magnitude", tt.draw)
	}
}

// TestResolve covers both-axis matching: a draw of 4 satisfies even and gt3
// at once, and either bet wins at the same coefficient.
func TestResolve(t *testing.T) {
	d := New()

	tests := []struct {
		name    string
		betType string
		draw    int
		won     bool
	}{
		{"even wins on 4", BetEven, 4, true},
		{"gt3 wins on 4", BetGt3, 4, true},
		{"odd loses on 4", BetOdd, 4, false},
		{"lt4 loses on 4", BetLt4, 4, false},
		{"odd wins on 3", BetOdd, 3, true},
		{"lt4 wins on 3", BetLt4, 3, true},
		{"even loses on 3", BetEven, 3, false},
		{"gt3 loses on 3", BetGt3, 3, false},
		{"lt4 wins on 1", BetLt4, 1, true},
		{"gt3 wins on 6", BetGt3, 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := d.Resolve(tt.betType, tt.draw)
			require.NoError(t, err)
			assert.Equal(t, tt.won, res.Won)
			if tt.won {
				assert.Equal(t, game.Coefficient{Num: 17, Den: 10}, res.Coefficient)
			} else {
				assert.True(t, res.Coefficient.IsZero())
			}
		})
	}
}

// TestResolvePayout checks the flat x1.7 coefficient: stake 10 pays 17,
// stake 7 truncates to 11.
func TestResolvePayout(t *testing.T) {
	d := New()
	res, err := d.Resolve(BetEven, 4)
	require.NoError(t, err)
	require.True(t, res.Won)
	assert.Equal(t, int64(17), res.Coefficient.Payout(10))
	assert.Equal(t, int64(11), res.Coefficient.Payout(7))
}

// TestResolveOutcomeLabel checks the composite label carrying the draw and
// both axis results.
func TestResolveOutcomeLabel(t *testing.T) {
	d := New()
	res, err := d.Resolve(BetOdd, 4)
	require.NoError(t, err)
	assert.Equal(t, "4 (even, gt3)", res.Outcome)

	res, err = d.Resolve(BetOdd, 1)
	require.NoError(t, err)
	assert.Equal(t, "1 (odd, lt4)", res.Outcome)
}

func TestResolveErrors(t *testing.T) {
	d := New()

	_, err := d.Resolve(BetEven, 0)
	assert.ErrorIs(t, err, game.ErrInvalidDraw)

	_, err = d.Resolve("seven", 3)
	assert.ErrorIs(t, err, game.ErrUnknownBetType)
}

// TestExactlyTwoWinnersProperty verifies that any draw satisfies exactly one
// parity bet and one magnitude bet, so exactly two of the four bets win.
func TestExactlyTwoWinnersProperty(t *testing.T) {
	d := New()
	rapid.Check(t, func(t *rapid.T) {
		draw := rapid.IntRange(game.MinDraw, game.MaxDraw).Draw(t, "draw")

		winners := make(map[string]bool)
		for _, bt := range d.BetTypes() {
			res, err := d.Resolve(bt, draw)
			if err != nil {
				t.Fatalf("resolve %s on %d: %v", bt, draw, err)
			}
			if res.Won {
				winners[bt] = true
			}
		}

		if len(winners) != 2 {
			t.Fatalf("draw %d has winners %v, want exactly 2", draw, winners)
		}
		if winners[BetEven] == winners[BetOdd] {
			t.Fatalf("draw %d: exactly one parity bet must win, got %v", draw, winners)
		}
		if winners[BetGt3] == winners[BetLt4] {
			t.Fatalf("draw %d: exactly one magnitude bet must win, got %v", draw, winners)
		}

		parity, magnitude := Axes(draw)
		wantLabel := fmt.Sprintf("%d (%s, %s)", draw, parity, magnitude)
		res, err := d.Resolve(BetEven, draw)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if res.Outcome != wantLabel {
			t.Fatalf("outcome label %q, want %q", res.Outcome, wantLabel)
		}
	})
}

func TestGameMetadata(t *testing.T) {
	d := New()
	assert.Equal(t, "Dice", d.Name())
	assert.Equal(t, "dice", d.Command())
	assert.Equal(t, "🎲", d.Emoji())
	assert.Equal(t, []string{BetEven, BetOdd, BetGt3, BetLt4}, d.BetTypes())
}
