package basketball

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"star-casino-bot/internal/game"
)

// TestOutcome enumerates the full draw range: 4-6 goal, 3 stuck, 1-2 miss.
func TestOutcome(t *testing.T) {
	tests := []struct {
		draw     int
		expected string
	}{
		{1, BetMiss},
		{2, BetMiss},
		{3, BetStuck},
		{4, BetGoal},
		{5, BetGoal},
		{6, BetGoal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Outcome(tt.draw), "draw %d", tt.draw)
	}
}

// TestResolve tests win/loss verdicts and coefficients for every bet type.
func TestResolve(t *testing.T) {
	b := New()

	tests := []struct {
		name    string
		betType string
		draw    int
		won     bool
		coeff   game.Coefficient
	}{
		{"goal bet wins on 5", BetGoal, 5, true, game.Coefficient{Num: 9, Den: 5}},
		{"goal bet wins on 4", BetGoal, 4, true, game.Coefficient{Num: 9, Den: 5}},
		{"goal bet loses on 3", BetGoal, 3, false, game.Coefficient{}},
		{"stuck bet wins on 3", BetStuck, 3, true, game.Coefficient{Num: 11, Den: 5}},
		{"stuck bet loses on 4", BetStuck, 4, false, game.Coefficient{}},
		{"miss bet wins on 1", BetMiss, 1, true, game.Coefficient{Num: 13, Den: 10}},
		{"miss bet wins on 2", BetMiss, 2, true, game.Coefficient{Num: 13, Den: 10}},
		{"miss bet loses on 6", BetMiss, 6, false, game.Coefficient{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := b.Resolve(tt.betType, tt.draw)
			require.NoError(t, err)
			assert.Equal(t, tt.won, res.Won)
			assert.Equal(t, tt.coeff, res.Coefficient)
			assert.Equal(t, Outcome(tt.draw), res.Outcome)
		})
	}
}

// TestResolvePayouts checks the headline payout: stake 10 on goal pays 18.
func TestResolvePayouts(t *testing.T) {
	b := New()

	res, err := b.Resolve(BetGoal, 5)
	require.NoError(t, err)
	require.True(t, res.Won)
	assert.Equal(t, int64(18), res.Coefficient.Payout(10))

	res, err = b.Resolve(BetStuck, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(22), res.Coefficient.Payout(10))

	res, err = b.Resolve(BetMiss, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(13), res.Coefficient.Payout(10))
}

func TestResolveErrors(t *testing.T) {
	b := New()

	_, err := b.Resolve(BetGoal, 0)
	assert.ErrorIs(t, err, game.ErrInvalidDraw)

	_, err = b.Resolve(BetGoal, 7)
	assert.ErrorIs(t, err, game.ErrInvalidDraw)

	_, err = b.Resolve("dunk", 3)
	assert.ErrorIs(t, err, game.ErrUnknownBetType)
}

// TestResolveExactlyOneWinnerProperty verifies that for any draw exactly one
// bet type wins and resolution is deterministic.
func TestResolveExactlyOneWinnerProperty(t *testing.T) {
	b := New()
	rapid.Check(t, func(t *rapid.T) {
		draw := rapid.IntRange(game.MinDraw, game.MaxDraw).Draw(t, "draw")

		winners := 0
		for _, bt := range b.BetTypes() {
			res, err := b.Resolve(bt, draw)
			if err != nil {
				t.Fatalf("resolve %s on %d: %v", bt, draw, err)
			}
			again, err := b.Resolve(bt, draw)
			if err != nil {
				t.Fatalf("second resolve %s on %d: %v", bt, draw, err)
			}
			if *res != *again {
				t.Fatalf("resolution not deterministic for %s on %d", bt, draw)
			}
			if res.Won {
				winners++
				if res.Coefficient.IsZero() {
					t.Fatalf("winning bet %s on %d has zero coefficient", bt, draw)
				}
			} else if !res.Coefficient.IsZero() {
				t.Fatalf("losing bet %s on %d carries a coefficient", bt, draw)
			}
		}
		if winners != 1 {
			t.Fatalf("draw %d has %d winning bets, want 1", draw, winners)
		}
	})
}

func TestGameMetadata(t *testing.T) {
	b := New()
	assert.Equal(t, "Basketball", b.Name())
	assert.Equal(t, "basketball", b.Command())
	assert.Equal(t, "🏀", b.Emoji())
	assert.Equal(t, []string{BetGoal, BetStuck, BetMiss}, b.BetTypes())
}
