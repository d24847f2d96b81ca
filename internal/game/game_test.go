package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestCoefficientPayout tests payout calculation with integer truncation.
func TestCoefficientPayout(t *testing.T) {
	tests := []struct {
		name     string
		coeff    Coefficient
		stake    int64
		expected int64
	}{
		{"x1.8 even stake", Coefficient{9, 5}, 10, 18},
		{"x1.8 truncates down", Coefficient{9, 5}, 7, 12},   // 12.6
		{"x2.2 even stake", Coefficient{11, 5}, 10, 22},
		{"x1.3 truncates down", Coefficient{13, 10}, 7, 9},  // 9.1
		{"x1.7 truncates down", Coefficient{17, 10}, 7, 11}, // 11.9
		{"x4.0 exact", Coefficient{4, 1}, 25, 100},
		{"x1.2 minimal stake", Coefficient{6, 5}, 1, 1},
		{"zero stake", Coefficient{9, 5}, 0, 0},
		{"zero coefficient", Coefficient{}, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.coeff.Payout(tt.stake))
		})
	}
}

// TestCoefficientString tests the user-facing rendering.
func TestCoefficientString(t *testing.T) {
	assert.Equal(t, "x1.8", Coefficient{9, 5}.String())
	assert.Equal(t, "x2.2", Coefficient{11, 5}.String())
	assert.Equal(t, "x1.3", Coefficient{13, 10}.String())
	assert.Equal(t, "x4", Coefficient{4, 1}.String())
	assert.Equal(t, "x0", Coefficient{}.String())
}

// TestCoefficientPayoutNeverRoundsUpProperty verifies the truncation never
// pays more than the exact rational product.
func TestCoefficientPayoutNeverRoundsUpProperty(t *testing.T) {
	coeffs := []Coefficient{
		{9, 5}, {11, 5}, {13, 10}, {17, 10}, {8, 5}, {7, 5},
		{4, 1}, {6, 5}, {14, 5},
	}
	rapid.Check(t, func(t *rapid.T) {
		c := coeffs[rapid.IntRange(0, len(coeffs)-1).Draw(t, "coeff")]
		stake := rapid.Int64Range(1, 1_000_000).Draw(t, "stake")

		payout := c.Payout(stake)
		exact := float64(stake) * float64(c.Num) / float64(c.Den)
		if float64(payout) > exact {
			t.Fatalf("payout %d exceeds exact product %f for %s on stake %d",
				payout, exact, c, stake)
		}
		// Truncation drops less than one unit.
		if exact-float64(payout) >= 1 {
			t.Fatalf("payout %d more than one unit below exact product %f", payout, exact)
		}
	})
}

func TestCheckDraw(t *testing.T) {
	for draw := MinDraw; draw <= MaxDraw; draw++ {
		assert.NoError(t, CheckDraw(draw))
	}
	assert.ErrorIs(t, CheckDraw(0), ErrInvalidDraw)
	assert.ErrorIs(t, CheckDraw(7), ErrInvalidDraw)
	assert.ErrorIs(t, CheckDraw(-1), ErrInvalidDraw)
}

type stubGame struct {
	command string
	emoji   string
}

func (s stubGame) Name() string        { return s.command }
func (s stubGame) Command() string     { return s.command }
func (s stubGame) Emoji() string       { return s.emoji }
func (s stubGame) BetTypes() []string  { return []string{"win"} }
func (s stubGame) Resolve(betType string, draw int) (*Result, error) {
	return &Result{Outcome: "win"}, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(stubGame{"alpha", "🏀"}))
	require.NoError(t, r.Register(stubGame{"beta", "🎲"}))
	assert.Equal(t, 2, r.Count())

	g, ok := r.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", g.Command())

	_, ok = r.Get("missing")
	assert.False(t, ok)

	g, ok = r.GetByEmoji("🎲")
	require.True(t, ok)
	assert.Equal(t, "beta", g.Command())

	// Registration order is preserved.
	assert.Equal(t, []string{"alpha", "beta"}, r.Commands())

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Command())
}

func TestRegistryRejectsInvalid(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(stubGame{command: ""}))
}

// TestRegistryReRegisterKeepsOrder tests that replacing a game does not
// duplicate its slot in the ordering.
func TestRegistryReRegisterKeepsOrder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubGame{"alpha", "🏀"}))
	require.NoError(t, r.Register(stubGame{"alpha", "🎳"}))

	assert.Equal(t, 1, r.Count())
	assert.Equal(t, []string{"alpha"}, r.Commands())

	g, ok := r.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "🎳", g.Emoji())
}
