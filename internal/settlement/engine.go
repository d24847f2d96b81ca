// Package settlement orchestrates one bet lifecycle: validate funds, wait
// for the draw, resolve the outcome, mutate the ledger, append the round
// and persist. The debit, draw and settle steps form one logical
// transaction; any failure after the debit triggers a compensating credit
// so no partial state is observable.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"star-casino-bot/internal/game"
	"star-casino-bot/internal/ledger"
	"star-casino-bot/internal/logbook"
	"star-casino-bot/internal/model"
	"star-casino-bot/internal/pkg/lock"
)

// Settlement errors.
var (
	ErrInsufficientFunds = errors.New("insufficient balance for stake")
	ErrInvalidStake      = errors.New("stake must be positive")
	ErrUnknownGame       = errors.New("unknown game")
)

// DrawSource produces a uniform random integer in 1..6. The production
// implementation sends a Telegram animated dice and waits out the
// animation, which makes the draw a genuine suspension point; ctx
// cancellation during the wait aborts the bet.
type DrawSource interface {
	Draw(ctx context.Context, userID int64, g game.Game) (int, error)
}

// Outcome is the settled result of one bet, rendered by the transport.
type Outcome struct {
	Round       model.Round
	Coefficient game.Coefficient
	Balance     int64
}

// Engine runs bet settlements against the ledger.
type Engine struct {
	store *ledger.Store
	games *game.Registry
	draws DrawSource
	locks *lock.AccountLock
	book  *logbook.Logbook
}

// NewEngine creates a settlement engine.
func NewEngine(store *ledger.Store, games *game.Registry, draws DrawSource, locks *lock.AccountLock, book *logbook.Logbook) *Engine {
	return &Engine{
		store: store,
		games: games,
		draws: draws,
		locks: locks,
		book:  book,
	}
}

// PlaceBet settles a balance-funded bet. The stake is debited up front; if
// the account cannot cover it nothing is mutated.
func (e *Engine) PlaceBet(ctx context.Context, userID int64, gameCmd, betType string, stake int64) (*Outcome, error) {
	return e.play(ctx, userID, gameCmd, betType, stake, model.BalanceFunding())
}

// PlacePaidBet settles a bet whose stake arrived as a confirmed external
// payment. No balance debit happens; the round carries the charge id so an
// admin refund can locate it.
func (e *Engine) PlacePaidBet(ctx context.Context, userID int64, gameCmd, betType string, stake int64, chargeID string) (*Outcome, error) {
	return e.play(ctx, userID, gameCmd, betType, stake, model.ExternalFunding(chargeID))
}

func (e *Engine) play(ctx context.Context, userID int64, gameCmd, betType string, stake int64, funding model.FundingSource) (*Outcome, error) {
	if stake <= 0 {
		return nil, ErrInvalidStake
	}
	g, ok := e.games.Get(gameCmd)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, gameCmd)
	}
	// Reject unknown bet types before touching the ledger.
	if _, err := g.Resolve(betType, game.MinDraw); err != nil {
		return nil, err
	}

	acc, _, err := e.store.GetOrCreate(userID, nil)
	if err != nil {
		return nil, err
	}

	e.locks.Lock(userID)
	defer e.locks.Unlock(userID)

	username := acc.Profile.Username
	e.book.GameStart(userID, username, g.Command(), betType, stake)

	fromBalance := funding.Kind == model.FundingBalance
	if !fromBalance {
		// An external stake is a confirmed payment; the daily counts must
		// include it.
		e.book.Payment(userID, username, stake, funding.ChargeID)
	}
	if fromBalance {
		if _, err := e.store.Mutate(userID, func(a *model.Account) error {
			if a.Balance < stake {
				return fmt.Errorf("%w: balance %d, stake %d", ErrInsufficientFunds, a.Balance, stake)
			}
			a.Balance -= stake
			return nil
		}); err != nil {
			return nil, err
		}
	}

	draw, err := e.draws.Draw(ctx, userID, g)
	if err == nil {
		err = game.CheckDraw(draw)
	}
	if err != nil {
		// The draw never completed; hand the stake back so the debit is
		// not left applied without a round.
		if fromBalance {
			e.compensate(userID, stake)
		}
		return nil, fmt.Errorf("draw failed: %w", err)
	}

	res, err := g.Resolve(betType, draw)
	if err != nil {
		if fromBalance {
			e.compensate(userID, stake)
		}
		return nil, err
	}

	round := model.Round{
		ID:      uuid.NewString(),
		Date:    time.Now(),
		Game:    g.Command(),
		BetType: betType,
		Stake:   stake,
		Outcome: res.Outcome,
		Draw:    draw,
		Won:     res.Won,
		Funding: funding,
	}
	if res.Won {
		round.Payout = res.Coefficient.Payout(stake)
		if fromBalance {
			round.Delta = round.Payout - stake
		} else {
			round.Delta = round.Payout
		}
	} else if fromBalance {
		round.Delta = -stake
	}

	settled, err := e.store.Mutate(userID, func(a *model.Account) error {
		a.TotalStaked += stake
		a.GamesPlayed++
		if res.Won {
			a.Balance += round.Payout
			a.TotalWon += round.Payout
		} else {
			a.TotalLost += stake
		}
		a.History = append(a.History, round)
		return nil
	})
	if err != nil {
		if fromBalance {
			e.compensate(userID, stake)
		}
		return nil, err
	}

	if res.Won {
		e.book.Win(userID, username, g.Command(), betType, stake, round.Payout)
	} else {
		e.book.Loss(userID, username, g.Command(), betType, stake)
	}

	return &Outcome{
		Round:       round,
		Coefficient: res.Coefficient,
		Balance:     settled.Balance,
	}, nil
}

// compensate credits a debited stake back after a failure between debit and
// settle. A failure here is logged loudly: the ledger needs manual repair.
func (e *Engine) compensate(userID int64, stake int64) {
	if _, err := e.store.Mutate(userID, func(a *model.Account) error {
		a.Balance += stake
		return nil
	}); err != nil {
		log.Error().Err(err).
			Int64("user_id", userID).
			Int64("stake", stake).
			Msg("Compensating credit failed, debited stake has no round")
	}
}
