// Package payment reconciles external Stars payments against the ledger:
// deposit confirmations and admin-initiated refunds with balance claw-back.
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"star-casino-bot/internal/ledger"
	"star-casino-bot/internal/logbook"
	"star-casino-bot/internal/model"
	"star-casino-bot/internal/pkg/lock"
)

// Reconciliation errors.
var (
	ErrInvalidAmount             = errors.New("amount out of bounds")
	ErrInsufficientBalance       = errors.New("balance does not cover the refund amount")
	ErrDuplicateCharge           = errors.New("charge id already confirmed")
	ErrAlreadyRefunded           = errors.New("already refunded")
	ErrRefundNotFound            = errors.New("no matching payment or round")
	ErrInsufficientPaymentAmount = errors.New("no payment large enough to refund")
	ErrExternalReversalFailed    = errors.New("external payment reversal failed")
)

// Reverser is the external payment-reversal primitive (Telegram's
// refundStarPayment in production). It is unreliable; a failure must leave
// the ledger untouched so the refund can be retried.
type Reverser interface {
	Refund(ctx context.Context, userID int64, chargeID string) error
}

// Limits bound the accepted deposit amounts.
type Limits struct {
	MinDeposit int64
	MaxDeposit int64
}

// RefundResult describes a completed refund.
type RefundResult struct {
	Amount   int64
	ChargeID string
	Balance  int64
}

// Reconciler records payment confirmations and performs refunds.
type Reconciler struct {
	store    *ledger.Store
	locks    *lock.AccountLock
	reverser Reverser
	book     *logbook.Logbook
	limits   Limits
}

// NewReconciler creates a payment reconciler.
func NewReconciler(store *ledger.Store, locks *lock.AccountLock, reverser Reverser, book *logbook.Logbook, limits Limits) *Reconciler {
	return &Reconciler{
		store:    store,
		locks:    locks,
		reverser: reverser,
		book:     book,
		limits:   limits,
	}
}

// ValidateDepositAmount rejects out-of-bound deposit amounts before any
// invoice is issued or any state is touched.
func (r *Reconciler) ValidateDepositAmount(amount int64) error {
	if amount < r.limits.MinDeposit || amount > r.limits.MaxDeposit {
		return fmt.Errorf("%w: %d not in [%d, %d]",
			ErrInvalidAmount, amount, r.limits.MinDeposit, r.limits.MaxDeposit)
	}
	return nil
}

// ConfirmDeposit records a confirmed external payment and credits the
// balance. A replayed charge id is rejected with ErrDuplicateCharge and
// credits nothing.
func (r *Reconciler) ConfirmDeposit(ctx context.Context, userID int64, amount int64, chargeID string, profile *model.Profile) (*model.Account, error) {
	if err := r.ValidateDepositAmount(amount); err != nil {
		return nil, err
	}

	acc, _, err := r.store.GetOrCreate(userID, profile)
	if err != nil {
		return nil, err
	}

	r.locks.Lock(userID)
	defer r.locks.Unlock(userID)

	before := acc.Balance
	updated, err := r.store.Mutate(userID, func(a *model.Account) error {
		if a.FindPayment(chargeID) != nil {
			return fmt.Errorf("%w: %s", ErrDuplicateCharge, chargeID)
		}
		before = a.Balance
		a.Payments = append(a.Payments, model.PaymentRecord{
			Amount:   amount,
			ChargeID: chargeID,
			Date:     time.Now(),
		})
		a.Balance += amount
		return nil
	})
	if err != nil {
		return nil, err
	}

	username := updated.Profile.Username
	r.book.Payment(userID, username, amount, chargeID)
	r.book.BalanceChange(userID, username, before, updated.Balance, "deposit")
	return updated, nil
}

// RefundRound refunds an externally paid round located by its charge id.
// The external reversal runs first; if it fails the round stays unflagged
// and a retry is safe. On success a winning round's payout is clawed back
// from the balance and statistics.
func (r *Reconciler) RefundRound(ctx context.Context, userID int64, chargeID string) (*RefundResult, error) {
	// Preconditions are read under the account lock: a concurrent refund of
	// the same charge must not pass them twice and double-fire the reverser.
	r.locks.Lock(userID)
	defer r.locks.Unlock(userID)

	acc, err := r.store.Get(userID)
	if err != nil {
		return nil, err
	}

	target := acc.FindRoundByCharge(chargeID)
	if target == nil {
		return nil, fmt.Errorf("%w: charge %s", ErrRefundNotFound, chargeID)
	}
	if target.Refunded {
		return nil, fmt.Errorf("%w: on %s", ErrAlreadyRefunded, target.RefundDate.Format(time.RFC3339))
	}

	if err := r.reverser.Refund(ctx, userID, chargeID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalReversalFailed, err)
	}

	updated, err := r.store.Mutate(userID, func(a *model.Account) error {
		round := a.FindRoundByCharge(chargeID)
		if round == nil {
			return fmt.Errorf("%w: charge %s", ErrRefundNotFound, chargeID)
		}
		if round.Refunded {
			return fmt.Errorf("%w: on %s", ErrAlreadyRefunded, round.RefundDate.Format(time.RFC3339))
		}
		if round.Won {
			a.Balance -= round.Payout
			a.TotalWon -= round.Payout
		}
		now := time.Now()
		round.Refunded = true
		round.RefundDate = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.book.Refund(userID, updated.Profile.Username, target.Stake, chargeID)
	return &RefundResult{
		Amount:   target.Stake,
		ChargeID: chargeID,
		Balance:  updated.Balance,
	}, nil
}

// RefundAmount refunds a requested amount against the payment ledger using
// best-effort matching inherited from the source: the first unrefunded
// payment covering the amount, else the largest unrefunded one. The chosen
// record is flagged fully refunded even when the amount is partial. The
// amount must be covered by the current balance.
func (r *Reconciler) RefundAmount(ctx context.Context, userID int64, amount int64) (*RefundResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}

	r.locks.Lock(userID)
	defer r.locks.Unlock(userID)

	acc, err := r.store.Get(userID)
	if err != nil {
		return nil, err
	}

	// The claw-back must never drive the balance negative.
	if acc.Balance < amount {
		return nil, fmt.Errorf("%w: balance %d, refund %d", ErrInsufficientBalance, acc.Balance, amount)
	}

	target, err := pickPayment(acc.Payments, amount)
	if err != nil {
		return nil, err
	}
	chargeID := target.ChargeID

	if err := r.reverser.Refund(ctx, userID, chargeID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalReversalFailed, err)
	}

	updated, err := r.store.Mutate(userID, func(a *model.Account) error {
		rec := a.FindPayment(chargeID)
		if rec == nil {
			return fmt.Errorf("%w: charge %s", ErrRefundNotFound, chargeID)
		}
		if rec.Refunded {
			return fmt.Errorf("%w: on %s", ErrAlreadyRefunded, rec.RefundDate.Format(time.RFC3339))
		}
		a.Balance -= amount
		now := time.Now()
		rec.Refunded = true
		rec.RefundAmount = amount
		rec.RefundDate = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.book.Refund(userID, updated.Profile.Username, amount, chargeID)
	return &RefundResult{
		Amount:   amount,
		ChargeID: chargeID,
		Balance:  updated.Balance,
	}, nil
}

// pickPayment selects the record to reverse for an amount-based refund.
func pickPayment(payments []model.PaymentRecord, amount int64) (*model.PaymentRecord, error) {
	var available []*model.PaymentRecord
	for i := range payments {
		if !payments[i].Refunded {
			available = append(available, &payments[i])
		}
	}
	if len(available) == 0 {
		return nil, ErrRefundNotFound
	}

	for _, p := range available {
		if p.Amount >= amount {
			return p, nil
		}
	}

	largest := available[0]
	for _, p := range available[1:] {
		if p.Amount > largest.Amount {
			largest = p
		}
	}
	if largest.Amount < amount {
		return nil, fmt.Errorf("%w: largest available is %d", ErrInsufficientPaymentAmount, largest.Amount)
	}
	return largest, nil
}
