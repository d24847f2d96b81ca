// Package model defines the ledger data model for the casino bot.
package model

import "time"

// FundingKind identifies where the stake of a round came from.
type FundingKind string

const (
	// FundingBalance means the stake was debited from the internal balance.
	FundingBalance FundingKind = "balance"
	// FundingExternal means the stake arrived as a confirmed Stars payment.
	FundingExternal FundingKind = "external"
)

// FundingSource is attached to every Round. ChargeID is set only for
// externally paid rounds and is the handle used by admin refunds.
type FundingSource struct {
	Kind     FundingKind `json:"kind"`
	ChargeID string      `json:"charge_id,omitempty"`
}

// BalanceFunding returns the funding source for a balance-funded round.
func BalanceFunding() FundingSource {
	return FundingSource{Kind: FundingBalance}
}

// ExternalFunding returns the funding source for a round paid with the
// given external charge id.
func ExternalFunding(chargeID string) FundingSource {
	return FundingSource{Kind: FundingExternal, ChargeID: chargeID}
}

// Round is one completed bet's outcome record. Rounds are append-only and
// immutable except for the refund annotation, which may flip Refunded
// false->true exactly once.
type Round struct {
	ID      string    `json:"id"`
	Date    time.Time `json:"date"`
	Game    string    `json:"game"`
	BetType string    `json:"bet_type"`
	Stake   int64     `json:"stake"`
	Outcome string    `json:"outcome"`
	Draw    int       `json:"draw"`
	Won     bool      `json:"won"`
	// Delta is the net effect of the round on the balance: for a
	// balance-funded win payout-stake, for a balance-funded loss -stake,
	// for an external win +payout and for an external loss 0. Summing
	// Delta over History together with net payment credits reproduces the
	// balance exactly.
	Delta int64 `json:"delta"`
	// Payout is the gross winnings credited on a win (0 on loss). A refund
	// of a winning round claws back exactly this amount.
	Payout  int64         `json:"payout"`
	Funding FundingSource `json:"funding"`

	Refunded   bool       `json:"refunded,omitempty"`
	RefundDate *time.Time `json:"refund_date,omitempty"`
}

// PaymentRecord is one externally confirmed payment, reversible once.
type PaymentRecord struct {
	Amount   int64     `json:"amount"`
	ChargeID string    `json:"charge_id"`
	Date     time.Time `json:"date"`

	Refunded     bool       `json:"refunded"`
	RefundAmount int64      `json:"refund_amount,omitempty"`
	RefundDate   *time.Time `json:"refund_date,omitempty"`
}

// Profile carries display fields observed on an interaction. They are
// cached on the account and overwritten each time; not authoritative.
type Profile struct {
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Account is the per-user balance and statistics record. The ledger store
// is its sole owner; no other component mutates it directly.
type Account struct {
	ID          int64           `json:"-"`
	Balance     int64           `json:"balance"`
	TotalStaked int64           `json:"total_staked"`
	TotalWon    int64           `json:"total_won"`
	TotalLost   int64           `json:"total_lost"`
	GamesPlayed int64           `json:"games_played"`
	History     []Round         `json:"history"`
	Payments    []PaymentRecord `json:"payments"`
	Profile     Profile         `json:"profile"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Clone returns a deep copy of the account. The store hands out clones to
// readers and uses them to roll back a failed mutation.
func (a *Account) Clone() *Account {
	cp := *a
	cp.History = make([]Round, len(a.History))
	copy(cp.History, a.History)
	cp.Payments = make([]PaymentRecord, len(a.Payments))
	copy(cp.Payments, a.Payments)
	return &cp
}

// FindRoundByCharge returns the round funded by the given external charge
// id, or nil.
func (a *Account) FindRoundByCharge(chargeID string) *Round {
	for i := range a.History {
		if a.History[i].Funding.ChargeID == chargeID {
			return &a.History[i]
		}
	}
	return nil
}

// FindPayment returns the payment record with the given charge id, or nil.
func (a *Account) FindPayment(chargeID string) *PaymentRecord {
	for i := range a.Payments {
		if a.Payments[i].ChargeID == chargeID {
			return &a.Payments[i]
		}
	}
	return nil
}

// DisplayName returns the best available human-readable name for the account.
func (a *Account) DisplayName() string {
	if a.Profile.Username != "" {
		return "@" + a.Profile.Username
	}
	if a.Profile.FirstName != "" {
		return a.Profile.FirstName
	}
	return ""
}

// AggregateStats is the cross-account summary shown on the admin surface.
type AggregateStats struct {
	TotalUsers  int   `json:"total_users"`
	TotalGames  int64 `json:"total_games"`
	TotalStaked int64 `json:"total_staked"`
	TotalWon    int64 `json:"total_won"`
	TotalLost   int64 `json:"total_lost"`
}
