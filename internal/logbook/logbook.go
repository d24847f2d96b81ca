// Package logbook writes the append-only per-day action log and reads it
// back for the admin daily summary. Line format:
//
//	2006-01-02 15:04:05 | ACTION          | ID:42 @handle (Name) | key:value | ...
//
// This is a fixed external format; zerolog remains the process log.
package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Actions emitted by the core.
const (
	ActionRegister      = "REGISTER"
	ActionStart         = "START"
	ActionGameStart     = "GAME_START"
	ActionWin           = "WIN"
	ActionLoss          = "LOSS"
	ActionPayment       = "PAYMENT"
	ActionRefund        = "REFUND"
	ActionBalanceChange = "BALANCE_CHANGE"
	ActionAdmin         = "ADMIN"
)

// KV is one key:value pair appended to a log line.
type KV struct {
	Key   string
	Value string
}

// Logbook appends action lines to one file per calendar day.
type Logbook struct {
	dir string
	mu  sync.Mutex
}

// New creates a Logbook writing under dir, creating it if needed.
func New(dir string) (*Logbook, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return &Logbook{dir: dir}, nil
}

func (l *Logbook) fileFor(t time.Time) string {
	return filepath.Join(l.dir, fmt.Sprintf("users_%s.log", t.Format("2006-01-02")))
}

// TodayFile returns the path of today's log file.
func (l *Logbook) TodayFile() string {
	return l.fileFor(time.Now())
}

// Log appends one action line. Failures are reported on the process log
// and otherwise ignored; the action log is an observability surface, not
// part of the ledger transaction.
func (l *Logbook) Log(action string, userID int64, username, firstName string, kvs ...KV) {
	var b strings.Builder
	now := time.Now()
	fmt.Fprintf(&b, "%s | %-15s | ID:%d", now.Format("2006-01-02 15:04:05"), action, userID)
	if username != "" {
		fmt.Fprintf(&b, " @%s", username)
	}
	if firstName != "" {
		fmt.Fprintf(&b, " (%s)", firstName)
	}
	for _, kv := range kvs {
		fmt.Fprintf(&b, " | %s:%s", kv.Key, kv.Value)
	}
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.OpenFile(l.fileFor(now), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Error().Err(err).Msg("Action log open failed")
		return
	}
	defer f.Close()
	if _, err := f.WriteString(b.String()); err != nil {
		log.Error().Err(err).Msg("Action log write failed")
	}
}

// GameStart records the start of a round.
func (l *Logbook) GameStart(userID int64, username, game, betType string, stake int64) {
	l.Log(ActionGameStart, userID, username, "",
		KV{"game", game}, KV{"bet", betType}, KV{"amount", fmt.Sprintf("%d", stake)})
}

// Win records a winning round.
func (l *Logbook) Win(userID int64, username, game, betType string, stake, winnings int64) {
	l.Log(ActionWin, userID, username, "",
		KV{"game", game}, KV{"bet", betType},
		KV{"bet_amount", fmt.Sprintf("%d", stake)},
		KV{"winnings", fmt.Sprintf("%d", winnings)},
		KV{"profit", fmt.Sprintf("%+d", winnings-stake)})
}

// Loss records a losing round.
func (l *Logbook) Loss(userID int64, username, game, betType string, stake int64) {
	l.Log(ActionLoss, userID, username, "",
		KV{"game", game}, KV{"bet", betType}, KV{"amount", fmt.Sprintf("%d", stake)})
}

// Payment records a confirmed external payment.
func (l *Logbook) Payment(userID int64, username string, amount int64, chargeID string) {
	l.Log(ActionPayment, userID, username, "",
		KV{"amount", fmt.Sprintf("%d", amount)}, KV{"charge_id", chargeID})
}

// Refund records a completed refund.
func (l *Logbook) Refund(userID int64, username string, amount int64, chargeID string) {
	l.Log(ActionRefund, userID, username, "",
		KV{"amount", fmt.Sprintf("%d", amount)}, KV{"charge_id", chargeID})
}

// BalanceChange records a balance transition with its reason.
func (l *Logbook) BalanceChange(userID int64, username string, before, after int64, reason string) {
	l.Log(ActionBalanceChange, userID, username, "",
		KV{"before", fmt.Sprintf("%d", before)},
		KV{"after", fmt.Sprintf("%d", after)},
		KV{"reason", reason})
}

// AdminAction records an admin-initiated operation.
func (l *Logbook) AdminAction(adminID int64, operation string, kvs ...KV) {
	l.Log(ActionAdmin, adminID, "", "", append([]KV{{"op", operation}}, kvs...)...)
}

// DayStats is the aggregate read back from one day's log.
type DayStats struct {
	TotalActions int
	Registers    int
	Starts       int
	Games        int
	Wins         int
	Losses       int
	Payments     int
	Refunds      int
}

// TodayStats counts today's actions by type. A missing file means an empty
// day, not an error.
func (l *Logbook) TodayStats() (*DayStats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.fileFor(time.Now()))
	if err != nil {
		if os.IsNotExist(err) {
			return &DayStats{}, nil
		}
		return nil, fmt.Errorf("open action log: %w", err)
	}
	defer f.Close()

	stats := &DayStats{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		parts := strings.SplitN(sc.Text(), "|", 3)
		if len(parts) < 2 {
			continue
		}
		stats.TotalActions++
		switch strings.TrimSpace(parts[1]) {
		case ActionRegister:
			stats.Registers++
		case ActionStart:
			stats.Starts++
		case ActionGameStart:
			stats.Games++
		case ActionWin:
			stats.Wins++
		case ActionLoss:
			stats.Losses++
		case ActionPayment:
			stats.Payments++
		case ActionRefund:
			stats.Refunds++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan action log: %w", err)
	}
	return stats, nil
}

// Tail returns the last n lines of today's log.
func (l *Logbook) Tail(n int) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.fileFor(time.Now()))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open action log: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan action log: %w", err)
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}
