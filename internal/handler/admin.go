package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"star-casino-bot/internal/ledger"
	"star-casino-bot/internal/logbook"
	"star-casino-bot/internal/model"
	"star-casino-bot/internal/payment"
	"star-casino-bot/internal/pkg/lock"
)

// AdminHandler handles admin-only commands. The admin middleware rejects
// every other caller before these run.
type AdminHandler struct {
	store      *ledger.Store
	reconciler *payment.Reconciler
	locks      *lock.AccountLock
	book       *logbook.Logbook
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(store *ledger.Store, reconciler *payment.Reconciler, locks *lock.AccountLock, book *logbook.Logbook) *AdminHandler {
	return &AdminHandler{
		store:      store,
		reconciler: reconciler,
		locks:      locks,
		book:       book,
	}
}

// HandleStats handles /stats: the cross-account aggregate.
func (h *AdminHandler) HandleStats(c tele.Context) error {
	stats := h.store.AggregateStats()
	return c.Reply(fmt.Sprintf(
		"\U0001F4CA Overall statistics\n\n"+
			"\U0001F465 Users: %d\n"+
			"\U0001F3AE Games: %d\n"+
			"\U0001F4C8 Staked: %d ⭐\n"+
			"\U0001F3C6 Won: %d ⭐\n"+
			"\U0001F4C9 Lost: %d ⭐",
		stats.TotalUsers, stats.TotalGames, stats.TotalStaked, stats.TotalWon, stats.TotalLost,
	))
}

// HandleUsers handles /users: one line per account.
func (h *AdminHandler) HandleUsers(c tele.Context) error {
	accounts := h.store.All()
	if len(accounts) == 0 {
		return c.Reply("\U0001F4ED No accounts yet")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\U0001F465 Accounts: %d\n\n", len(accounts))
	for _, acc := range accounts {
		name := acc.DisplayName()
		if name != "" {
			name = " " + name
		}
		fmt.Fprintf(&b, "ID:%d%s | balance %d | games %d\n", acc.ID, name, acc.Balance, acc.GamesPlayed)
		if b.Len() > 3500 {
			if err := c.Send(b.String()); err != nil {
				return err
			}
			b.Reset()
		}
	}
	if b.Len() > 0 {
		return c.Send(b.String())
	}
	return nil
}

// HandleGrant handles /grant <user_id> <amount>: a direct admin balance
// credit (negative amounts debit).
func (h *AdminHandler) HandleGrant(c tele.Context) error {
	sender := c.Sender()
	args := c.Args()
	if len(args) != 2 {
		return c.Reply("❌ Format: /grant <user_id> <amount>")
	}
	userID, err1 := strconv.ParseInt(args[0], 10, 64)
	amount, err2 := strconv.ParseInt(args[1], 10, 64)
	if err1 != nil || err2 != nil || amount == 0 {
		return c.Reply("❌ Format: /grant <user_id> <amount>")
	}

	if _, _, err := h.store.GetOrCreate(userID, nil); err != nil {
		return c.Reply("❌ Could not open the account")
	}

	h.locks.Lock(userID)
	defer h.locks.Unlock(userID)

	var before int64
	acc, err := h.store.Mutate(userID, func(a *model.Account) error {
		before = a.Balance
		if a.Balance+amount < 0 {
			return fmt.Errorf("balance cannot go negative")
		}
		a.Balance += amount
		return nil
	})
	if err != nil {
		return c.Reply("❌ " + err.Error())
	}

	h.book.BalanceChange(userID, acc.Profile.Username, before, acc.Balance, "admin_grant")
	h.book.AdminAction(sender.ID, "GRANT",
		logbook.KV{Key: "target", Value: args[0]},
		logbook.KV{Key: "amount", Value: args[1]})
	log.Info().
		Int64("admin_id", sender.ID).
		Int64("target_id", userID).
		Int64("amount", amount).
		Msg("Admin balance grant")

	return c.Reply(fmt.Sprintf(
		"✅ Done\n\n\U0001F464 ID:%d\n\U0001F4B3 Balance: %d → %d ⭐",
		userID, before, acc.Balance,
	))
}

// HandleRefund handles /refund <user_id> <charge_id>: reverse an
// externally paid round located by its charge id.
func (h *AdminHandler) HandleRefund(c tele.Context) error {
	sender := c.Sender()
	args := c.Args()
	if len(args) != 2 {
		return c.Reply("❌ Format: /refund <user_id> <charge_id>")
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return c.Reply("❌ Format: /refund <user_id> <charge_id>")
	}
	chargeID := args[1]

	res, err := h.reconciler.RefundRound(context.Background(), userID, chargeID)
	if err != nil {
		return c.Reply(refundErrorText(err))
	}

	h.book.AdminAction(sender.ID, "REFUND",
		logbook.KV{Key: "target", Value: args[0]},
		logbook.KV{Key: "charge_id", Value: chargeID})

	return c.Reply(fmt.Sprintf(
		"✅ Refund completed\n\n"+
			"\U0001F464 ID:%d\n"+
			"\U0001F4B0 %d ⭐\n"+
			"\U0001F517 %s",
		userID, res.Amount, shortCharge(res.ChargeID),
	))
}

// HandleSend handles /send <user_id> <amount>: return Stars to a user by
// reversing one of their confirmed payments.
func (h *AdminHandler) HandleSend(c tele.Context) error {
	sender := c.Sender()
	args := c.Args()
	if len(args) != 2 {
		return c.Reply("❌ Format: /send <user_id> <amount>")
	}
	userID, err1 := strconv.ParseInt(args[0], 10, 64)
	amount, err2 := strconv.ParseInt(args[1], 10, 64)
	if err1 != nil || err2 != nil {
		return c.Reply("❌ Format: /send <user_id> <amount>")
	}

	res, err := h.reconciler.RefundAmount(context.Background(), userID, amount)
	if err != nil {
		return c.Reply(refundErrorText(err))
	}

	h.book.AdminAction(sender.ID, "SEND",
		logbook.KV{Key: "target", Value: args[0]},
		logbook.KV{Key: "amount", Value: args[1]})

	return c.Reply(fmt.Sprintf(
		"✅ Sent %d ⭐ to ID:%d\n\n"+
			"\U0001F517 %s\n"+
			"\U0001F4B3 Their balance: %d ⭐",
		res.Amount, userID, shortCharge(res.ChargeID), res.Balance,
	))
}

// HandleWithdrawApprove reacts to the approve button on a withdrawal
// request. Callback data is "<user_id>|<amount>". The amount goes back to
// the user by reversing one of their confirmed payments.
func (h *AdminHandler) HandleWithdrawApprove(c tele.Context, data string) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	userID, amount, err := parseWithdrawData(data)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Bad withdrawal request"})
	}

	res, err := h.reconciler.RefundAmount(context.Background(), userID, amount)
	if err != nil {
		if respErr := c.Respond(&tele.CallbackResponse{Text: "Refund failed"}); respErr != nil {
			log.Debug().Err(respErr).Msg("Callback respond failed")
		}
		return c.Send(refundErrorText(err))
	}

	h.book.AdminAction(sender.ID, "WITHDRAW",
		logbook.KV{Key: "target", Value: strconv.FormatInt(userID, 10)},
		logbook.KV{Key: "amount", Value: strconv.FormatInt(res.Amount, 10)})

	if err := c.Respond(&tele.CallbackResponse{Text: "Approved"}); err != nil {
		log.Debug().Err(err).Msg("Callback respond failed")
	}
	if _, err := c.Bot().Send(&tele.User{ID: userID}, fmt.Sprintf(
		"✅ Withdrawal approved, %d ⭐ sent back", res.Amount,
	)); err != nil {
		log.Debug().Err(err).Int64("user_id", userID).Msg("User notification failed")
	}

	return c.Edit(fmt.Sprintf(
		"✅ Sent %d ⭐ to ID:%d\n\n\U0001F517 %s",
		res.Amount, userID, shortCharge(res.ChargeID),
	))
}

// parseWithdrawData parses the "<user_id>|<amount>" payload carried by the
// withdrawal approve button.
func parseWithdrawData(data string) (int64, int64, error) {
	parts := strings.Split(data, "|")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("bad withdrawal payload %q", data)
	}
	userID, err1 := strconv.ParseInt(parts[0], 10, 64)
	amount, err2 := strconv.ParseInt(parts[1], 10, 64)
	if err1 != nil || err2 != nil || userID <= 0 || amount <= 0 {
		return 0, 0, fmt.Errorf("bad withdrawal payload %q", data)
	}
	return userID, amount, nil
}

// HandleLogs handles /logs: today's aggregate plus the last entries.
func (h *AdminHandler) HandleLogs(c tele.Context) error {
	sender := c.Sender()
	h.book.AdminAction(sender.ID, "VIEW_LOGS")

	stats, err := h.book.TodayStats()
	if err != nil {
		return c.Reply("❌ Could not read today's log")
	}
	if stats.TotalActions == 0 {
		return c.Reply("\U0001F4ED No log entries today yet")
	}

	if err := c.Reply(fmt.Sprintf(
		"\U0001F4CA TODAY\n\n"+
			"\U0001F4DD Actions: %d\n"+
			"\U0001F195 Registrations: %d\n"+
			"▶ Starts: %d\n"+
			"\U0001F3AE Games: %d\n"+
			"✅ Wins: %d\n"+
			"❌ Losses: %d\n"+
			"\U0001F4B3 Payments: %d\n"+
			"↩ Refunds: %d\n\n"+
			"\U0001F4C1 %s",
		stats.TotalActions, stats.Registers, stats.Starts, stats.Games,
		stats.Wins, stats.Losses, stats.Payments, stats.Refunds,
		h.book.TodayFile(),
	)); err != nil {
		return err
	}

	lines, err := h.book.Tail(15)
	if err != nil || len(lines) == 0 {
		return nil
	}
	return c.Send("\U0001F4CB Last actions:\n\n```\n" + strings.Join(lines, "\n") + "\n```")
}

// shortCharge truncates a charge id for display.
func shortCharge(id string) string {
	if len(id) > 20 {
		return id[:20] + "..."
	}
	return id
}
