package handler

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"star-casino-bot/internal/game"
	"star-casino-bot/internal/ledger"
	"star-casino-bot/internal/logbook"
	"star-casino-bot/internal/model"
)

// AccountHandler handles account-related commands.
type AccountHandler struct {
	store *ledger.Store
	games *game.Registry
	book  *logbook.Logbook
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(store *ledger.Store, games *game.Registry, book *logbook.Logbook) *AccountHandler {
	return &AccountHandler{store: store, games: games, book: book}
}

// profileOf extracts the cached profile fields from the sender.
func profileOf(sender *tele.User) *model.Profile {
	return &model.Profile{
		Username:  sender.Username,
		FirstName: sender.FirstName,
		LastName:  sender.LastName,
	}
}

// HandleStart handles the /start command, lazily creating the account.
func (h *AccountHandler) HandleStart(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	acc, created, err := h.store.GetOrCreate(sender.ID, profileOf(sender))
	if err != nil {
		return c.Reply("❌ Could not open your account, please try again later")
	}

	if created {
		h.book.Log(logbook.ActionRegister, sender.ID, sender.Username, sender.FirstName)
	}
	h.book.Log(logbook.ActionStart, sender.ID, sender.Username, sender.FirstName)

	name := sender.FirstName
	if name == "" {
		name = "there"
	}
	return c.Send(fmt.Sprintf(
		"\U0001F3B0 Hi %s!\n\n"+
			"Pick a game, place a bet, and the dice decide.\n\n"+
			"\U0001F4B3 Balance: %d ⭐",
		name, acc.Balance,
	), MainKeyboard(h.games))
}

// HandleProfile renders balance, statistics and recent rounds.
func (h *AccountHandler) HandleProfile(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	acc, _, err := h.store.GetOrCreate(sender.ID, profileOf(sender))
	if err != nil {
		return c.Reply("❌ Could not load your profile, please try again later")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\U0001F464 Profile\n\n")
	fmt.Fprintf(&b, "\U0001F4B3 Balance: %d ⭐\n", acc.Balance)
	fmt.Fprintf(&b, "\U0001F3AE Games played: %d\n", acc.GamesPlayed)
	fmt.Fprintf(&b, "\U0001F4C8 Total staked: %d ⭐\n", acc.TotalStaked)
	fmt.Fprintf(&b, "\U0001F3C6 Total won: %d ⭐\n", acc.TotalWon)
	fmt.Fprintf(&b, "\U0001F4C9 Total lost: %d ⭐\n", acc.TotalLost)

	if n := len(acc.History); n > 0 {
		fmt.Fprintf(&b, "\n\U0001F4DC Recent rounds:\n")
		start := n - 5
		if start < 0 {
			start = 0
		}
		for _, r := range acc.History[start:] {
			mark := "❌"
			if r.Won {
				mark = "✅"
			}
			refunded := ""
			if r.Refunded {
				refunded = " [refunded]"
			}
			fmt.Fprintf(&b, "%s %s %s %+d ⭐%s\n", mark, r.Game, r.BetType, r.Delta, refunded)
		}
	}

	return c.Send(b.String(), MainKeyboard(h.games))
}

// HandleRules renders the coefficient table for every registered game.
func (h *AccountHandler) HandleRules(c tele.Context) error {
	var b strings.Builder
	b.WriteString("\U0001F4CB Rules:\n")
	for _, g := range h.games.List() {
		fmt.Fprintf(&b, "\n%s %s\n", g.Emoji(), strings.ToUpper(g.Name()))
		for _, bt := range g.BetTypes() {
			for d := game.MinDraw; d <= game.MaxDraw; d++ {
				if res, err := g.Resolve(bt, d); err == nil && res.Won {
					fmt.Fprintf(&b, "• %s: %s\n", bt, res.Coefficient)
					break
				}
			}
		}
	}
	return c.Send(b.String(), MainKeyboard(h.games))
}
