package handler

import (
	"fmt"

	tele "gopkg.in/telebot.v3"

	"star-casino-bot/internal/game"
)

// Reply keyboard button labels.
const (
	BtnProfile = "\U0001F464 Profile" // 👤
	BtnDeposit = "\U0001F4B0 Deposit" // 💰
	BtnRules   = "\U0001F4CB Rules"   // 📋
	BtnCancel  = "❌ Cancel"
	BtnCustom  = "✏ Custom amount"
)

// Callback uniques.
const (
	cbBet      = "bet"
	cbWithdraw = "withdraw"
)

// MainKeyboard builds the persistent reply keyboard: one button per game
// emoji plus profile, deposit and rules.
func MainKeyboard(games *game.Registry) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{ResizeKeyboard: true}

	var gameRow []tele.Btn
	for _, g := range games.List() {
		gameRow = append(gameRow, m.Text(g.Emoji()))
	}

	m.Reply(
		m.Row(gameRow...),
		m.Row(m.Text(BtnProfile), m.Text(BtnDeposit), m.Text(BtnRules)),
	)
	return m
}

// BetTypeKeyboard builds the inline keyboard of bet types for a game, one
// button per type with its coefficient.
func BetTypeKeyboard(g game.Game) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}

	var rows []tele.Row
	for _, bt := range g.BetTypes() {
		// The coefficient only surfaces on a winning resolution, so walk
		// the draws until one wins.
		label := bt
		for d := game.MinDraw; d <= game.MaxDraw; d++ {
			if res, err := g.Resolve(bt, d); err == nil && res.Won {
				label = fmt.Sprintf("%s %s", bt, res.Coefficient)
				break
			}
		}
		rows = append(rows, m.Row(m.Data(label, cbBet, g.Command(), bt)))
	}
	m.Inline(rows...)
	return m
}

// DepositKeyboard builds the reply keyboard of deposit presets.
func DepositKeyboard(presets []int64) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{ResizeKeyboard: true}

	var rows []tele.Row
	var row []tele.Btn
	for _, amount := range presets {
		row = append(row, m.Text(fmt.Sprintf("⭐ %d", amount)))
		if len(row) == 3 {
			rows = append(rows, m.Row(row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, m.Row(row...))
	}
	rows = append(rows, m.Row(m.Text(BtnCustom), m.Text(BtnCancel)))

	m.Reply(rows...)
	return m
}

// CancelKeyboard builds a reply keyboard with a single cancel button.
func CancelKeyboard() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{ResizeKeyboard: true}
	m.Reply(m.Row(m.Text(BtnCancel)))
	return m
}
