// Package handler provides Telegram bot command and callback handlers.
// Handlers are glue: they parse intent, call the core entry points and
// render results as text.
package handler

import "sync"

// Session tracks what the bot is waiting for from one user: the stake
// amount for a chosen game/bet pair, a custom deposit amount, or a
// withdrawal amount.
type Session struct {
	Game          string
	BetType       string
	AwaitDeposit  bool
	AwaitWithdraw bool
}

// Sessions is an in-memory per-user session map. State is transient by
// design; a restart simply asks the user to pick again.
type Sessions struct {
	m sync.Map // map[int64]*Session
}

// NewSessions creates an empty session map.
func NewSessions() *Sessions {
	return &Sessions{}
}

// Set replaces the session for a user.
func (s *Sessions) Set(userID int64, sess *Session) {
	s.m.Store(userID, sess)
}

// Get returns the session for a user, or nil.
func (s *Sessions) Get(userID int64) *Session {
	if v, ok := s.m.Load(userID); ok {
		return v.(*Session)
	}
	return nil
}

// Clear removes the session for a user.
func (s *Sessions) Clear(userID int64) {
	s.m.Delete(userID)
}
