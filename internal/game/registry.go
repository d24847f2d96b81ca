package game

import (
	"fmt"
	"sync"
)

// Registry manages game registration and lookup. It is safe for concurrent
// use; registration normally happens once at startup.
type Registry struct {
	games map[string]Game
	order []string
	mu    sync.RWMutex
}

// NewRegistry creates an empty game registry.
func NewRegistry() *Registry {
	return &Registry{
		games: make(map[string]Game),
	}
}

// Register adds a game to the registry, keyed by its command.
func (r *Registry) Register(g Game) error {
	if g == nil {
		return fmt.Errorf("cannot register nil game")
	}
	if g.Command() == "" {
		return fmt.Errorf("game command cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[g.Command()]; !ok {
		r.order = append(r.order, g.Command())
	}
	r.games[g.Command()] = g
	return nil
}

// Get retrieves a game by its command.
func (r *Registry) Get(command string) (Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[command]
	return g, ok
}

// GetByEmoji retrieves a game by its Telegram dice emoji.
func (r *Registry) GetByEmoji(emoji string) (Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, g := range r.games {
		if g.Emoji() == emoji {
			return g, true
		}
	}
	return nil, false
}

// List returns all registered games in registration order.
func (r *Registry) List() []Game {
	r.mu.RLock()
	defer r.mu.RUnlock()

	games := make([]Game, 0, len(r.order))
	for _, cmd := range r.order {
		games = append(games, r.games[cmd])
	}
	return games
}

// Commands returns all registered game commands in registration order.
func (r *Registry) Commands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Count returns the number of registered games.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}
