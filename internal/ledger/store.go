// Package ledger owns the in-memory account map and its flat-file snapshot.
// The store is the single source of truth while the process runs: the
// snapshot file is read once at startup and rewritten after every mutating
// operation. All account mutation goes through Mutate.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"star-casino-bot/internal/model"
)

// Store errors.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrPersistence     = errors.New("snapshot write failed")
)

// Store holds every account and persists the whole map on each mutation.
type Store struct {
	mu       sync.RWMutex
	path     string
	accounts map[int64]*model.Account
}

// Open loads the snapshot at path, or starts empty when the file does not
// exist yet. The parent directory is created if needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}

	s := &Store{
		path:     path,
		accounts: make(map[int64]*model.Account),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("path", path).Msg("No snapshot found, starting with empty ledger")
			return s, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	if err := s.restore(data); err != nil {
		return nil, err
	}
	log.Info().Str("path", path).Int("users", len(s.accounts)).Msg("Ledger snapshot loaded")
	return s, nil
}

// restore decodes a snapshot. Keys are user ids serialized as strings.
// Fields added after a snapshot was written are defaulted, the way the
// original data file handled the late-added payments list.
func (s *Store) restore(data []byte) error {
	var raw map[string]*model.Account
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	for key, acc := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return fmt.Errorf("decode snapshot: bad user key %q: %w", key, err)
		}
		acc.ID = id
		if acc.History == nil {
			acc.History = []model.Round{}
		}
		if acc.Payments == nil {
			acc.Payments = []model.PaymentRecord{}
		}
		s.accounts[id] = acc
	}
	return nil
}

// persistLocked rewrites the snapshot file. Callers hold s.mu. The content
// is written to a temp file and renamed into place so a crash mid-write
// never leaves a truncated snapshot.
func (s *Store) persistLocked() error {
	raw := make(map[string]*model.Account, len(s.accounts))
	for id, acc := range s.accounts {
		raw[strconv.FormatInt(id, 10)] = acc
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// GetOrCreate returns a copy of the account, lazily creating it with a zero
// balance on first interaction. Profile hints, when present, overwrite the
// cached display fields.
func (s *Store) GetOrCreate(id int64, profile *model.Profile) (*model.Account, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	created := false
	dirty := false

	if !ok {
		now := time.Now()
		acc = &model.Account{
			ID:        id,
			History:   []model.Round{},
			Payments:  []model.PaymentRecord{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.accounts[id] = acc
		created = true
		dirty = true
	}

	if profile != nil && acc.Profile != *profile {
		acc.Profile = *profile
		dirty = true
	}

	if dirty {
		acc.UpdatedAt = time.Now()
		if err := s.persistLocked(); err != nil {
			if created {
				delete(s.accounts, id)
			}
			return nil, false, err
		}
	}

	return acc.Clone(), created, nil
}

// Get returns a copy of an existing account.
func (s *Store) Get(id int64) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acc.Clone(), nil
}

// Mutate applies fn to the account as a single read-modify-write and
// persists the result. If fn fails, or the snapshot write fails, the
// in-memory account is rolled back to its prior state and the error is
// returned; the mutation must not be treated as durable.
func (s *Store) Mutate(id int64, fn func(*model.Account) error) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}

	prev := acc.Clone()
	if err := fn(acc); err != nil {
		s.accounts[id] = prev
		return nil, err
	}
	acc.UpdatedAt = time.Now()

	if err := s.persistLocked(); err != nil {
		s.accounts[id] = prev
		log.Error().Err(err).Int64("user_id", id).Msg("Snapshot write failed, mutation rolled back")
		return nil, err
	}

	return acc.Clone(), nil
}

// All returns copies of every account, ordered by id for stable output.
func (s *Store) All() []*model.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		out = append(out, acc.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of accounts.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

// AggregateStats sums the per-account counters across the whole ledger.
func (s *Store) AggregateStats() model.AggregateStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := model.AggregateStats{TotalUsers: len(s.accounts)}
	for _, acc := range s.accounts {
		stats.TotalGames += acc.GamesPlayed
		stats.TotalStaked += acc.TotalStaked
		stats.TotalWon += acc.TotalWon
		stats.TotalLost += acc.TotalLost
	}
	return stats
}

// Close flushes a final snapshot. Called on shutdown.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}
