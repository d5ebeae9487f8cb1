// FILE: internal/prefs/prefs.go
package prefs

import (
	"encoding/json"
	"errors"
	"time"

	"chessrules/internal/core"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
)

// Preferences are the interactive settings kept between sessions
type Preferences struct {
	Theme      string    `json:"theme"`
	Verbose    bool      `json:"verbose"`
	LastPlayed time.Time `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *Preferences {
	return &Preferences{Theme: "brown"}
}

// Stats tallies finished games
type Stats struct {
	GamesPlayed int            `json:"games_played"`
	WhiteWins   int            `json:"white_wins"`
	BlackWins   int            `json:"black_wins"`
	Draws       int            `json:"draws"`
	ByReason    map[string]int `json:"by_reason"`
}

func NewStats() *Stats {
	return &Stats{ByReason: make(map[string]int)}
}

// Store wraps BadgerDB for the local preference and stats records
type Store struct {
	db *badger.DB
}

// Open opens or creates the store in dir
func Open(dir string) (*Store, error) {
	return open(badger.DefaultOptions(dir))
}

// OpenInMemory opens a store that is discarded on Close
func OpenInMemory() (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Store, error) {
	opts.Logger = nil // Disable logging
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes key into v, leaving v untouched when the key is absent
func (s *Store) get(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

func (s *Store) SavePreferences(p *Preferences) error {
	p.LastPlayed = time.Now()
	return s.put(keyPreferences, p)
}

// LoadPreferences returns the saved preferences, or defaults if none
func (s *Store) LoadPreferences() (*Preferences, error) {
	p := DefaultPreferences()
	err := s.get(keyPreferences, p)
	return p, err
}

// LoadStats returns the saved tallies, or empty stats if none
func (s *Store) LoadStats() (*Stats, error) {
	stats := NewStats()
	if err := s.get(keyStats, stats); err != nil {
		return nil, err
	}
	if stats.ByReason == nil {
		stats.ByReason = make(map[string]int)
	}
	return stats, nil
}

// RecordResult adds a finished game to the tallies
func (s *Store) RecordResult(state core.State, reason core.Reason) error {
	if !state.IsOver() {
		return nil
	}
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	switch state {
	case core.StateWhiteWins:
		stats.WhiteWins++
	case core.StateBlackWins:
		stats.BlackWins++
	default:
		stats.Draws++
	}
	if reason != core.ReasonNone {
		stats.ByReason[reason.String()]++
	}

	return s.put(keyStats, stats)
}
