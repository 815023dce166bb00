// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package tokencache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/geocore-go/internal/logging"
	"github.com/tomtom215/geocore-go/internal/metrics"
)

var (
	// ErrNotFound is returned when no live token is cached.
	ErrNotFound = errors.New("token not found")

	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("token cache is closed")
)

// Key prefixes
const (
	prefixToken   = "token:"
	prefixCurrent = "current:"
)

// Entry is one cached session.
type Entry struct {
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	SavedAt   time.Time `json:"saved_at"`
}

// Store is a BadgerDB-backed token cache. It is safe for concurrent use.
type Store struct {
	db  *badger.DB
	ttl time.Duration
	now func() time.Time

	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the cache at path. A ttl of zero keeps entries
// until they are deleted.
func Open(path string, ttl time.Duration) (*Store, error) {
	if path == "" {
		return nil, errors.New("token cache path is empty")
	}
	if ttl < 0 {
		return nil, fmt.Errorf("token cache ttl must not be negative, got %s", ttl)
	}

	opts := badger.DefaultOptions(path)
	opts.SyncWrites = true
	// Tokens are tiny; keep the footprint small.
	opts.MemTableSize = 16 << 20
	opts.ValueLogFileSize = 16 << 20
	opts.NumCompactors = 2
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Debug().Str("path", path).Dur("ttl", ttl).Msg("Token cache opened")
	return &Store{db: db, ttl: ttl, now: time.Now}, nil
}

func tokenKey(projectID, userID string) []byte {
	return []byte(prefixToken + projectID + ":" + userID)
}

func currentKey(projectID string) []byte {
	return []byte(prefixCurrent + projectID)
}

func (s *Store) entry(key, value []byte) *badger.Entry {
	e := badger.NewEntry(key, value)
	if s.ttl > 0 {
		e = e.WithTTL(s.ttl)
	}
	return e
}

// Save stores the entry and marks its user as the current user of the
// project.
func (s *Store) Save(e Entry) (err error) {
	defer func() { metrics.RecordTokenCache("save", err) }()

	if e.ProjectID == "" || e.UserID == "" || e.Token == "" {
		return errors.New("token cache entry is incomplete")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	if e.SavedAt.IsZero() {
		e.SavedAt = s.now()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.SetEntry(s.entry(tokenKey(e.ProjectID, e.UserID), data)); err != nil {
			return err
		}
		return txn.SetEntry(s.entry(currentKey(e.ProjectID), []byte(e.UserID)))
	})
	if err != nil {
		return fmt.Errorf("write to BadgerDB: %w", err)
	}
	return nil
}

// Load returns the cached entry for the user, or for the current user of
// the project when userID is empty.
func (s *Store) Load(projectID, userID string) (e *Entry, err error) {
	defer func() {
		if !errors.Is(err, ErrNotFound) {
			metrics.RecordTokenCache("load", err)
		} else {
			metrics.RecordTokenCache("miss", nil)
		}
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	err = s.db.View(func(txn *badger.Txn) error {
		uid := userID
		if uid == "" {
			item, err := txn.Get(currentKey(projectID))
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			if err != nil {
				return fmt.Errorf("get current user: %w", err)
			}
			val, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("read current user: %w", err)
			}
			uid = string(val)
		}

		item, err := txn.Get(tokenKey(projectID, uid))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get token: %w", err)
		}
		return item.Value(func(val []byte) error {
			var loaded Entry
			if err := json.Unmarshal(val, &loaded); err != nil {
				return fmt.Errorf("unmarshal entry: %w", err)
			}
			e = &loaded
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if s.ttl > 0 && s.now().Sub(e.SavedAt) >= s.ttl {
		logging.Debug().Str("project_id", projectID).Str("user_id", e.UserID).Msg("Cached token expired")
		return nil, ErrNotFound
	}
	return e, nil
}

// Delete removes the user's entry, or the current user's entry when userID
// is empty. Deleting the current user also clears the current marker.
// Deleting a missing entry is not an error.
func (s *Store) Delete(projectID, userID string) (err error) {
	defer func() { metrics.RecordTokenCache("delete", err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		var current string
		item, err := txn.Get(currentKey(projectID))
		switch {
		case err == nil:
			val, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("read current user: %w", err)
			}
			current = string(val)
		case !errors.Is(err, badger.ErrKeyNotFound):
			return fmt.Errorf("get current user: %w", err)
		}

		uid := userID
		if uid == "" {
			uid = current
		}
		if uid == "" {
			return nil
		}
		if err := txn.Delete(tokenKey(projectID, uid)); err != nil {
			return err
		}
		if uid == current {
			return txn.Delete(currentKey(projectID))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete from BadgerDB: %w", err)
	}
	return nil
}

// Close releases the database. It is safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	return nil
}
