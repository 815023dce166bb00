// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package tokencache

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/geocore-go/internal/metrics"
)

func openTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "tokens"), ttl)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_Validation(t *testing.T) {
	t.Parallel()

	if _, err := Open("", time.Hour); err == nil {
		t.Error("expected an error for an empty path")
	}
	if _, err := Open(t.TempDir(), -time.Second); err == nil {
		t.Error("expected an error for a negative ttl")
	}
}

func TestStore_SaveLoad(t *testing.T) {
	t.Parallel()

	s := openTestStore(t, time.Hour)

	if _, err := s.Load("PRO-1", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() on empty cache error = %v, want ErrNotFound", err)
	}

	if err := s.Save(Entry{ProjectID: "PRO-1", UserID: "USE-1-alice", Token: "tok-a"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Save(Entry{ProjectID: "PRO-1", UserID: "USE-1-bob", Token: "tok-b"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	current, err := s.Load("PRO-1", "")
	if err != nil {
		t.Fatalf("Load(current) error = %v", err)
	}
	if current.UserID != "USE-1-bob" || current.Token != "tok-b" || current.SavedAt.IsZero() {
		t.Errorf("current = %+v", current)
	}

	alice, err := s.Load("PRO-1", "USE-1-alice")
	if err != nil || alice.Token != "tok-a" {
		t.Fatalf("Load(alice) = %+v, %v", alice, err)
	}

	if _, err := s.Load("PRO-2", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("other project error = %v, want ErrNotFound", err)
	}
}

func TestStore_SaveRejectsIncompleteEntries(t *testing.T) {
	t.Parallel()

	s := openTestStore(t, 0)
	for _, e := range []Entry{
		{UserID: "u", Token: "t"},
		{ProjectID: "p", Token: "t"},
		{ProjectID: "p", UserID: "u"},
	} {
		if err := s.Save(e); err == nil {
			t.Errorf("Save(%+v) succeeded", e)
		}
	}
}

func TestStore_TTL(t *testing.T) {
	t.Parallel()

	s := openTestStore(t, time.Hour)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	if err := s.Save(Entry{ProjectID: "PRO-1", UserID: "u", Token: "t"}); err != nil {
		t.Fatal(err)
	}

	s.now = func() time.Time { return base.Add(59 * time.Minute) }
	if _, err := s.Load("PRO-1", "u"); err != nil {
		t.Fatalf("Load() before expiry error = %v", err)
	}

	s.now = func() time.Time { return base.Add(time.Hour) }
	if _, err := s.Load("PRO-1", "u"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() after expiry error = %v, want ErrNotFound", err)
	}
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	s := openTestStore(t, 0)
	for _, uid := range []string{"alice", "bob"} {
		if err := s.Save(Entry{ProjectID: "PRO-1", UserID: uid, Token: "tok-" + uid}); err != nil {
			t.Fatal(err)
		}
	}

	// Deleting a non-current user keeps the current marker.
	if err := s.Delete("PRO-1", "alice"); err != nil {
		t.Fatalf("Delete(alice) error = %v", err)
	}
	if _, err := s.Load("PRO-1", "alice"); !errors.Is(err, ErrNotFound) {
		t.Errorf("alice still cached: %v", err)
	}
	if cur, err := s.Load("PRO-1", ""); err != nil || cur.UserID != "bob" {
		t.Fatalf("current = %+v, %v", cur, err)
	}

	if err := s.Delete("PRO-1", ""); err != nil {
		t.Fatalf("Delete(current) error = %v", err)
	}
	if _, err := s.Load("PRO-1", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("current still set: %v", err)
	}

	if err := s.Delete("PRO-1", ""); err != nil {
		t.Errorf("Delete() on empty project error = %v", err)
	}
	if err := s.Delete("PRO-1", "nobody"); err != nil {
		t.Errorf("Delete() of a missing user error = %v", err)
	}
}

func TestStore_Persistence(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tokens")
	s, err := Open(path, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(Entry{ProjectID: "PRO-1", UserID: "u", Token: "t"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := s.Save(Entry{ProjectID: "PRO-1", UserID: "u", Token: "t"}); !errors.Is(err, ErrClosed) {
		t.Errorf("Save() after Close error = %v, want ErrClosed", err)
	}
	if _, err := s.Load("PRO-1", ""); !errors.Is(err, ErrClosed) {
		t.Errorf("Load() after Close error = %v, want ErrClosed", err)
	}

	reopened, err := Open(path, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	got, err := reopened.Load("PRO-1", "")
	if err != nil || got.Token != "t" {
		t.Errorf("Load() after reopen = %+v, %v", got, err)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := openTestStore(t, time.Hour)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := s.Save(Entry{ProjectID: "PRO-1", UserID: "u", Token: "t"}); err != nil {
				t.Error(err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := s.Load("PRO-1", "u"); err != nil && !errors.Is(err, ErrNotFound) {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
}

// Reads global counters, so not parallel.
func TestStore_Metrics(t *testing.T) {
	saves := metrics.TokenCacheOperations.WithLabelValues("save", "success")
	misses := metrics.TokenCacheOperations.WithLabelValues("miss", "success")
	savesBefore, missesBefore := testutil.ToFloat64(saves), testutil.ToFloat64(misses)

	s := openTestStore(t, 0)
	if err := s.Save(Entry{ProjectID: "PRO-M", UserID: "u", Token: "t"}); err != nil {
		t.Fatal(err)
	}
	_, _ = s.Load("PRO-M", "other")

	if got := testutil.ToFloat64(saves); got != savesBefore+1 {
		t.Errorf("saves = %v, want %v", got, savesBefore+1)
	}
	if got := testutil.ToFloat64(misses); got != missesBefore+1 {
		t.Errorf("misses = %v, want %v", got, missesBefore+1)
	}
}
