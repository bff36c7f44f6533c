package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/evyataryagoni/geoconsole/internal/geo"
)

// setupRedisStore starts miniredis and connects a store to it
func setupRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	s, err := NewRedisStore(mr.Addr(), "", 0, ttl)
	if err != nil {
		t.Fatalf("failed to connect to Redis: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s, mr
}

// TestRedisStore_ConnectionFailure tests connection errors
func TestRedisStore_ConnectionFailure(t *testing.T) {
	_, err := NewRedisStore("invalid:9999", "", 0, time.Hour)

	if err == nil {
		t.Error("expected connection error, got nil")
	}
}

// TestRedisStore_SaveGet tests a save/load round trip through JSON
func TestRedisStore_SaveGet(t *testing.T) {
	s, mr := setupRedisStore(t, time.Hour)
	ctx := context.Background()

	sess := sampleSession("s1", 12)
	sess.Records[1].Coordinates = geo.StringBBox("[(1, 2), (3, 4)]")
	sess.Records[2].Coordinates = geo.PairsOf([2]float64{0, 0}, [2]float64{5, 5})
	sess.Page.GoTo(2)

	if err := s.Save(ctx, sess); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mr.Exists("session:s1") {
		t.Fatal("expected key session:s1 to exist")
	}

	loaded, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded.Records) != 12 {
		t.Fatalf("expected 12 records, got %d", len(loaded.Records))
	}
	if loaded.Page.CurrentPage != 2 || loaded.Page.TotalItems != 12 {
		t.Errorf("unexpected page state: %+v", loaded.Page)
	}
	if loaded.Records[1].Coordinates.Kind != geo.KindStringBBox {
		t.Errorf("expected string bbox, got %s", loaded.Records[1].Coordinates.Kind)
	}
	if got := geo.Format(loaded.Records[2].Coordinates); got != "0.000000,0.000000 5.000000,5.000000" {
		t.Errorf("unexpected formatted pairs: %s", got)
	}
	if !loaded.Queried {
		t.Error("expected queried flag to survive")
	}
}

// TestRedisStore_NotFound tests missing sessions
func TestRedisStore_NotFound(t *testing.T) {
	s, _ := setupRedisStore(t, time.Hour)

	sess, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if sess != nil {
		t.Error("expected nil session")
	}
}

// TestRedisStore_TTL tests that sessions expire
func TestRedisStore_TTL(t *testing.T) {
	s, mr := setupRedisStore(t, time.Minute)
	ctx := context.Background()

	s.Save(ctx, sampleSession("s1", 1))

	if ttl := mr.TTL("session:s1"); ttl != time.Minute {
		t.Errorf("expected TTL 1m, got %v", ttl)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := s.Get(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected expired session to be missing, got %v", err)
	}
}

// TestRedisStore_CorruptValue tests decode failures
func TestRedisStore_CorruptValue(t *testing.T) {
	s, mr := setupRedisStore(t, 0)

	mr.Set("session:bad", "not json")

	_, err := s.Get(context.Background(), "bad")
	if err == nil || errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected decode error, got %v", err)
	}
}

// TestRedisStore_Delete tests removal
func TestRedisStore_Delete(t *testing.T) {
	s, mr := setupRedisStore(t, 0)
	ctx := context.Background()

	s.Save(ctx, sampleSession("s1", 1))
	if err := s.Delete(ctx, "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mr.Exists("session:s1") {
		t.Error("expected key to be deleted")
	}
}

// TestRedisStore_ServerDown tests errors once Redis goes away
func TestRedisStore_ServerDown(t *testing.T) {
	s, mr := setupRedisStore(t, 0)
	mr.Close()

	_, err := s.Get(context.Background(), "s1")
	if err == nil || errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected connection error, got %v", err)
	}
}

// TestRedisStore_Close_NilClient tests close with nil client
func TestRedisStore_Close_NilClient(t *testing.T) {
	s := &RedisStore{}

	if err := s.Close(); err != nil {
		t.Errorf("expected no error for nil client, got: %v", err)
	}
}
