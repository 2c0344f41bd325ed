package docstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	s, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	return s
}

// TestSQLiteStore_CRUD tests the create/list/update/delete cycle on SQLite.
func TestSQLiteStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Create(ctx, "courses", map[string]any{
		"title":     "A",
		"createdAt": time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	docs, err := s.List(ctx, "courses", "createdAt")
	if err != nil || len(docs) != 1 {
		t.Fatalf("list: %v, %d docs", err, len(docs))
	}
	if docs[0].ID != id || docs[0].Fields["title"] != "A" {
		t.Errorf("unexpected doc: %+v", docs[0])
	}

	if err := s.Update(ctx, "courses", id, map[string]any{"title": "B"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.Delete(ctx, "courses", id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	docs, _ = s.List(ctx, "courses", "")
	if len(docs) != 0 {
		t.Error("document still listed after delete")
	}
}

// TestSQLiteStore_ListOrder tests newest-first ordering by the JSON timestamp field.
func TestSQLiteStore_ListOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := s.Create(ctx, "courses", map[string]any{"n": i, "createdAt": base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	docs, err := s.List(ctx, "courses", "createdAt")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// JSON numbers decode as float64.
	if docs[0].Fields["n"].(float64) != 2 || docs[2].Fields["n"].(float64) != 0 {
		t.Errorf("not newest-first: %v %v %v", docs[0].Fields["n"], docs[1].Fields["n"], docs[2].Fields["n"])
	}
}

// TestSQLiteStore_UpdateMissing tests ErrNotFound for a vanished ID.
func TestSQLiteStore_UpdateMissing(t *testing.T) {
	s := newTestStore(t)
	err := s.Update(context.Background(), "courses", "ghost", map[string]any{"title": "X"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

// TestSQLiteStore_DeleteMissing tests that deleting an absent ID succeeds.
func TestSQLiteStore_DeleteMissing(t *testing.T) {
	s := newTestStore(t)
	if err := s.Delete(context.Background(), "courses", "ghost"); err != nil {
		t.Errorf("delete of absent ID must succeed, got %v", err)
	}
}

// TestSQLiteStore_CollectionsIsolated tests that collections do not leak into each other.
func TestSQLiteStore_CollectionsIsolated(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if _, err := s.Create(ctx, "courses", map[string]any{"title": "A"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	docs, err := s.List(ctx, "users/u1/profiles", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected empty collection, got %d docs", len(docs))
	}
}
