package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Record(ctx, Entry{
		Operation: "update",
		Total:     10,
		Succeeded: 8,
		Failed:    2,
		Duration:  1500 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if id == "" {
		t.Error("Record should assign an ID")
	}

	entries, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	e := entries[0]
	if e.ID != id {
		t.Errorf("ID = %q, want %q", e.ID, id)
	}
	if e.Operation != "update" || e.Total != 10 || e.Succeeded != 8 || e.Failed != 2 {
		t.Errorf("entry = %+v", e)
	}
	if e.Duration != 1500*time.Millisecond {
		t.Errorf("Duration = %v, want 1.5s", e.Duration)
	}
	if e.StartedAt.IsZero() {
		t.Error("StartedAt should be filled")
	}
}

func TestRecent_NewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := s.Record(ctx, Entry{
			Operation: fmt.Sprintf("op-%d", i),
			Total:     1,
			Succeeded: 1,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	entries, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].Operation != "op-2" || entries[2].Operation != "op-0" {
		t.Errorf("entries not newest first: %s, %s, %s",
			entries[0].Operation, entries[1].Operation, entries[2].Operation)
	}
}

func TestRecent_Limit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := s.Record(ctx, Entry{Operation: "delete", Total: 1, Succeeded: 1}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	entries, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}

	// limit <= 0 falls back to the default of 20.
	entries, err = s.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 5 {
		t.Errorf("got %d entries, want 5", len(entries))
	}
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "audit.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if _, err := s.Record(context.Background(), Entry{Operation: "create", Total: 1, Succeeded: 1}); err != nil {
		t.Errorf("Record after nested Open failed: %v", err)
	}
}

func TestOpen_FailurePropagates(t *testing.T) {
	orig := openDB
	openDB = func(driver, dsn string) (*sql.DB, error) {
		return nil, errors.New("disk on fire")
	}
	defer func() { openDB = orig }()

	_, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err == nil {
		t.Fatal("expected error when the database cannot be opened")
	}
	if !strings.Contains(err.Error(), "opening audit database") {
		t.Errorf("error = %v, want open-database context", err)
	}
}
