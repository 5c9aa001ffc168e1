package audit

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

type memoryStore struct {
	entries []Entry
}

func (m *memoryStore) Save(_ context.Context, entry *Entry) error {
	entry.ID = uint(len(m.entries) + 1)
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryStore) List(_ context.Context, _ Filter) ([]Entry, int64, error) {
	return m.entries, int64(len(m.entries)), nil
}

func TestRecorder_Record_Success(t *testing.T) {
	store := &memoryStore{}
	rec := NewRecorder(store, slog.Default())

	ac := NewContext("admin1", 7, "10.0.0.9")
	ac.SetTarget(42, "alpha")
	ac.AddDetail("note", "suspicious")
	ctx := WithContext(context.Background(), ac)

	if err := rec.Record(ctx, "ip.block", func() error { return nil }); err != nil {
		t.Fatalf("record: %v", err)
	}

	if len(store.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(store.entries))
	}
	e := store.entries[0]
	if e.Action != "ip.block" || e.Actor != "admin1" || e.TargetUsername != "alpha" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.CorrelationID == "" {
		t.Fatal("expected correlation id")
	}
	if len(e.Details) == 0 {
		t.Fatal("expected details payload")
	}
}

func TestRecorder_Record_FailureWritesNothing(t *testing.T) {
	store := &memoryStore{}
	rec := NewRecorder(store, slog.Default())
	ctx := WithContext(context.Background(), NewContext("admin1", 7, "10.0.0.9"))

	wantErr := errors.New("boom")
	if err := rec.Record(ctx, "ip.block", func() error { return wantErr }); !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped operation error, got %v", err)
	}
	if len(store.entries) != 0 {
		t.Fatalf("expected no entries after failure, got %d", len(store.entries))
	}
}

func TestRecorder_Record_NoContext(t *testing.T) {
	store := &memoryStore{}
	rec := NewRecorder(store, slog.Default())

	if err := rec.Record(context.Background(), "ip.block", func() error { return nil }); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(store.entries) != 0 {
		t.Fatalf("expected no entries without audit context, got %d", len(store.entries))
	}
}

func TestContext_Isolation(t *testing.T) {
	a := NewContext("a", 1, "10.0.0.1")
	b := NewContext("b", 2, "10.0.0.2")
	if a.CorrelationID == b.CorrelationID {
		t.Fatal("expected distinct correlation ids")
	}

	ctxA := WithContext(context.Background(), a)
	ctxB := WithContext(context.Background(), b)
	if FromContext(ctxA) != a || FromContext(ctxB) != b {
		t.Fatal("contexts crossed")
	}
}
