package session

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestInMemoryStore_GetAbsent(t *testing.T) {
	store := NewInMemoryStore()

	sess, err := store.Get(context.Background(), "919800000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess != nil {
		t.Fatalf("expected nil for unseen phone, got %#v", sess)
	}
}

func TestInMemoryStore_UpsertOverwrites(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	first := New("919800000001", time.Now())
	if err := store.Upsert(ctx, first); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	second := New("919800000001", time.Now())
	second.Stage = StagePages
	second.WebsiteType = "business"
	if err := store.Upsert(ctx, second); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one row after overwrite, got %d", len(all))
	}
	if all[0].Stage != StagePages || all[0].WebsiteType != "business" {
		t.Fatalf("expected overwritten session, got %#v", all[0])
	}
}

func TestInMemoryStore_DeleteAbsentIsNoop(t *testing.T) {
	store := NewInMemoryStore()
	if err := store.Delete(context.Background(), "unknown"); err != nil {
		t.Fatalf("expected no-op delete, got %v", err)
	}
}

func TestInMemoryStore_ConcurrentUpsertsSingleRow(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Upsert(ctx, New("919800000001", time.Now()))
		}()
	}
	wg.Wait()

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected a single row for the phone, got %d", len(all))
	}
}

func TestStage_Valid(t *testing.T) {
	for _, stage := range []Stage{StageStart, StageType, StagePages, StageBudget, StagePayment} {
		if !stage.Valid() {
			t.Errorf("expected %q to be valid", stage)
		}
	}
	if Stage("paid").Valid() {
		t.Error("expected unknown stage to be invalid")
	}
}

func TestSession_LastActivity(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	sess := New("919800000001", now)

	got, err := sess.LastActivity()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !got.Equal(now) {
		t.Fatalf("expected %s, got %s", now, got)
	}

	sess.UpdatedAt = "yesterday-ish"
	if _, err := sess.LastActivity(); err == nil {
		t.Fatal("expected error for unparsable timestamp")
	}
}
