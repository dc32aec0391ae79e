package session

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/zenvy/zenvy-sales-bot/pkg/logging"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStore(client, logging.Default()), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	sess := New("919800000001", time.Now())
	sess.Stage = StageBudget
	sess.WebsiteType = "business"
	sess.Pages = "Home,About"

	if err := store.Upsert(ctx, sess); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := store.Get(ctx, "919800000001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Stage != StageBudget || got.Pages != "Home,About" {
		t.Fatalf("unexpected session: %#v", got)
	}
}

func TestRedisStore_GetAbsent(t *testing.T) {
	store, _ := newTestRedisStore(t)

	got, err := store.Get(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for absent phone, got %#v", got)
	}
}

func TestRedisStore_DeleteThenGetAbsent(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, New("919800000001", time.Now())); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.Delete(ctx, "919800000001"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := store.Get(ctx, "919800000001")
	if err != nil || got != nil {
		t.Fatalf("expected absent session after delete, got %#v err=%v", got, err)
	}

	// deleting again must not error
	if err := store.Delete(ctx, "919800000001"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestRedisStore_ConcurrentUpsertsSingleRow(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
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

func TestRedisStore_ListSkipsUndecodableRows(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, New("919800000001", time.Now())); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	mr.Set("session:corrupt", "{not json")

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all[0].Phone != "919800000001" {
		t.Fatalf("expected only the decodable row, got %#v", all)
	}
}
