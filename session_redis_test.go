package assistant

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/snowretail/cortex-assistant/config"
)

func newTestRedisStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisSessionStore(&config.SessionConfig{
		Store:      "redis",
		TTLSeconds: 60,
		Redis:      &config.RedisConfig{Addr: mr.Addr()},
	})
	if err != nil {
		t.Fatalf("create redis store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newTestRedisStore(t)
	s := store.Create()
	got, ok := store.Get(s.ID)
	if !ok {
		t.Fatalf("session not found after create")
	}
	if got.State != StateEmpty {
		t.Fatalf("state = %s, want %s", got.State, StateEmpty)
	}

	_ = got.BeginTurn("q1")
	got.CompleteTurn("a1", []string{"Doc A"})
	if !store.Update(got) {
		t.Fatalf("update failed")
	}

	again, ok := store.Get(s.ID)
	if !ok || len(again.Turns) != 2 {
		t.Fatalf("turns not persisted: %+v", again)
	}
	if again.Turns[1].Sources[0] != "Doc A" {
		t.Fatalf("sources not persisted: %+v", again.Turns[1])
	}
	if again.State != StateReady {
		t.Fatalf("state not persisted: %s", again.State)
	}
}

func TestRedisStoreDelete(t *testing.T) {
	store, _ := newTestRedisStore(t)
	s := store.Create()
	if !store.Delete(s.ID) {
		t.Fatalf("delete failed")
	}
	if _, ok := store.Get(s.ID); ok {
		t.Fatalf("session still present after delete")
	}
	if store.Delete(s.ID) {
		t.Fatalf("double delete must report false")
	}
}

func TestRedisStoreUpdateUnknownSession(t *testing.T) {
	store, _ := newTestRedisStore(t)
	if store.Update(&Session{ID: "ghost"}) {
		t.Fatalf("update of unknown session must fail")
	}
}

func TestRedisStoreTTLExpiry(t *testing.T) {
	store, mr := newTestRedisStore(t)
	s := store.Create()
	mr.FastForward(2 * time.Minute)
	if _, ok := store.Get(s.ID); ok {
		t.Fatalf("session should have expired")
	}
}

func TestRedisStoreClean(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ids := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		ids = append(ids, store.Create().ID)
	}
	if err := store.Clean(2); err != nil {
		t.Fatalf("clean: %v", err)
	}
	remaining := 0
	for _, id := range ids {
		if _, ok := store.Get(id); ok {
			remaining++
		}
	}
	if remaining != 2 {
		t.Fatalf("clean kept %d sessions, want 2", remaining)
	}
}

func TestRedisStoreListRange(t *testing.T) {
	store, _ := newTestRedisStore(t)
	for i := 0; i < 4; i++ {
		store.Create()
	}
	if n := len(store.ListRange(0, 2)); n != 2 {
		t.Fatalf("range(0,2) = %d", n)
	}
	if n := len(store.ListRange(0, 0)); n != 0 {
		t.Fatalf("range(0,0) = %d", n)
	}
}
