package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newSessionStoreTest(t *testing.T) (*Store, *redis.Client, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStore(rdb, "")
	return store, rdb, mr, func() {
		rdb.Close()
		mr.Close()
	}
}

func testSession(key, userID, deviceID string) *Session {
	now := time.Now()
	return &Session{
		SessionKey:     key,
		UserID:         userID,
		DeviceID:       deviceID,
		Status:         StatusNormal,
		StartTime:      now.UnixMilli(),
		LastAccessTime: now.UnixMilli(),
		ExpireAt:       now.Add(time.Hour).UnixMilli(),
		Timeout:        (30 * time.Minute).Milliseconds(),
	}
}

func TestSaveGetRoundTrip(t *testing.T) {
	store, _, _, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()

	sess := testSession("u1:D1:abc", "u1", "D1")
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(ctx, sess.SessionKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UserID != "u1" || got.DeviceID != "D1" || got.Status != StatusNormal {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.ExpireAt != sess.ExpireAt || got.Timeout != sess.Timeout {
		t.Fatalf("temporal fields mismatch: %+v", got)
	}
}

func TestGetMissing(t *testing.T) {
	store, _, _, done := newSessionStoreTest(t)
	defer done()

	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteIdempotentAndIndexCleanup(t *testing.T) {
	store, rdb, _, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()

	sess := testSession("u1:D1:abc", "u1", "D1")
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := store.Delete(ctx, sess); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := store.Delete(ctx, sess); err != nil {
		t.Fatalf("second delete: %v", err)
	}

	if _, err := store.Get(ctx, sess.SessionKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected record gone, got %v", err)
	}

	exists, err := rdb.Exists(ctx, store.userKey("u1")).Result()
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists != 0 {
		t.Fatal("expected empty user index to be dropped")
	}
}

func TestDeleteKeepsSiblingIndexMembers(t *testing.T) {
	store, rdb, _, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()

	first := testSession("u1:D1:abc", "u1", "D1")
	second := testSession("u1:D2:def", "u1", "D2")
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("save first: %v", err)
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	if err := store.Delete(ctx, first); err != nil {
		t.Fatalf("delete: %v", err)
	}

	members, err := rdb.SMembers(ctx, store.userKey("u1")).Result()
	if err != nil {
		t.Fatalf("smembers: %v", err)
	}
	if len(members) != 1 || members[0] != second.SessionKey {
		t.Fatalf("expected sibling to remain, got %v", members)
	}
}

func TestRecordTTLTracksExpiry(t *testing.T) {
	store, _, mr, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()

	sess := testSession("u1:D1:abc", "u1", "D1")
	sess.ExpireAt = time.Now().Add(2 * time.Second).UnixMilli()
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	mr.FastForward(3 * time.Second)

	if _, err := store.Get(ctx, sess.SessionKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected record to expire out of the store, got %v", err)
	}
}

func TestListAllAndUserSessionKeys(t *testing.T) {
	store, _, _, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()

	for _, sess := range []*Session{
		testSession("u1:D1:abc", "u1", "D1"),
		testSession("u1:D2:def", "u1", "D2"),
		testSession("u2:D1:ghi", "u2", "D1"),
	} {
		if err := store.Save(ctx, sess); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	keys, err := store.UserSessionKeys(ctx, "u1")
	if err != nil {
		t.Fatalf("user session keys: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys for u1, got %v", keys)
	}

	all, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(all))
	}
}

func TestStoreUnavailableSentinel(t *testing.T) {
	store, _, mr, done := newSessionStoreTest(t)
	defer done()
	ctx := context.Background()

	mr.Close()

	if err := store.Save(ctx, testSession("u1:D1:abc", "u1", "D1")); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable on save, got %v", err)
	}
	if _, err := store.Get(ctx, "u1:D1:abc"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable on get, got %v", err)
	}
}
