package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

type mockKeyer struct{}

func (mockKeyer) SessionKey(accessID string) string {
	return "session:" + accessID
}

func newTestManager(store *mockStore) *Manager {
	return &Manager{store: store, keyer: mockKeyer{}, ttl: time.Hour}
}

func TestOpenAndHasSession(t *testing.T) {
	t.Parallel()

	mgr := newTestManager(newMockStore())
	accessID := NewAccessID()

	if err := mgr.Open(context.Background(), accessID, uuid.New()); err != nil {
		t.Fatalf("open: %v", err)
	}

	ok, err := mgr.HasSession(context.Background(), accessID)
	if err != nil || !ok {
		t.Fatalf("expected active session, got ok=%v err=%v", ok, err)
	}

	ok, err = mgr.HasSession(context.Background(), NewAccessID())
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if ok {
		t.Fatal("unknown access id must not have a session")
	}
}

func TestRevokeSession(t *testing.T) {
	t.Parallel()

	mgr := newTestManager(newMockStore())
	accessID := NewAccessID()

	if err := mgr.Open(context.Background(), accessID, uuid.New()); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := mgr.Revoke(context.Background(), accessID); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	ok, err := mgr.HasSession(context.Background(), accessID)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if ok {
		t.Fatal("revoked session must be gone")
	}
}

func TestOpenRequiresAccessID(t *testing.T) {
	t.Parallel()

	mgr := newTestManager(newMockStore())
	if err := mgr.Open(context.Background(), "  ", uuid.New()); err == nil {
		t.Fatal("expected error for blank access id")
	}
}
