package guard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type inMemoryStore struct {
	mu     sync.Mutex
	values map[string]string

	setErr error
}

func newInMemoryStore() *inMemoryStore {
	return &inMemoryStore{values: map[string]string{}}
}

func (s *inMemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	if !ok {
		return "", errors.New("redis: nil")
	}
	return value, nil
}

func (s *inMemoryStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if s.setErr != nil {
		return false, s.setErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.values[key]; exists {
		return false, nil
	}
	s.values[key] = fmt.Sprint(value)
	return true, nil
}

func (s *inMemoryStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("mc:idempotency:%s:%s", scope, id)
}

func (s *inMemoryStore) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func TestNewIdempotencyGuardValidation(t *testing.T) {
	if _, err := NewIdempotencyGuard(nil, time.Hour, "sales"); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := NewIdempotencyGuard(newInMemoryStore(), -time.Second, "sales"); err == nil {
		t.Fatal("expected error for negative ttl")
	}
	if _, err := NewIdempotencyGuard(newInMemoryStore(), time.Hour, ""); err == nil {
		t.Fatal("expected error for empty scope")
	}
}

func TestCheckAndMark(t *testing.T) {
	store := newInMemoryStore()
	g, err := NewIdempotencyGuard(store, time.Hour, "sales")
	if err != nil {
		t.Fatalf("unexpected guard error: %v", err)
	}

	duplicate, err := g.CheckAndMark(context.Background(), "evt_1")
	if err != nil {
		t.Fatalf("CheckAndMark error: %v", err)
	}
	if duplicate {
		t.Fatal("first delivery must not be a duplicate")
	}

	duplicate, err = g.CheckAndMark(context.Background(), "evt_1")
	if err != nil {
		t.Fatalf("CheckAndMark error: %v", err)
	}
	if !duplicate {
		t.Fatal("second delivery must be a duplicate")
	}
}

func TestDeleteAllowsRetry(t *testing.T) {
	store := newInMemoryStore()
	g, err := NewIdempotencyGuard(store, time.Hour, "sales")
	if err != nil {
		t.Fatalf("unexpected guard error: %v", err)
	}

	if _, err := g.CheckAndMark(context.Background(), "evt_retry"); err != nil {
		t.Fatalf("CheckAndMark error: %v", err)
	}
	if err := g.Delete(context.Background(), "evt_retry"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	duplicate, err := g.CheckAndMark(context.Background(), "evt_retry")
	if err != nil {
		t.Fatalf("CheckAndMark error: %v", err)
	}
	if duplicate {
		t.Fatal("deleted mark must allow the retry through")
	}
}

func TestCheckAndMarkPropagatesStoreError(t *testing.T) {
	store := newInMemoryStore()
	store.setErr = errors.New("connection refused")
	g, err := NewIdempotencyGuard(store, time.Hour, "sales")
	if err != nil {
		t.Fatalf("unexpected guard error: %v", err)
	}

	if _, err := g.CheckAndMark(context.Background(), "evt_err"); err == nil {
		t.Fatal("expected store error to propagate")
	}
}
