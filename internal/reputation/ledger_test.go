// Copyright (c) 2025-2026 PhishGuard
// Licensed under MIT — See LICENSE for terms.
package reputation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ChinmayIngle26/PhishGuard/internal/db"
	"github.com/ChinmayIngle26/PhishGuard/internal/models"
)

// memStore mirrors the real store's semantics: conditional create and
// atomic in-store increments.
type memStore struct {
	mu      sync.Mutex
	records map[string]*models.UserReputation
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]*models.UserReputation)}
}

func (m *memStore) EnsureReputation(ctx context.Context, uid string, email *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[uid]; exists {
		return nil
	}
	m.records[uid] = &models.UserReputation{UID: uid, Email: email}
	return nil
}

func (m *memStore) AddFeedback(ctx context.Context, uid string, points int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rep, exists := m.records[uid]
	if !exists {
		return db.ErrNotFound
	}
	rep.GuardPoints += int64(points)
	rep.FeedbackCount++
	return nil
}

func (m *memStore) GetReputation(ctx context.Context, uid string) (*models.UserReputation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rep, exists := m.records[uid]
	if !exists {
		return nil, db.ErrNotFound
	}
	copy := *rep
	return &copy, nil
}

func TestEnsureUserReputationCreatesOnce(t *testing.T) {
	store := newMemStore()
	ledger := New(store)
	ctx := context.Background()
	email := "user@example.com"

	if err := ledger.EnsureUserReputation(ctx, "u1", &email); err != nil {
		t.Fatalf("first ensure failed: %v", err)
	}
	if err := ledger.AddFeedback(ctx, "u1", FeedbackGood); err != nil {
		t.Fatalf("feedback failed: %v", err)
	}
	if err := ledger.EnsureUserReputation(ctx, "u1", &email); err != nil {
		t.Fatalf("second ensure failed: %v", err)
	}

	rep, err := ledger.GetUserReputation(ctx, "u1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if rep.GuardPoints != 10 {
		t.Errorf("re-ensure must not reset points, got %d", rep.GuardPoints)
	}
}

func TestEnsureUserReputationEmptyUID(t *testing.T) {
	ledger := New(newMemStore())

	err := ledger.EnsureUserReputation(context.Background(), "", nil)
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAddFeedbackPointValues(t *testing.T) {
	store := newMemStore()
	ledger := New(store)
	ctx := context.Background()

	if err := ledger.EnsureUserReputation(ctx, "u1", nil); err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if err := ledger.AddFeedback(ctx, "u1", FeedbackGood); err != nil {
		t.Fatalf("good feedback failed: %v", err)
	}
	if err := ledger.AddFeedback(ctx, "u1", FeedbackBad); err != nil {
		t.Fatalf("bad feedback failed: %v", err)
	}

	rep, _ := ledger.GetUserReputation(ctx, "u1")
	if rep.GuardPoints != 11 {
		t.Errorf("expected 11 points (10 good + 1 bad), got %d", rep.GuardPoints)
	}
	if rep.FeedbackCount != 2 {
		t.Errorf("expected feedback count 2, got %d", rep.FeedbackCount)
	}
}

func TestAddFeedbackInvalidType(t *testing.T) {
	store := newMemStore()
	ledger := New(store)
	ctx := context.Background()
	ledger.EnsureUserReputation(ctx, "u1", nil)

	err := ledger.AddFeedback(ctx, "u1", "excellent")
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	rep, _ := ledger.GetUserReputation(ctx, "u1")
	if rep.FeedbackCount != 0 {
		t.Error("invalid feedback must not be counted")
	}
}

func TestAddFeedbackWithoutRecord(t *testing.T) {
	store := newMemStore()
	ledger := New(store)

	err := ledger.AddFeedback(context.Background(), "ghost", FeedbackGood)
	if !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := ledger.GetUserReputation(context.Background(), "ghost"); !errors.Is(err, db.ErrNotFound) {
		t.Error("failed feedback must not create a record")
	}
}

func TestAddFeedbackConcurrent(t *testing.T) {
	store := newMemStore()
	ledger := New(store)
	ctx := context.Background()
	ledger.EnsureUserReputation(ctx, "u1", nil)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if err := ledger.AddFeedback(ctx, "u1", FeedbackGood); err != nil {
				t.Errorf("concurrent feedback failed: %v", err)
			}
		}()
	}
	wg.Wait()

	rep, err := ledger.GetUserReputation(ctx, "u1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if rep.GuardPoints != int64(10*n) {
		t.Errorf("expected %d points with no lost updates, got %d", 10*n, rep.GuardPoints)
	}
	if rep.FeedbackCount != int64(n) {
		t.Errorf("expected feedback count %d, got %d", n, rep.FeedbackCount)
	}
}

func TestGetUserReputationAbsent(t *testing.T) {
	ledger := New(newMemStore())

	_, err := ledger.GetUserReputation(context.Background(), "never-initialized")
	if !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for uninitialized user, got %v", err)
	}
}
