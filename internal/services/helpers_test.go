package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/metrics"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/repository/sqlite"
)

var t0 = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

// fakeClock is a settable clock safe for concurrent use.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	repo     *sqlite.SQLiteRepository
	clock    *fakeClock
	metrics  *metrics.Metrics
	services *ServiceContainer
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	clock := newFakeClock(t0)
	m := metrics.New()
	return &testEnv{
		repo:     repo,
		clock:    clock,
		metrics:  m,
		services: NewServiceContainer(repo, m, clock.Now),
	}
}

// seedCard creates a card with the given subtask statuses.
func (e *testEnv) seedCard(t *testing.T, cardStatus string, subtaskStatuses ...string) (int64, []int64) {
	t.Helper()
	ctx := context.Background()

	card := &sqlite.Card{Title: "Checkout flow", Status: cardStatus}
	require.NoError(t, e.repo.CreateCard(ctx, card))

	ids := make([]int64, 0, len(subtaskStatuses))
	for _, status := range subtaskStatuses {
		s := &sqlite.Subtask{CardID: card.ID, Title: "step", Status: status}
		require.NoError(t, e.repo.CreateSubtask(ctx, s))
		ids = append(ids, s.ID)
	}
	return card.ID, ids
}

func int64Ptr(v int64) *int64 {
	return &v
}

func stringPtr(s string) *string {
	return &s
}
