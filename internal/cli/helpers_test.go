package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/config"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/repository/sqlite"
)

var t0 = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testApp struct {
	*App
	out   *bytes.Buffer
	clock *testClock
}

// setupTestApp builds an App over an in-memory database with a pinned clock
func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	repo, err := config.CreateTestRepository()
	require.NoError(t, err)

	clock := &testClock{now: t0}
	previous := timeNow
	timeNow = clock.Now
	t.Cleanup(func() {
		timeNow = previous
		repo.Close()
	})

	out := &bytes.Buffer{}
	app := NewApp(repo, config.NewConfig())
	app.SetOutput(out)
	app.SetUser(7)

	return &testApp{App: app, out: out, clock: clock}
}

// run executes a command and returns its output
func (ta *testApp) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ta.out.Reset()
	err := ta.Run(context.Background(), args)
	return ta.out.String(), err
}

// mustRun executes a command that is expected to succeed
func (ta *testApp) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := ta.run(t, args...)
	require.NoError(t, err)
	return out
}

func (ta *testApp) seedCard(t *testing.T, cardStatus string, subtaskStatuses ...string) (int64, []int64) {
	t.Helper()
	ctx := context.Background()

	card := &sqlite.Card{Title: "Release notes", Status: cardStatus}
	require.NoError(t, ta.repo.CreateCard(ctx, card))

	ids := make([]int64, 0, len(subtaskStatuses))
	for _, status := range subtaskStatuses {
		s := &sqlite.Subtask{CardID: card.ID, Title: "section", Status: status}
		require.NoError(t, ta.repo.CreateSubtask(ctx, s))
		ids = append(ids, s.ID)
	}
	return card.ID, ids
}
