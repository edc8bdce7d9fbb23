package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/metrics"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/repository/sqlite"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/services"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/validation"
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

type testServer struct {
	server  *Server
	repo    *sqlite.SQLiteRepository
	clock   *testClock
	metrics *metrics.Metrics
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	clock := &testClock{now: t0}
	m := metrics.New()
	svc := services.NewServiceContainer(repo, m, clock.Now)

	return &testServer{
		server:  NewServer(svc, validation.NewValidator(), m, gin.TestMode),
		repo:    repo,
		clock:   clock,
		metrics: m,
	}
}

func (ts *testServer) seedCard(t *testing.T, cardStatus string, subtaskStatuses ...string) (int64, []int64) {
	t.Helper()
	ctx := context.Background()

	card := &sqlite.Card{Title: "Payments page", Status: cardStatus}
	require.NoError(t, ts.repo.CreateCard(ctx, card))

	ids := make([]int64, 0, len(subtaskStatuses))
	for _, status := range subtaskStatuses {
		s := &sqlite.Subtask{CardID: card.ID, Title: "task", Status: status}
		require.NoError(t, ts.repo.CreateSubtask(ctx, s))
		ids = append(ids, s.ID)
	}
	return card.ID, ids
}

// do sends a request as userID (0 sends no user header) and returns the recorder.
func (ts *testServer) do(t *testing.T, method, path string, userID int64, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		req.Header.Set(HeaderUserID, strconv.FormatInt(userID, 10))
	}

	w := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	RequestID string `json:"request_id"`
}

func startCard(t *testing.T, ts *testServer, userID, cardID int64) entryResponse {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/timers", userID, gin.H{"card_id": cardID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[entryResponse](t, w)
}

func startSubtask(t *testing.T, ts *testServer, userID, cardID, subtaskID int64) entryResponse {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/timers", userID, gin.H{"card_id": cardID, "subtask_id": subtaskID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[entryResponse](t, w)
}

func entryPath(id int64, suffix string) string {
	return "/api/entries/" + strconv.FormatInt(id, 10) + suffix
}

func timerStopPath(id int64) string {
	return "/api/timers/" + strconv.FormatInt(id, 10) + "/stop"
}

func cardPath(id int64, suffix string) string {
	return "/api/cards/" + strconv.FormatInt(id, 10) + suffix
}

func subtaskStatusPath(id int64) string {
	return "/api/subtasks/" + strconv.FormatInt(id, 10) + "/status"
}

type entriesEnvelope struct {
	Entries []entryResponse `json:"entries"`
}
