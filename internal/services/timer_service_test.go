package services

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/errors"
)

func TestTimerService_RequestStart(t *testing.T) {
	tests := []struct {
		name           string
		build          func(t *testing.T, env *testEnv) StartRequest
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name: "should open a card timer",
			build: func(t *testing.T, env *testEnv) StartRequest {
				cardID, _ := env.seedCard(t, "todo")
				return StartRequest{UserID: 1, CardID: cardID}
			},
		},
		{
			name: "should open a subtask timer under the tracked card",
			build: func(t *testing.T, env *testEnv) StartRequest {
				cardID, subtasks := env.seedCard(t, "todo", "todo")
				_, err := env.services.TimerService.RequestStart(context.Background(), StartRequest{UserID: 1, CardID: cardID})
				require.NoError(t, err)
				return StartRequest{UserID: 1, CardID: cardID, SubtaskID: &subtasks[0]}
			},
		},
		{
			name: "should return not found for unknown card",
			build: func(t *testing.T, env *testEnv) StartRequest {
				return StartRequest{UserID: 1, CardID: 999}
			},
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
			},
		},
		{
			name: "should return not found for unknown subtask",
			build: func(t *testing.T, env *testEnv) StartRequest {
				cardID, _ := env.seedCard(t, "todo")
				return StartRequest{UserID: 1, CardID: cardID, SubtaskID: int64Ptr(999)}
			},
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
			},
		},
		{
			name: "should reject a subtask that belongs to another card",
			build: func(t *testing.T, env *testEnv) StartRequest {
				cardID, _ := env.seedCard(t, "todo")
				_, otherSubtasks := env.seedCard(t, "todo", "todo")
				return StartRequest{UserID: 1, CardID: cardID, SubtaskID: &otherSubtasks[0]}
			},
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
			},
		},
		{
			name: "should reject non-positive user id",
			build: func(t *testing.T, env *testEnv) StartRequest {
				cardID, _ := env.seedCard(t, "todo")
				return StartRequest{UserID: 0, CardID: cardID}
			},
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)
			req := tt.build(t, env)

			entry, err := env.services.TimerService.RequestStart(context.Background(), req)

			if tt.errorAssertion != nil {
				assert.Error(t, err)
				tt.errorAssertion(t, err)
				assert.Nil(t, entry)
				return
			}
			require.NoError(t, err)
			assert.Greater(t, entry.ID, int64(0))
			assert.True(t, entry.IsRunning())
			assert.Equal(t, req.SubtaskID, entry.SubtaskID)
			assert.True(t, t0.Equal(entry.StartTime))
		})
	}
}

func TestTimerService_SubtaskWithoutCardTimer(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	cardID, subtasks := env.seedCard(t, "todo", "todo")

	_, err := env.services.TimerService.RequestStart(ctx, StartRequest{UserID: 1, CardID: cardID, SubtaskID: &subtasks[0]})

	assert.True(t, errors.IsErrorType(err, errors.ErrorTypePrerequisite))
	assert.Contains(t, errors.GetUserMessage(err), "start card tracking first")
	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.TimerStartsTotal.WithLabelValues("subtask", "PREREQUISITE_NOT_MET")))

	count, err := env.services.DurationService.ActiveTimerCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestTimerService_PrerequisiteIsPerUser(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	cardID, subtasks := env.seedCard(t, "todo", "todo")

	// User 2 tracking the card does not satisfy user 1's prerequisite.
	_, err := env.services.TimerService.RequestStart(ctx, StartRequest{UserID: 2, CardID: cardID})
	require.NoError(t, err)

	_, err = env.services.TimerService.RequestStart(ctx, StartRequest{UserID: 1, CardID: cardID, SubtaskID: &subtasks[0]})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypePrerequisite))

	// Both users may track the same card and subtask independently.
	_, err = env.services.TimerService.RequestStart(ctx, StartRequest{UserID: 1, CardID: cardID})
	require.NoError(t, err)
	_, err = env.services.TimerService.RequestStart(ctx, StartRequest{UserID: 1, CardID: cardID, SubtaskID: &subtasks[0]})
	require.NoError(t, err)
	_, err = env.services.TimerService.RequestStart(ctx, StartRequest{UserID: 2, CardID: cardID, SubtaskID: &subtasks[0]})
	require.NoError(t, err)
}

func TestTimerService_SecondCardConflicts(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	card1, _ := env.seedCard(t, "todo")
	card2, _ := env.seedCard(t, "todo")

	first, err := env.services.TimerService.RequestStart(ctx, StartRequest{UserID: 1, CardID: card1})
	require.NoError(t, err)

	env.clock.Advance(3 * time.Minute)
	_, err = env.services.TimerService.RequestStart(ctx, StartRequest{UserID: 1, CardID: card2})

	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeConflict))
	assert.Contains(t, errors.GetUserMessage(err), "card 1")

	open, err := env.services.TimerService.OpenEntries(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, open.CardEntry)
	assert.Equal(t, first.ID, open.CardEntry.ID)
	assert.True(t, open.CardEntry.IsRunning())
	assert.True(t, t0.Equal(open.CardEntry.StartTime))
}

func TestTimerService_SameSubtaskTwiceConflicts(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	cardID, subtasks := env.seedCard(t, "todo", "todo")

	_, err := env.services.TimerService.RequestStart(ctx, StartRequest{UserID: 1, CardID: cardID})
	require.NoError(t, err)
	_, err = env.services.TimerService.RequestStart(ctx, StartRequest{UserID: 1, CardID: cardID, SubtaskID: &subtasks[0]})
	require.NoError(t, err)

	_, err = env.services.TimerService.RequestStart(ctx, StartRequest{UserID: 1, CardID: cardID, SubtaskID: &subtasks[0]})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeConflict))
	assert.Contains(t, err.Error(), "subtask")
}

func TestTimerService_CardStopCascades(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	cardID, subtasks := env.seedCard(t, "todo", "todo", "todo")
	timers := env.services.TimerService

	cardEntry, err := timers.RequestStart(ctx, StartRequest{UserID: 1, CardID: cardID})
	require.NoError(t, err)

	env.clock.Advance(5 * time.Minute)
	subEntry, err := timers.RequestStart(ctx, StartRequest{UserID: 1, CardID: cardID, SubtaskID: &subtasks[0]})
	require.NoError(t, err)

	env.clock.Advance(2 * time.Minute)
	otherSub, err := timers.RequestStart(ctx, StartRequest{UserID: 1, CardID: cardID, SubtaskID: &subtasks[1]})
	require.NoError(t, err)

	// Another user's subtask timer under the same card is not touched.
	_, err = timers.RequestStart(ctx, StartRequest{UserID: 2, CardID: cardID})
	require.NoError(t, err)
	foreign, err := timers.RequestStart(ctx, StartRequest{UserID: 2, CardID: cardID, SubtaskID: &subtasks[0]})
	require.NoError(t, err)

	env.clock.Advance(13 * time.Minute)
	result, err := timers.RequestStop(ctx, StopRequest{EntryID: cardEntry.ID, Description: stringPtr("checkout form")})
	require.NoError(t, err)

	require.Len(t, result.Closed, 3)
	assert.Equal(t, cardEntry.ID, result.Requested().ID)
	end := t0.Add(20 * time.Minute)
	for _, c := range result.Closed {
		require.NotNil(t, c.EndTime)
		assert.True(t, end.Equal(*c.EndTime), "all closed entries share one end time")
	}
	assert.Equal(t, int64(20), result.Closed[0].Minutes())
	assert.Equal(t, "checkout form", *result.Closed[0].Description)
	assert.Equal(t, subEntry.ID, result.Closed[1].ID)
	assert.Equal(t, int64(15), result.Closed[1].Minutes())
	assert.Nil(t, result.Closed[1].Description)
	assert.Equal(t, otherSub.ID, result.Closed[2].ID)
	assert.Equal(t, int64(13), result.Closed[2].Minutes())

	open, err := timers.OpenEntries(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, open.Count())

	open, err = timers.OpenEntries(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, open.SubtaskEntry(subtasks[0]))
	assert.Equal(t, foreign.ID, open.SubtaskEntry(subtasks[0]).ID)

	assert.Equal(t, float64(2), testutil.ToFloat64(env.metrics.CascadeClosedTotal))
}

func TestTimerService_SubtaskStopIsIndependent(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	cardID, subtasks := env.seedCard(t, "todo", "todo", "todo")
	timers := env.services.TimerService

	cardEntry, err := timers.RequestStart(ctx, StartRequest{UserID: 1, CardID: cardID})
	require.NoError(t, err)
	first, err := timers.RequestStart(ctx, StartRequest{UserID: 1, CardID: cardID, SubtaskID: &subtasks[0]})
	require.NoError(t, err)
	second, err := timers.RequestStart(ctx, StartRequest{UserID: 1, CardID: cardID, SubtaskID: &subtasks[1]})
	require.NoError(t, err)

	env.clock.Advance(10 * time.Minute)
	result, err := timers.RequestStop(ctx, StopRequest{EntryID: first.ID})
	require.NoError(t, err)
	require.Len(t, result.Closed, 1)
	assert.Equal(t, int64(10), result.Closed[0].Minutes())

	open, err := timers.OpenEntries(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, open.CardEntry)
	assert.Equal(t, cardEntry.ID, open.CardEntry.ID)
	require.Len(t, open.SubtaskEntries, 1)
	assert.Equal(t, second.ID, open.SubtaskEntries[0].ID)
}

func TestTimerService_RestartImmediatelyAfterStop(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	cardID, _ := env.seedCard(t, "todo")
	timers := env.services.TimerService

	entry, err := timers.RequestStart(ctx, StartRequest{UserID: 1, CardID: cardID})
	require.NoError(t, err)
	_, err = timers.RequestStop(ctx, StopRequest{EntryID: entry.ID})
	require.NoError(t, err)

	again, err := timers.RequestStart(ctx, StartRequest{UserID: 1, CardID: cardID})
	require.NoError(t, err)
	assert.NotEqual(t, entry.ID, again.ID)
}

func TestTimerService_RequestStop_Errors(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	cardID, _ := env.seedCard(t, "todo")
	timers := env.services.TimerService

	_, err := timers.RequestStop(ctx, StopRequest{EntryID: 999})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	entry, err := timers.RequestStart(ctx, StartRequest{UserID: 1, CardID: cardID})
	require.NoError(t, err)
	_, err = timers.RequestStop(ctx, StopRequest{EntryID: entry.ID})
	require.NoError(t, err)

	_, err = timers.RequestStop(ctx, StopRequest{EntryID: entry.ID})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeAlreadyClosed))
	assert.Contains(t, errors.GetUserMessage(err), "refresh")
}

func TestTimerService_StopUnderHalfMinute(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	cardID, _ := env.seedCard(t, "todo")

	entry, err := env.services.TimerService.RequestStart(ctx, StartRequest{UserID: 1, CardID: cardID})
	require.NoError(t, err)

	env.clock.Advance(20 * time.Second)
	result, err := env.services.TimerService.RequestStop(ctx, StopRequest{EntryID: entry.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Closed[0].Minutes())
}

func TestTimerService_EditAndDelete(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	cardID, _ := env.seedCard(t, "todo")
	timers := env.services.TimerService

	entry, err := timers.RequestStart(ctx, StartRequest{UserID: 1, CardID: cardID})
	require.NoError(t, err)

	_, err = timers.EditDescription(ctx, entry.ID, stringPtr("early"))
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidState))
	err = timers.DeleteEntry(ctx, entry.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidState))

	env.clock.Advance(45 * time.Minute)
	_, err = timers.RequestStop(ctx, StopRequest{EntryID: entry.ID})
	require.NoError(t, err)

	edited, err := timers.EditDescription(ctx, entry.ID, stringPtr("pairing session"))
	require.NoError(t, err)
	assert.Equal(t, "pairing session", *edited.Description)
	assert.Equal(t, int64(45), edited.Minutes())

	require.NoError(t, timers.DeleteEntry(ctx, entry.ID))

	history, err := timers.History(ctx, cardID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestTimerService_History(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	cardID, subtasks := env.seedCard(t, "todo", "todo")
	timers := env.services.TimerService

	cardEntry, err := timers.RequestStart(ctx, StartRequest{UserID: 1, CardID: cardID})
	require.NoError(t, err)
	env.clock.Advance(time.Minute)
	subEntry, err := timers.RequestStart(ctx, StartRequest{UserID: 1, CardID: cardID, SubtaskID: &subtasks[0]})
	require.NoError(t, err)

	history, err := timers.History(ctx, cardID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, cardEntry.ID, history[0].ID)
	assert.Equal(t, subEntry.ID, history[1].ID)
	assert.True(t, history[1].IsRunning())
}
