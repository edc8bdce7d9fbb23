package services

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/domain"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/errors"
)

func TestCompletionWatcher_SetSubtaskStatus(t *testing.T) {
	tests := []struct {
		name             string
		cardStatus       string
		subtaskStatuses  []string
		target           int
		newStatus        domain.SubtaskStatus
		expectChanged    bool
		expectCardStatus domain.CardStatus
	}{
		{
			name:             "last subtask done moves card to review",
			cardStatus:       "todo",
			subtaskStatuses:  []string{"done", "done", "in_progress"},
			target:           2,
			newStatus:        domain.SubtaskStatusDone,
			expectChanged:    true,
			expectCardStatus: domain.CardStatusReview,
		},
		{
			name:             "in progress card moves to review",
			cardStatus:       "in_progress",
			subtaskStatuses:  []string{"todo"},
			target:           0,
			newStatus:        domain.SubtaskStatusDone,
			expectChanged:    true,
			expectCardStatus: domain.CardStatusReview,
		},
		{
			name:             "remaining open subtask keeps card status",
			cardStatus:       "todo",
			subtaskStatuses:  []string{"todo", "todo"},
			target:           0,
			newStatus:        domain.SubtaskStatusDone,
			expectCardStatus: domain.CardStatusTodo,
		},
		{
			name:             "done card is never altered",
			cardStatus:       "done",
			subtaskStatuses:  []string{"done", "in_progress"},
			target:           1,
			newStatus:        domain.SubtaskStatusDone,
			expectCardStatus: domain.CardStatusDone,
		},
		{
			name:             "review card stays in review",
			cardStatus:       "review",
			subtaskStatuses:  []string{"in_progress"},
			target:           0,
			newStatus:        domain.SubtaskStatusDone,
			expectCardStatus: domain.CardStatusReview,
		},
		{
			name:             "reopening a subtask never reverts the card",
			cardStatus:       "review",
			subtaskStatuses:  []string{"done", "done"},
			target:           0,
			newStatus:        domain.SubtaskStatusInProgress,
			expectCardStatus: domain.CardStatusReview,
		},
		{
			name:             "non-done status does nothing",
			cardStatus:       "todo",
			subtaskStatuses:  []string{"done", "todo"},
			target:           1,
			newStatus:        domain.SubtaskStatusInProgress,
			expectCardStatus: domain.CardStatusTodo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)
			ctx := context.Background()
			cardID, subtasks := env.seedCard(t, tt.cardStatus, tt.subtaskStatuses...)

			result, err := env.services.CompletionWatcher.SetSubtaskStatus(ctx, subtasks[tt.target], tt.newStatus)
			require.NoError(t, err)

			assert.Equal(t, tt.expectChanged, result.Changed)
			assert.Equal(t, tt.expectCardStatus, result.CardStatus)
			assert.Equal(t, tt.newStatus, result.Subtask.Status)

			card, err := env.repo.GetCard(ctx, cardID)
			require.NoError(t, err)
			assert.Equal(t, string(tt.expectCardStatus), card.Status)
		})
	}
}

func TestCompletionWatcher_RepeatedDoneIsIdempotent(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	cardID, subtasks := env.seedCard(t, "todo", "done", "done", "in_progress")
	watcher := env.services.CompletionWatcher

	first, err := watcher.SetSubtaskStatus(ctx, subtasks[2], domain.SubtaskStatusDone)
	require.NoError(t, err)
	assert.True(t, first.Changed)

	second, err := watcher.SetSubtaskStatus(ctx, subtasks[2], domain.SubtaskStatusDone)
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Equal(t, domain.CardStatusReview, second.CardStatus)

	changed, err := watcher.OnSubtaskStatusChanged(ctx, subtasks[2], domain.SubtaskStatusDone)
	require.NoError(t, err)
	assert.False(t, changed)

	card, err := env.repo.GetCard(ctx, cardID)
	require.NoError(t, err)
	assert.Equal(t, "review", card.Status)
	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.CardsMovedToReviewTotal))
}

func TestCompletionWatcher_OnSubtaskStatusChanged(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	cardID, subtasks := env.seedCard(t, "in_progress", "done", "done")

	// Status already written by the caller.
	changed, err := env.services.CompletionWatcher.OnSubtaskStatusChanged(ctx, subtasks[1], domain.SubtaskStatusDone)
	require.NoError(t, err)
	assert.True(t, changed)

	card, err := env.repo.GetCard(ctx, cardID)
	require.NoError(t, err)
	assert.Equal(t, "review", card.Status)
}

func TestCompletionWatcher_Errors(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	_, subtasks := env.seedCard(t, "todo", "todo")
	watcher := env.services.CompletionWatcher

	_, err := watcher.SetSubtaskStatus(ctx, 999, domain.SubtaskStatusDone)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	_, err = watcher.SetSubtaskStatus(ctx, subtasks[0], domain.SubtaskStatus("archived"))
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))

	_, err = watcher.OnSubtaskStatusChanged(ctx, 999, domain.SubtaskStatusDone)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestAllDone(t *testing.T) {
	assert.False(t, allDone(nil), "a card without subtasks never fires")
	assert.False(t, allDone([]domain.Subtask{{Status: domain.SubtaskStatusDone}, {Status: domain.SubtaskStatusTodo}}))
	assert.True(t, allDone([]domain.Subtask{{Status: domain.SubtaskStatusDone}, {Status: domain.SubtaskStatusDone}}))
}

func TestCompletionWatcher_DoneSubtaskKeepsRunningTimer(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	cardID, subtasks := env.seedCard(t, "todo", "todo")

	_, err := env.services.TimerService.RequestStart(ctx, StartRequest{UserID: 1, CardID: cardID})
	require.NoError(t, err)
	subEntry, err := env.services.TimerService.RequestStart(ctx, StartRequest{UserID: 1, CardID: cardID, SubtaskID: &subtasks[0]})
	require.NoError(t, err)

	_, err = env.services.CompletionWatcher.SetSubtaskStatus(ctx, subtasks[0], domain.SubtaskStatusDone)
	require.NoError(t, err)

	open, err := env.services.TimerService.OpenEntries(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, open.SubtaskEntry(subtasks[0]))
	assert.Equal(t, subEntry.ID, open.SubtaskEntry(subtasks[0]).ID)
}
