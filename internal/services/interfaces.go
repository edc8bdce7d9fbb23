package services

import (
	"context"
	"time"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/domain"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/metrics"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/repository/sqlite"
)

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

// TimeRange is a half-open window [Start, End).
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// StartRequest asks to open a timer. A nil SubtaskID tracks the whole card.
type StartRequest struct {
	UserID    int64  `json:"user_id"`
	CardID    int64  `json:"card_id"`
	SubtaskID *int64 `json:"subtask_id,omitempty"`
}

// IsSubtask reports whether the request targets a subtask timer.
func (r StartRequest) IsSubtask() bool {
	return r.SubtaskID != nil
}

// StopRequest asks to close a running entry. Description, when set, is
// recorded on the requested entry only.
type StopRequest struct {
	EntryID     int64   `json:"entry_id"`
	Description *string `json:"description,omitempty"`
}

// StopResult lists every entry closed by one stop. The requested entry comes
// first, followed by subtask entries closed with it. All share one EndTime.
type StopResult struct {
	Closed []*domain.TimeEntry `json:"closed"`
}

// Requested returns the entry the stop was issued for.
func (r *StopResult) Requested() *domain.TimeEntry {
	if r == nil || len(r.Closed) == 0 {
		return nil
	}
	return r.Closed[0]
}

// WatchResult reports the effect of a subtask status change on its card.
type WatchResult struct {
	Subtask    domain.Subtask    `json:"subtask"`
	CardStatus domain.CardStatus `json:"card_status"`
	Changed    bool              `json:"changed"`
}

// TimerService starts and stops timers under the tracking rules
type TimerService interface {
	RequestStart(ctx context.Context, req StartRequest) (*domain.TimeEntry, error)
	RequestStop(ctx context.Context, req StopRequest) (*StopResult, error)

	// Closed-entry maintenance
	EditDescription(ctx context.Context, entryID int64, description *string) (*domain.TimeEntry, error)
	DeleteEntry(ctx context.Context, entryID int64) error

	// Snapshots for presentation
	OpenEntries(ctx context.Context, userID int64) (domain.OpenEntries, error)
	History(ctx context.Context, cardID int64) ([]*domain.TimeEntry, error)
}

// DurationService aggregates recorded time and formats it for display
type DurationService interface {
	TotalMinutes(ctx context.Context, cardID int64) (int64, error)
	TotalMinutesForUser(ctx context.Context, cardID, userID int64) (int64, error)
	TotalMinutesInWindow(ctx context.Context, cardID int64, window TimeRange) (int64, error)
	ActiveTimerCount(ctx context.Context, userID int64) (int, error)

	// Display helpers; nothing here is persisted
	Elapsed(entry *domain.TimeEntry) time.Duration
	FormatMinutes(minutes int64) string
	FormatElapsed(entry *domain.TimeEntry) string
	StartedAgo(entry *domain.TimeEntry) string
}

// CompletionWatcher moves a card to review once all of its subtasks are done
type CompletionWatcher interface {
	OnSubtaskStatusChanged(ctx context.Context, subtaskID int64, newStatus domain.SubtaskStatus) (bool, error)
	SetSubtaskStatus(ctx context.Context, subtaskID int64, status domain.SubtaskStatus) (*WatchResult, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TimerService      TimerService
	DurationService   DurationService
	CompletionWatcher CompletionWatcher
}

// NewServiceContainer wires the services over one repository. A nil clock
// uses time.Now; nil metrics records nothing.
func NewServiceContainer(repo sqlite.Repository, m *metrics.Metrics, clock Clock) *ServiceContainer {
	if clock == nil {
		clock = time.Now
	}
	return &ServiceContainer{
		TimerService:      NewTimerService(repo, m, clock),
		DurationService:   NewDurationService(repo, clock),
		CompletionWatcher: NewCompletionWatcher(repo, m),
	}
}
