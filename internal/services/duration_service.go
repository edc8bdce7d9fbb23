package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/domain"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/errors"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/repository/sqlite"
)

// durationServiceImpl implements the DurationService interface
type durationServiceImpl struct {
	repo sqlite.Repository
	now  Clock
}

// NewDurationService creates a new DurationService instance
func NewDurationService(repo sqlite.Repository, clock Clock) DurationService {
	if clock == nil {
		clock = time.Now
	}
	return &durationServiceImpl{repo: repo, now: clock}
}

// TotalMinutes sums closed entries of the card, card and subtask timers combined
func (d *durationServiceImpl) TotalMinutes(ctx context.Context, cardID int64) (int64, error) {
	return d.repo.SumClosedMinutes(ctx, sqlite.SumFilter{CardID: cardID})
}

// TotalMinutesForUser sums the user's closed entries of the card
func (d *durationServiceImpl) TotalMinutesForUser(ctx context.Context, cardID, userID int64) (int64, error) {
	return d.repo.SumClosedMinutes(ctx, sqlite.SumFilter{CardID: cardID, UserID: &userID})
}

// TotalMinutesInWindow sums closed entries whose start time falls in
// [window.Start, window.End). Disjoint windows add up to their union.
func (d *durationServiceImpl) TotalMinutesInWindow(ctx context.Context, cardID int64, window TimeRange) (int64, error) {
	if window.End.Before(window.Start) {
		return 0, errors.NewInvalidInputError("window", window, "end is before start")
	}
	return d.repo.SumClosedMinutes(ctx, sqlite.SumFilter{
		CardID:      cardID,
		StartFrom:   &window.Start,
		StartBefore: &window.End,
	})
}

// ActiveTimerCount counts the user's running timers of both classes
func (d *durationServiceImpl) ActiveTimerCount(ctx context.Context, userID int64) (int, error) {
	return d.repo.CountOpen(ctx, userID)
}

// Elapsed is how long a running entry has been open. Closed entries report
// their recorded interval.
func (d *durationServiceImpl) Elapsed(entry *domain.TimeEntry) time.Duration {
	if entry == nil {
		return 0
	}
	return entry.Elapsed(d.now())
}

// FormatMinutes renders a minute count as "1h 30m" or "45m"
func (d *durationServiceImpl) FormatMinutes(minutes int64) string {
	if minutes <= 0 {
		return "0m"
	}

	hours := minutes / 60
	rest := minutes % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, rest)
	}
	return fmt.Sprintf("%dm", rest)
}

// FormatElapsed renders the entry's duration: the stored minutes once closed,
// a live "running for" value otherwise.
func (d *durationServiceImpl) FormatElapsed(entry *domain.TimeEntry) string {
	if entry == nil {
		return ""
	}
	if !entry.IsRunning() {
		return d.FormatMinutes(entry.Minutes())
	}
	minutes := int64(d.Elapsed(entry) / time.Minute)
	return fmt.Sprintf("running for %s", d.FormatMinutes(minutes))
}

// StartedAgo renders the entry's start relative to now, e.g. "5 minutes ago"
func (d *durationServiceImpl) StartedAgo(entry *domain.TimeEntry) string {
	if entry == nil {
		return ""
	}
	return humanize.RelTime(entry.StartTime, d.now(), "ago", "from now")
}
