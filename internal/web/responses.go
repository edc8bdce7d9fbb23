package web

import (
	"time"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/domain"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/services"
)

// entryResponse is the JSON shape of a time entry
type entryResponse struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"user_id"`
	CardID          int64      `json:"card_id"`
	SubtaskID       *int64     `json:"subtask_id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationMinutes *int64     `json:"duration_minutes"`
	Description     *string    `json:"description"`
	Running         bool       `json:"running"`
	Elapsed         string     `json:"elapsed,omitempty"`
	StartedAgo      string     `json:"started_ago,omitempty"`
}

func (s *Server) toEntryResponse(e *domain.TimeEntry) entryResponse {
	resp := entryResponse{
		ID:              e.ID,
		UserID:          e.UserID,
		CardID:          e.CardID,
		SubtaskID:       e.SubtaskID,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		DurationMinutes: e.DurationMinutes,
		Description:     e.Description,
		Running:         e.IsRunning(),
	}
	if resp.Running {
		resp.Elapsed = s.durations.FormatElapsed(e)
		resp.StartedAgo = s.durations.StartedAgo(e)
	}
	return resp
}

func (s *Server) toEntryResponses(entries []*domain.TimeEntry) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, s.toEntryResponse(e))
	}
	return out
}

// stopResponse lists every entry closed by a stop, the requested one first
type stopResponse struct {
	Closed []entryResponse `json:"closed"`
}

func (s *Server) toStopResponse(res *services.StopResult) stopResponse {
	return stopResponse{Closed: s.toEntryResponses(res.Closed)}
}

type activeResponse struct {
	CardEntry      *entryResponse  `json:"card_entry"`
	SubtaskEntries []entryResponse `json:"subtask_entries"`
	ActiveCount    int             `json:"active_count"`
}

type totalResponse struct {
	CardID    int64  `json:"card_id"`
	UserID    *int64 `json:"user_id,omitempty"`
	Minutes   int64  `json:"total_minutes"`
	Formatted string `json:"formatted"`
}

type subtaskStatusResponse struct {
	SubtaskID  int64                `json:"subtask_id"`
	Status     domain.SubtaskStatus `json:"status"`
	CardID     int64                `json:"card_id"`
	CardStatus domain.CardStatus    `json:"card_status"`
	Changed    bool                 `json:"changed"`
}
