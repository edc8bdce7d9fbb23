package web

import (
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/domain"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/errors"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/services"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/validation"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleStartTimer opens a card or subtask timer for the acting user
func (s *Server) handleStartTimer(c *gin.Context) {
	var req validation.StartTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.NewInvalidInputError("body", nil, "malformed JSON"))
		return
	}
	if err := s.validator.ValidateStart(&req); err != nil {
		writeError(c, err)
		return
	}

	entry, err := s.timers.RequestStart(c.Request.Context(), services.StartRequest{
		UserID:    currentUserID(c),
		CardID:    req.CardID,
		SubtaskID: req.SubtaskID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, s.toEntryResponse(entry))
}

// handleStopTimer closes an entry; the body is optional
func (s *Server) handleStopTimer(c *gin.Context) {
	entryID, ok := s.entryIDParam(c)
	if !ok {
		return
	}

	var req validation.StopTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil && !stderrors.Is(err, io.EOF) {
		writeError(c, errors.NewInvalidInputError("body", nil, "malformed JSON"))
		return
	}
	if err := s.validator.ValidateStop(&req); err != nil {
		writeError(c, err)
		return
	}

	res, err := s.timers.RequestStop(c.Request.Context(), services.StopRequest{
		EntryID:     entryID,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, s.toStopResponse(res))
}

func (s *Server) handleActiveTimers(c *gin.Context) {
	open, err := s.timers.OpenEntries(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := activeResponse{
		SubtaskEntries: s.toEntryResponses(open.SubtaskEntries),
		ActiveCount:    open.Count(),
	}
	if open.CardEntry != nil {
		card := s.toEntryResponse(open.CardEntry)
		resp.CardEntry = &card
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCardEntries(c *gin.Context) {
	cardID, ok := idParam(c, "card_id")
	if !ok {
		return
	}

	entries, err := s.timers.History(c.Request.Context(), cardID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": s.toEntryResponses(entries)})
}

// handleCardTotal sums closed minutes on a card, optionally for one user
// (user_id) or inside a window (from, to as RFC 3339).
func (s *Server) handleCardTotal(c *gin.Context) {
	cardID, ok := idParam(c, "card_id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	resp := totalResponse{CardID: cardID}

	var (
		minutes int64
		err     error
	)
	from, to := c.Query("from"), c.Query("to")
	switch {
	case c.Query("user_id") != "":
		userID, perr := strconv.ParseInt(c.Query("user_id"), 10, 64)
		if perr != nil || userID <= 0 {
			writeError(c, errors.NewInvalidInputError("user_id", c.Query("user_id"), "must be a positive integer"))
			return
		}
		resp.UserID = &userID
		minutes, err = s.durations.TotalMinutesForUser(ctx, cardID, userID)
	case from != "" || to != "":
		window, werr := parseWindow(from, to)
		if werr != nil {
			writeError(c, werr)
			return
		}
		minutes, err = s.durations.TotalMinutesInWindow(ctx, cardID, window)
	default:
		minutes, err = s.durations.TotalMinutes(ctx, cardID)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	resp.Minutes = minutes
	resp.Formatted = s.durations.FormatMinutes(minutes)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleEditEntry(c *gin.Context) {
	entryID, ok := s.entryIDParam(c)
	if !ok {
		return
	}

	var req validation.EditDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.NewInvalidInputError("body", nil, "malformed JSON"))
		return
	}
	if err := s.validator.ValidateEdit(&req); err != nil {
		writeError(c, err)
		return
	}

	entry, err := s.timers.EditDescription(c.Request.Context(), entryID, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, s.toEntryResponse(entry))
}

func (s *Server) handleDeleteEntry(c *gin.Context) {
	entryID, ok := s.entryIDParam(c)
	if !ok {
		return
	}

	if err := s.timers.DeleteEntry(c.Request.Context(), entryID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// handleSubtaskStatus updates a subtask and reports whether its card moved to review
func (s *Server) handleSubtaskStatus(c *gin.Context) {
	subtaskID, ok := idParam(c, "subtask_id")
	if !ok {
		return
	}

	var req validation.SubtaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.NewInvalidInputError("body", nil, "malformed JSON"))
		return
	}
	if err := s.validator.ValidateSubtaskStatus(&req); err != nil {
		writeError(c, err)
		return
	}

	res, err := s.watcher.SetSubtaskStatus(c.Request.Context(), subtaskID, domain.SubtaskStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, subtaskStatusResponse{
		SubtaskID:  res.Subtask.ID,
		Status:     res.Subtask.Status,
		CardID:     res.Subtask.CardID,
		CardStatus: res.CardStatus,
		Changed:    res.Changed,
	})
}

func (s *Server) entryIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err == nil {
		err = s.validator.ValidateEntryID(id)
	} else {
		err = errors.NewInvalidInputError("entry_id", c.Param("id"), "must be a positive integer")
	}
	if err != nil {
		writeError(c, err)
		return 0, false
	}
	return id, true
}

func idParam(c *gin.Context, field string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, errors.NewInvalidInputError(field, c.Param("id"), "must be a positive integer"))
		return 0, false
	}
	return id, true
}

func parseWindow(from, to string) (services.TimeRange, error) {
	if from == "" || to == "" {
		return services.TimeRange{}, errors.NewInvalidInputError("window", from+".."+to, "both from and to are required")
	}
	start, err := time.Parse(time.RFC3339, from)
	if err != nil {
		return services.TimeRange{}, errors.NewInvalidInputError("from", from, "must be an RFC 3339 timestamp")
	}
	end, err := time.Parse(time.RFC3339, to)
	if err != nil {
		return services.TimeRange{}, errors.NewInvalidInputError("to", to, "must be an RFC 3339 timestamp")
	}
	return services.TimeRange{Start: start, End: end}, nil
}
