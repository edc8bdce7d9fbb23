package validation

import (
	"strings"
)

// StartTimerRequest is the payload for starting a card or subtask timer
type StartTimerRequest struct {
	CardID    int64  `json:"card_id" validate:"required,gt=0"`
	SubtaskID *int64 `json:"subtask_id,omitempty" validate:"omitempty,gt=0"`
}

// StopTimerRequest is the payload for stopping a timer
type StopTimerRequest struct {
	Description *string `json:"description,omitempty" validate:"omitempty,description"`
}

// EditDescriptionRequest is the payload for editing a closed entry
type EditDescriptionRequest struct {
	Description *string `json:"description" validate:"omitempty,description"`
}

// SubtaskStatusRequest is the payload for changing a subtask status
type SubtaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=todo in_progress done"`
}

// TimeEntryValidator provides validation for timer and time entry requests
type TimeEntryValidator struct {
	validator *Validator
}

// NewTimeEntryValidator creates a new time entry validator
func NewTimeEntryValidator(v *Validator) *TimeEntryValidator {
	if v == nil {
		v = NewValidator()
	}
	return &TimeEntryValidator{validator: v}
}

// ValidateUserID validates the acting user's id
func (tev *TimeEntryValidator) ValidateUserID(userID int64) error {
	if !tev.validator.IsValidID(userID) {
		ve := NewValidationError()
		ve.AddError("user_id", ErrorTypeInvalidValue, "user_id must be a positive integer", userID)
		return ve
	}
	return nil
}

// ValidateEntryID validates a time entry id taken from a path or argument
func (tev *TimeEntryValidator) ValidateEntryID(entryID int64) error {
	if !tev.validator.IsValidID(entryID) {
		ve := NewValidationError()
		ve.AddError("entry_id", ErrorTypeInvalidValue, "entry_id must be a positive integer", entryID)
		return ve
	}
	return nil
}

// ValidateStart validates a start request
func (tev *TimeEntryValidator) ValidateStart(req *StartTimerRequest) error {
	return tev.validator.Struct(req)
}

// ValidateStop validates a stop request. Descriptions are trimmed and an
// empty one is dropped.
func (tev *TimeEntryValidator) ValidateStop(req *StopTimerRequest) error {
	req.Description = normalizeDescription(req.Description)
	return tev.validator.Struct(req)
}

// ValidateEdit validates a description edit. The field must be present; an
// empty value clears the description.
func (tev *TimeEntryValidator) ValidateEdit(req *EditDescriptionRequest) error {
	if req.Description == nil {
		ve := NewValidationError()
		ve.AddError("description", ErrorTypeRequired, "description is required", nil)
		return ve
	}
	req.Description = normalizeDescription(req.Description)
	return tev.validator.Struct(req)
}

// ValidateSubtaskStatus validates a subtask status change
func (tev *TimeEntryValidator) ValidateSubtaskStatus(req *SubtaskStatusRequest) error {
	req.Status = strings.TrimSpace(req.Status)
	return tev.validator.Struct(req)
}

func normalizeDescription(d *string) *string {
	if d == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*d)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
