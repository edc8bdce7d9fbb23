package domain

// CardStatus is the workflow status of a card.
type CardStatus string

const (
	CardStatusTodo       CardStatus = "todo"
	CardStatusInProgress CardStatus = "in_progress"
	CardStatusReview     CardStatus = "review"
	CardStatusDone       CardStatus = "done"
)

// IsValid reports whether s is a known card status.
func (s CardStatus) IsValid() bool {
	switch s {
	case CardStatusTodo, CardStatusInProgress, CardStatusReview, CardStatusDone:
		return true
	}
	return false
}

// SubtaskStatus is the workflow status of a subtask.
type SubtaskStatus string

const (
	SubtaskStatusTodo       SubtaskStatus = "todo"
	SubtaskStatusInProgress SubtaskStatus = "in_progress"
	SubtaskStatusDone       SubtaskStatus = "done"
)

// IsValid reports whether s is a known subtask status.
func (s SubtaskStatus) IsValid() bool {
	switch s {
	case SubtaskStatusTodo, SubtaskStatusInProgress, SubtaskStatusDone:
		return true
	}
	return false
}

// Card is the slice of a board card this module reads and writes.
// Everything but Status belongs to the CRUD layer.
type Card struct {
	ID     int64
	Title  string
	Status CardStatus
}

// Subtask belongs to exactly one card.
type Subtask struct {
	ID     int64
	CardID int64
	Title  string
	Status SubtaskStatus
}

// IsDone reports whether the subtask is completed.
func (s Subtask) IsDone() bool {
	return s.Status == SubtaskStatusDone
}
