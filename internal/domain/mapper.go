package domain

import (
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/repository/sqlite"
)

// TimeEntryMapper handles conversion between domain and database TimeEntry models.
type TimeEntryMapper struct{}

// NewTimeEntryMapper creates a new TimeEntryMapper instance.
func NewTimeEntryMapper() *TimeEntryMapper {
	return &TimeEntryMapper{}
}

// ToDatabase converts a domain TimeEntry to a database TimeEntry.
func (m *TimeEntryMapper) ToDatabase(domainEntry TimeEntry) sqlite.TimeEntry {
	return sqlite.TimeEntry{
		ID:              domainEntry.ID,
		UserID:          domainEntry.UserID,
		CardID:          domainEntry.CardID,
		SubtaskID:       domainEntry.SubtaskID,
		StartTime:       domainEntry.StartTime,
		EndTime:         domainEntry.EndTime,
		Description:     domainEntry.Description,
		DurationMinutes: domainEntry.DurationMinutes,
	}
}

// FromDatabase converts a database TimeEntry to a domain TimeEntry.
func (m *TimeEntryMapper) FromDatabase(dbEntry sqlite.TimeEntry) TimeEntry {
	return TimeEntry{
		ID:              dbEntry.ID,
		UserID:          dbEntry.UserID,
		CardID:          dbEntry.CardID,
		SubtaskID:       dbEntry.SubtaskID,
		StartTime:       dbEntry.StartTime,
		EndTime:         dbEntry.EndTime,
		Description:     dbEntry.Description,
		DurationMinutes: dbEntry.DurationMinutes,
	}
}

// FromDatabaseSlice converts database TimeEntries to domain TimeEntry pointers.
func (m *TimeEntryMapper) FromDatabaseSlice(dbEntries []*sqlite.TimeEntry) []*TimeEntry {
	domainEntries := make([]*TimeEntry, len(dbEntries))
	for i, entry := range dbEntries {
		e := m.FromDatabase(*entry)
		domainEntries[i] = &e
	}
	return domainEntries
}

// FromOpenEntries converts the store's open-entry snapshot.
func (m *TimeEntryMapper) FromOpenEntries(open sqlite.OpenEntries) OpenEntries {
	result := OpenEntries{
		SubtaskEntries: m.FromDatabaseSlice(open.SubtaskEntries),
	}
	if open.CardEntry != nil {
		e := m.FromDatabase(*open.CardEntry)
		result.CardEntry = &e
	}
	return result
}

// CardMapper handles conversion between domain and database Card models.
type CardMapper struct{}

// FromDatabase converts a database Card to a domain Card.
func (m *CardMapper) FromDatabase(dbCard sqlite.Card) Card {
	return Card{
		ID:     dbCard.ID,
		Title:  dbCard.Title,
		Status: CardStatus(dbCard.Status),
	}
}

// SubtaskMapper handles conversion between domain and database Subtask models.
type SubtaskMapper struct{}

// FromDatabase converts a database Subtask to a domain Subtask.
func (m *SubtaskMapper) FromDatabase(dbSubtask sqlite.Subtask) Subtask {
	return Subtask{
		ID:     dbSubtask.ID,
		CardID: dbSubtask.CardID,
		Title:  dbSubtask.Title,
		Status: SubtaskStatus(dbSubtask.Status),
	}
}

// FromDatabaseSlice converts database Subtasks to domain Subtasks.
func (m *SubtaskMapper) FromDatabaseSlice(dbSubtasks []*sqlite.Subtask) []Subtask {
	subtasks := make([]Subtask, len(dbSubtasks))
	for i, s := range dbSubtasks {
		subtasks[i] = m.FromDatabase(*s)
	}
	return subtasks
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	TimeEntry *TimeEntryMapper
	Card      *CardMapper
	Subtask   *SubtaskMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		TimeEntry: NewTimeEntryMapper(),
		Card:      &CardMapper{},
		Subtask:   &SubtaskMapper{},
	}
}
