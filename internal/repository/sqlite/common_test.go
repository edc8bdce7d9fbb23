package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/errors"
)

// MockResult implements sql.Result for testing
type MockResult struct {
	lastInsertID int64
	rowsAffected int64
	insertErr    error
	rowsErr      error
}

func (mr *MockResult) LastInsertId() (int64, error) {
	return mr.lastInsertID, mr.insertErr
}

func (mr *MockResult) RowsAffected() (int64, error) {
	return mr.rowsAffected, mr.rowsErr
}

func TestHandleDatabaseError(t *testing.T) {
	originalErr := errors.New("database connection failed")
	result := HandleDatabaseError("test operation", originalErr)

	assert.True(t, apperrors.IsErrorType(result, apperrors.ErrorTypeDatabase))
	assert.Contains(t, result.Error(), "test operation")
	assert.Contains(t, result.Error(), "database connection failed")
}

func TestHandleDatabaseError_Deadline(t *testing.T) {
	result := HandleDatabaseError("sum time entries", fmt.Errorf("query: %w", context.DeadlineExceeded))

	assert.True(t, apperrors.IsErrorType(result, apperrors.ErrorTypeTimeout))
}

func TestHandleNoRowsError(t *testing.T) {
	tests := []struct {
		name           string
		inputErr       error
		expectNotFound bool
	}{
		{
			name:           "ErrNoRows should return NotFoundError",
			inputErr:       sql.ErrNoRows,
			expectNotFound: true,
		},
		{
			name:           "Other error should return as-is",
			inputErr:       errors.New("some other error"),
			expectNotFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := HandleNoRowsError(tt.inputErr, "time entry", "123")

			if tt.expectNotFound {
				assert.Contains(t, result.Error(), "not found")
				assert.Contains(t, result.Error(), "time entry")
				assert.Contains(t, result.Error(), "123")
			} else {
				assert.Equal(t, tt.inputErr, result)
			}
		})
	}
}

func TestValidateRowsAffected(t *testing.T) {
	tests := []struct {
		name           string
		result         sql.Result
		expectError    bool
		expectNotFound bool
	}{
		{
			name:   "Successful update",
			result: &MockResult{rowsAffected: 1},
		},
		{
			name:           "No rows affected",
			result:         &MockResult{rowsAffected: 0},
			expectError:    true,
			expectNotFound: true,
		},
		{
			name:        "Error getting rows affected",
			result:      &MockResult{rowsErr: errors.New("database error")},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateRowsAffected(tt.result, "time entry", "123")

			if !tt.expectError {
				assert.NoError(t, result)
				return
			}
			assert.Error(t, result)
			if tt.expectNotFound {
				assert.Contains(t, result.Error(), "not found")
			} else {
				assert.Contains(t, result.Error(), "database error")
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("no such table")))
	assert.True(t, IsUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: time_entries.user_id (2067)")))
}
