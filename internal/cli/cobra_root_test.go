package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/config"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/repository/sqlite"
)

// execRoot runs a fresh root command the way main does and returns its output
func execRoot(t *testing.T, open RepositoryOpener, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(open)
	out := &bytes.Buffer{}
	root.cmd.SetOut(out)
	root.cmd.SetErr(out)
	root.cmd.SetArgs(args)

	err := root.Execute(context.Background())
	return out.String(), err
}

func TestRootCommand_FileDatabase(t *testing.T) {
	dir := t.TempDir()
	db := []string{"--db-dir", dir, "--db-filename", "cli.db"}

	out, err := execRoot(t, nil, append(db, "seed", "Checkout page", "Form")...)
	require.NoError(t, err)
	assert.Equal(t, "Created card 1 with subtasks 1\n", out)

	out, err = execRoot(t, nil, append(db, "--user", "7", "start", "1")...)
	require.NoError(t, err)
	assert.Equal(t, "Started card timer #1 on card 1\n", out)

	t.Setenv("PMTIME_USER", "7")
	out, err = execRoot(t, nil, append(db, "start", "1", "1")...)
	require.NoError(t, err)
	assert.Equal(t, "Started subtask timer #2 on subtask 1 (card 1)\n", out)

	out, err = execRoot(t, nil, append(db, "active")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Card 1: entry #1")
	assert.Contains(t, out, "Subtask 1: entry #2")

	assert.FileExists(t, filepath.Join(dir, "cli.db"))
}

func TestRootCommand_ConfigSkipsRepository(t *testing.T) {
	opened := false
	open := func(*config.Config) (sqlite.Repository, error) {
		opened = true
		return nil, errors.New("should not open")
	}

	out, err := execRoot(t, open, "--addr", ":9191", "config")

	require.NoError(t, err)
	assert.False(t, opened)
	assert.Contains(t, out, ":9191")
	assert.Contains(t, out, "description_max_length: 1000")
}

func TestRootCommand_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display:\n  running_status: ongoing\nserver:\n  addr: \":7000\"\n"), 0o600))

	out, err := execRoot(t, nil, "--config", path, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "running_status: ongoing")
	assert.Contains(t, out, ":7000")

	_, err = execRoot(t, nil, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "config")
	assert.Error(t, err)
}

func TestRootCommand_Errors(t *testing.T) {
	failing := func(*config.Config) (sqlite.Repository, error) {
		return nil, errors.New("database is locked")
	}

	tests := []struct {
		name     string
		open     RepositoryOpener
		args     []string
		contains string
	}{
		{name: "repository failure", open: failing, args: []string{"active"}, contains: "database is locked"},
		{name: "too many arguments", args: []string{"--db-filename", ":memory:", "history", "1", "2"}, contains: "accepts 1 arg(s)"},
		{name: "invalid timeout", args: []string{"--app-timeout=-1s", "config"}, contains: "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execRoot(t, tt.open, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}
