package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	return s, path
}

func TestStore_RecordAndRecent(t *testing.T) {
	s, _ := openTestStore(t)
	defer s.Close()

	first := NewRun("30 min", 1800).Finish(OutcomeCanceled)
	second := NewRun("10 sec", 10).Finish(OutcomeCompleted)
	require.NoError(t, s.Record(first))
	require.NoError(t, s.Record(second))

	runs, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, OutcomeCompleted, runs[0].Outcome)
	assert.Equal(t, first.ID, runs[1].ID)
	assert.Equal(t, "30 min", runs[1].Selection)
	assert.Equal(t, 1800, runs[1].Seconds)

	runs, err = s.Recent(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, second.ID, runs[0].ID)
}

func TestStore_RejectsUnfinishedRun(t *testing.T) {
	s, _ := openTestStore(t)
	defer s.Close()

	assert.Error(t, s.Record(NewRun("1 hrs", 3600)))
}

func TestStore_Reopen(t *testing.T) {
	s, path := openTestStore(t)
	run := NewRun("2 hrs", 7200).Finish(OutcomeCompleted)
	require.NoError(t, s.Record(run))
	require.NoError(t, s.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.Recent(5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.False(t, runs[0].EndedAt.Before(runs[0].StartedAt))
}

func TestNewRun(t *testing.T) {
	a := NewRun("15 min", 900)
	b := NewRun("15 min", 900)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Empty(t, a.Outcome)
	assert.True(t, a.EndedAt.IsZero())
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join("cfg", "sleeptimer", "history.db"), DefaultPath(filepath.Join("cfg", "sleeptimer", "settings.yaml")))
}
