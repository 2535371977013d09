package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statematch/statematch/internal/engine"
	"github.com/statematch/statematch/internal/store"
)

func seedRuns(t *testing.T, dbPath string, count int) []string {
	t.Helper()

	s, err := store.Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	report := &engine.Report{Success: true, Total: 0, Passed: 0}

	var ids []string
	for i := 0; i < count; i++ {
		id, err := s.SaveRun(context.Background(), []byte(`{}`), report)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestRuns_Empty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	stdout, _, err := execute(t, "runs", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No runs recorded.")
}

func TestRuns_ListsNewestFirst(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	ids := seedRuns(t, dbPath, 2)

	stdout, _, err := execute(t, "runs", "--db", dbPath)
	require.NoError(t, err)

	assert.Contains(t, stdout, ids[0])
	assert.Contains(t, stdout, ids[1])
	assert.Contains(t, stdout, "PASS")
	assert.Less(t, strings.Index(stdout, ids[1]), strings.Index(stdout, ids[0]), "newest run listed first")
}

func TestRuns_Limit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	ids := seedRuns(t, dbPath, 3)

	stdout, _, err := execute(t, "runs", "--db", dbPath, "--limit", "1")
	require.NoError(t, err)

	assert.Contains(t, stdout, ids[2])
	assert.NotContains(t, stdout, ids[0])
}

func TestRuns_RequiresDB(t *testing.T) {
	_, _, err := execute(t, "runs")
	assert.Error(t, err)
}
