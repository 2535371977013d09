package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statematch/statematch/internal/engine"
	"github.com/statematch/statematch/internal/ir"
	"github.com/statematch/statematch/internal/verifier"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func testReport() *engine.Report {
	check := engine.CheckResult{
		Success:  true,
		Expected: verifier.ValueSpec(verifier.Literal{Value: ir.String("ok")}),
		Actual:   ir.Value(ir.String("ok")),
		Kind:     engine.CheckReturnValue,
	}
	return &engine.Report{
		Checks:  []engine.CheckResult{check},
		Success: true,
		Total:   1,
		Passed:  1,
	}
}

func TestOpen_AppliesPragmas(t *testing.T) {
	s := openTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	assert.NoError(t, second.Close())
}

func TestSaveRun_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	verifierJSON := []byte(`{"type":"state_mutation_match","state":{"mutations":[]},"return_value":"ok"}`)

	id, err := s.SaveRun(ctx, verifierJSON, testReport())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())

	run, err := s.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(verifierJSON), run.Verifier)
	assert.True(t, run.Result)
	assert.Equal(t, 1, run.Total)
	assert.Equal(t, 1, run.Passed)
	assert.NotEmpty(t, run.CreatedAt)
	assert.Contains(t, run.Report, `"result":true`)
}

func TestGetRun_Missing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetRun(context.Background(), "no-such-run")
	assert.Error(t, err)
}

func TestListRuns_NewestFirstWithLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := s.SaveRun(ctx, []byte(`{}`), testReport())
		require.NoError(t, err)
		ids = append(ids, id)
	}

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, ids[2], runs[0].ID, "UUIDv7 ids list newest first")
	assert.Equal(t, ids[0], runs[2].ID)

	limited, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
