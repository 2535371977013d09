package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statematch/statematch/internal/store"
)

func TestValidate_TextPass(t *testing.T) {
	stdout, _, err := execute(t, "validate", "testdata/verifier.json", "testdata/observed.json")
	require.NoError(t, err)

	assert.Contains(t, stdout, "✔ Matched mutation: INSERT on users")
	assert.Contains(t, stdout, "✔ Matched return_value:")
	assert.Contains(t, stdout, "Result: PASS (2/2)")
}

func TestValidate_TextFail_ExitsZero(t *testing.T) {
	stdout, _, err := execute(t, "validate", "testdata/verifier.json", "testdata/observed_fail.json")
	require.NoError(t, err, "failed checks are findings, not command errors")

	assert.Contains(t, stdout, "✘ No match for mutation: INSERT on users")
	assert.Contains(t, stdout, "✘ No match for return_value:")
	assert.Contains(t, stdout, "Result: FAIL (0/2)")
}

func TestValidate_JSON(t *testing.T) {
	stdout, _, err := execute(t, "--format", "json", "validate", "testdata/verifier.json", "testdata/observed.json")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Result          bool            `json:"result"`
			TotalVerifiers  int             `json:"totalVerifiers"`
			PassedVerifiers int             `json:"passedVerifiers"`
			Verifiers       json.RawMessage `json:"verifiers"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Result)
	assert.Equal(t, 2, resp.Data.TotalVerifiers)
	assert.Equal(t, 2, resp.Data.PassedVerifiers)
	assert.NotEmpty(t, resp.Data.Verifiers)
}

func TestValidate_MissingFile(t *testing.T) {
	_, _, err := execute(t, "validate", "testdata/absent.json", "testdata/observed.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidate_MalformedVerifier(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, _, err := execute(t, "validate", path, "testdata/observed.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidate_UnsupportedType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wrong_type.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"screenshot_match"}`), 0o644))

	_, _, err := execute(t, "validate", path, "testdata/observed.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidate_RecordsRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	_, stderr, err := execute(t, "-v", "validate", "--db", dbPath,
		"testdata/verifier.json", "testdata/observed.json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "recorded run")

	s, err := store.Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].Result)
	assert.Equal(t, 2, runs[0].Total)
	assert.Equal(t, 2, runs[0].Passed)
}
