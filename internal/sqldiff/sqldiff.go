package sqldiff

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os/exec"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/statematch/statematch/internal/diff"
)

// DefaultTool is the sqldiff binary resolved from PATH when no override
// is given.
const DefaultTool = "sqldiff"

// DefaultTimeout bounds a single tool invocation.
const DefaultTimeout = 30 * time.Second

// Runner invokes the sqldiff tool against two database files.
type Runner struct {
	// Tool is the sqldiff executable. Empty means DefaultTool.
	Tool string

	// Timeout bounds each invocation. Zero means DefaultTimeout.
	Timeout time.Duration
}

// New returns a Runner with defaults.
func New() *Runner {
	return &Runner{Tool: DefaultTool, Timeout: DefaultTimeout}
}

func (r *Runner) tool() string {
	if r.Tool == "" {
		return DefaultTool
	}
	return r.Tool
}

func (r *Runner) timeout() time.Duration {
	if r.Timeout <= 0 {
		return DefaultTimeout
	}
	return r.Timeout
}

// Diff runs the tool and returns its raw SQL output. Both paths must be
// readable SQLite databases; that is checked up front so a bad path fails
// with a clear error instead of whatever the tool prints.
func (r *Runner) Diff(ctx context.Context, beforePath, afterPath string) (string, error) {
	if err := VerifyDatabase(beforePath); err != nil {
		return "", fmt.Errorf("before database: %w", err)
	}
	if err := VerifyDatabase(afterPath); err != nil {
		return "", fmt.Errorf("after database: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()

	cmd := exec.CommandContext(ctx, r.tool(), beforePath, afterPath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%s timed out after %s", r.tool(), r.timeout())
		}
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) > 0 {
			return "", fmt.Errorf("%s: %w: %s", r.tool(), err, msg)
		}
		return "", fmt.Errorf("%s: %w", r.tool(), err)
	}

	return stdout.String(), nil
}

// Mutations diffs the two databases and parses the resulting statements.
func (r *Runner) Mutations(ctx context.Context, beforePath, afterPath string) (diff.ParseResult, error) {
	text, err := r.Diff(ctx, beforePath, afterPath)
	if err != nil {
		return diff.ParseResult{}, err
	}
	return diff.Parse(text), nil
}

// VerifyDatabase checks that path is a readable SQLite database. The file
// is opened read-only so verification never creates or touches it.
func VerifyDatabase(path string) error {
	dsn := fmt.Sprintf("file:%s?mode=ro", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("not a readable database %s: %w", path, err)
	}

	// Ping alone accepts any file; reading the schema forces SQLite to
	// actually parse the header.
	var count int
	if err := db.QueryRow("SELECT count(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("not a valid SQLite database %s: %w", path, err)
	}

	return nil
}
