package tools_test

import (
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codescanhq/codescan/internal/tools"
)

func TestRun(t *testing.T) {
	t.Parallel()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skipf("skipped, binary sh not available: %v", err)
	}

	t.Run("captures stdout and stderr", func(t *testing.T) {
		t.Parallel()
		res := tools.Run(t.Context(), tools.Command{
			Path: sh,
			Args: []string{"-c", "echo out; echo 1>&2 err"},
		})
		require.Equal(t, 0, res.ExitCode)
		require.False(t, res.TimedOut)
		require.Equal(t, "out\n", res.Stdout)
		require.Equal(t, "err\n", res.Stderr)
		require.Positive(t, res.Duration)
	})

	t.Run("keeps output on nonzero exit", func(t *testing.T) {
		t.Parallel()
		res := tools.Run(t.Context(), tools.Command{
			Path: sh,
			Args: []string{"-c", "echo findings; exit 3"},
		})
		require.Equal(t, 3, res.ExitCode)
		require.False(t, res.TimedOut)
		require.Equal(t, "findings\n", res.Stdout)
	})

	t.Run("timeout kills the process", func(t *testing.T) {
		t.Parallel()
		started := time.Now()
		res := tools.Run(t.Context(), tools.Command{
			Path:    sh,
			Args:    []string{"-c", "sleep 10"},
			Timeout: 100 * time.Millisecond,
		})
		require.Less(t, time.Since(started), 8*time.Second)
		require.True(t, res.TimedOut)
		require.Equal(t, -1, res.ExitCode)
		require.Empty(t, res.Stdout)
		require.Contains(t, res.Stderr, "timed out after")
	})

	t.Run("runs in the given directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		res := tools.Run(t.Context(), tools.Command{
			Path: sh,
			Args: []string{"-c", "pwd"},
			Dir:  dir,
		})
		require.Equal(t, 0, res.ExitCode)
		require.Equal(t, dir, strings.TrimSpace(res.Stdout))
	})
}

func TestRunMissingBinary(t *testing.T) {
	t.Parallel()
	res := tools.Run(t.Context(), tools.Command{
		Path: "definitely-not-installed-anywhere",
	})
	require.Equal(t, -1, res.ExitCode)
	require.False(t, res.TimedOut)
	require.Contains(t, res.Stderr, "executing command")
}
