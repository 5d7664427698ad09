// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

//go:build unix

package ffmpeg

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ManuGH/framegrab/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRunCapturesStdout(t *testing.T) {
	useFakeFFprobe(t, "echo hello")

	out, err := run(context.Background(), ToolFFprobe, nil, false, 0)
	require.NoError(t, err)
	require.Equal(t, "hello\n", string(out))
}

func TestRunNonZeroExitTruncatesStderr(t *testing.T) {
	// 2000 characters of diagnostics; only the first 500 may survive.
	useFakeFFprobe(t, "head -c 2000 /dev/zero | tr '\\0' 'e' >&2\nexit 3")

	_, err := run(context.Background(), ToolFFprobe, nil, true, 0)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 3, exitErr.Code)
	require.Len(t, exitErr.Stderr, maxStderrChars)
}

func TestRunToolNotFound(t *testing.T) {
	t.Setenv(config.EnvFFprobeBin, "/nonexistent/framegrab-test-tool")

	_, err := run(context.Background(), ToolFFprobe, nil, false, 0)
	require.ErrorIs(t, err, ErrToolNotFound)
}

func TestRunDrainsBothStreamsWithoutDeadlock(t *testing.T) {
	// Well past the 64 KiB pipe buffer on both streams: draining only one
	// would hang the child forever.
	const chunk = 256 * 1024
	useFakeFFprobe(t,
		"head -c 262144 /dev/zero\nhead -c 262144 /dev/zero >&2")

	out, err := run(context.Background(), ToolFFprobe, nil, true, 0)
	require.NoError(t, err)
	require.Len(t, out, chunk)
}

func TestRunUncapturedStderrIsDiscarded(t *testing.T) {
	// The child floods stderr while nobody reads it; with the pipe replaced
	// by the null device it must still finish.
	useFakeFFprobe(t, "head -c 262144 /dev/zero >&2\necho ok")

	out, err := run(context.Background(), ToolFFprobe, nil, false, 0)
	require.NoError(t, err)
	require.Equal(t, "ok\n", string(out))
}

func TestRunTimeoutReportsWithoutKilling(t *testing.T) {
	useFakeFFprobe(t, "sleep 0.4")

	start := time.Now()
	_, err := run(context.Background(), ToolFFprobe, nil, false, 100*time.Millisecond)
	require.ErrorIs(t, err, ErrTimeout)
	require.Less(t, time.Since(start), 300*time.Millisecond)

	// The child was not killed; let it exit so the reaper goroutine drains
	// before leak verification.
	time.Sleep(500 * time.Millisecond)
}

func TestRunContextCancellation(t *testing.T) {
	useFakeFFprobe(t, "sleep 0.3")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := run(ctx, ToolFFprobe, nil, false, 0)
	require.ErrorIs(t, err, context.Canceled)

	time.Sleep(400 * time.Millisecond)
}

func TestNotFinishedErrorUnwraps(t *testing.T) {
	err := &NotFinishedError{Tool: "ffprobe", Limit: time.Second}
	require.ErrorIs(t, err, ErrTimeout)
	require.Contains(t, err.Error(), "ffprobe")
}

func TestTruncateStderrRuneAware(t *testing.T) {
	require.Equal(t, "abc", truncateStderr([]byte("abc")))

	long := make([]rune, 0, 600)
	for i := 0; i < 600; i++ {
		long = append(long, 'ä')
	}
	got := truncateStderr([]byte(string(long)))
	require.Equal(t, maxStderrChars, len([]rune(got)))
}
