// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/framegrab/internal/log"
	"github.com/ManuGH/framegrab/internal/metrics"
)

const (
	// Watchdog schedule: fast polls while short commands usually finish,
	// coarse polls afterwards, hard ceiling so a wedged prober cannot pin
	// the caller forever.
	fastPollInterval = 10 * time.Millisecond
	fastPollCount    = 100
	slowPollInterval = 1 * time.Second
	watchdogCeiling  = 60 * time.Second

	// maxStderrChars bounds the diagnostic payload of ExitError.
	maxStderrChars = 500
)

// run executes tool to completion and returns its captured stdout.
//
// Stdout and stderr are drained concurrently; draining only one stream lets
// the tool block on the full pipe buffer of the other and hang forever.
// The drain-and-reap goroutine delivers the exit status on a channel; the
// calling goroutine acts as the watchdog, polling that channel on the
// two-phase schedule above. On timeout the call fails but the child is NOT
// killed here: bounded commands are expected to terminate on their own, and
// forced cleanup belongs to owners of long-lived children (see frames.go).
func run(ctx context.Context, tool Tool, args []string, captureStderr bool, timeout time.Duration) ([]byte, error) {
	start := time.Now()
	logger := log.WithComponent("runner")

	cmd, stdout, stderr, err := launch(tool, args, captureStderr)
	if err != nil {
		metrics.RecordCommand(string(tool), outcomeFor(err), time.Since(start))
		return nil, err
	}

	var outBuf, errBuf bytes.Buffer

	waitCh := make(chan error, 1)
	go func() {
		g := new(errgroup.Group)
		g.Go(func() error {
			_, copyErr := io.Copy(&outBuf, stdout)
			return copyErr
		})
		if stderr != nil {
			// With captureStderr unset there is no pipe to drain; that side
			// counts as already finished.
			g.Go(func() error {
				_, copyErr := io.Copy(&errBuf, stderr)
				return copyErr
			})
		}
		copyErr := g.Wait()
		waitErr := cmd.Wait()
		if waitErr == nil {
			waitErr = copyErr
		}
		waitCh <- waitErr
	}()

	limit := watchdogCeiling
	if timeout > 0 && timeout < limit {
		limit = timeout
	}

	var waitErr error
	polls := 0
poll:
	for {
		interval := fastPollInterval
		if polls >= fastPollCount {
			interval = slowPollInterval
		}
		select {
		case waitErr = <-waitCh:
			break poll
		case <-ctx.Done():
			metrics.RecordCommand(string(tool), "canceled", time.Since(start))
			return nil, ctx.Err()
		case <-time.After(interval):
			polls++
			if time.Since(start) >= limit {
				logger.Warn().
					Str(log.FieldTool, string(tool)).
					Dur(log.FieldTimeout, limit).
					Int(log.FieldPID, cmd.Process.Pid).
					Msg("bounded command exceeded its deadline")
				metrics.RecordCommand(string(tool), "timeout", time.Since(start))
				return nil, &NotFinishedError{Tool: string(tool), Limit: limit}
			}
		}
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			err := &ExitError{
				Tool:   string(tool),
				Code:   exitErr.ExitCode(),
				Stderr: truncateStderr(errBuf.Bytes()),
			}
			metrics.RecordCommand(string(tool), "exit", time.Since(start))
			return nil, err
		}
		metrics.RecordCommand(string(tool), "spawn", time.Since(start))
		return nil, &SpawnError{Tool: string(tool), Detail: waitErr.Error()}
	}

	metrics.RecordCommand(string(tool), "ok", time.Since(start))
	return outBuf.Bytes(), nil
}

// NotFinishedError wraps ErrTimeout with tool context.
type NotFinishedError struct {
	Tool  string
	Limit time.Duration
}

func (e *NotFinishedError) Error() string {
	return e.Tool + ": " + ErrTimeout.Error() + " after " + e.Limit.String()
}

func (e *NotFinishedError) Unwrap() error { return ErrTimeout }

// truncateStderr keeps the first maxStderrChars characters of diagnostic
// text. Truncation is rune-aware so a multi-byte sequence is never split.
func truncateStderr(b []byte) string {
	s := string(b)
	runes := []rune(s)
	if len(runes) <= maxStderrChars {
		return s
	}
	return string(runes[:maxStderrChars])
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrToolNotFound):
		return "not_found"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	default:
		return "spawn"
	}
}
