// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ffmpeg

import (
	"errors"
	"fmt"
)

var (
	// ErrToolNotFound is returned when the external tool cannot be resolved.
	// By far the most likely cause is that ffmpeg/ffprobe is not installed.
	ErrToolNotFound = errors.New("tool not found")

	// ErrTimeout is returned when a bounded command did not finish within
	// its wall-clock budget. The child is not killed at this layer.
	ErrTimeout = errors.New("command timed out")

	// ErrInvalidResolution is returned when a probe reports a zero dimension;
	// no decoder is launched in that case.
	ErrInvalidResolution = errors.New("invalid video resolution")

	// ErrNotUTF8 is returned when tool output that must be interpreted as
	// text is not valid UTF-8.
	ErrNotUTF8 = errors.New("output is not valid UTF-8")
)

// SpawnError reports an OS-level spawn or IO failure that is not a missing
// tool.
type SpawnError struct {
	Tool   string
	Detail string
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("%s: spawn failed: %s", e.Tool, e.Detail)
}

// ExitError reports a non-zero tool exit. Stderr is truncated to at most
// maxStderrChars characters; ffmpeg can emit very large diagnostic text.
type ExitError struct {
	Tool   string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s: exit status %d", e.Tool, e.Code)
	}
	return fmt.Sprintf("%s: exit status %d: %s", e.Tool, e.Code, e.Stderr)
}

// ParseKind classifies what failed while interpreting prober output.
type ParseKind string

const (
	ParseJSON     ParseKind = "json"
	ParseInt      ParseKind = "int"
	ParseFloat    ParseKind = "float"
	ParseRotation ParseKind = "rotation"
)

// ParseError reports malformed prober output. Absent optional fields never
// produce a ParseError; present-but-malformed ones do.
type ParseError struct {
	Kind   ParseKind
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing stats (%s): %s", e.Kind, e.Detail)
}
