// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package ffmpeg drives the external ffmpeg/ffprobe tools: spawning,
// draining, timeout supervision and guaranteed child cleanup.
package ffmpeg

import (
	"errors"
	"io"
	"io/fs"
	"os/exec"

	"github.com/ManuGH/framegrab/internal/config"
	"github.com/ManuGH/framegrab/internal/log"
	"github.com/ManuGH/framegrab/internal/procgroup"
)

// Tool names an external executable resolved through PATH (or an explicit
// binary from config).
type Tool string

const (
	ToolFFmpeg  Tool = "ffmpeg"
	ToolFFprobe Tool = "ffprobe"
)

func binaryFor(tool Tool) string {
	switch tool {
	case ToolFFprobe:
		return config.FFprobeBin()
	default:
		return config.FFmpegBin()
	}
}

// launch starts tool with args. Stdout is always piped; stderr is piped only
// when captureStderr is set and discarded otherwise, so an unread stderr can
// never fill up and block the child. Stdin is piped and immediately closed;
// the tools here never read it and must see EOF if they try.
//
// The returned stderr reader is nil unless captureStderr is set. The caller
// owns the child and must reap it with cmd.Wait.
func launch(tool Tool, args []string, captureStderr bool) (*exec.Cmd, io.ReadCloser, io.ReadCloser, error) {
	bin := binaryFor(tool)

	// #nosec G204 -- the binary comes from config, args are built internally
	// and the source path is opaque data.
	cmd := exec.Command(bin, args...)
	procgroup.Set(cmd)
	suppressWindow(cmd)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, nil, &SpawnError{Tool: string(tool), Detail: err.Error()}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, nil, &SpawnError{Tool: string(tool), Detail: err.Error()}
	}

	var stderr io.ReadCloser
	if captureStderr {
		stderr, err = cmd.StderrPipe()
		if err != nil {
			return nil, nil, nil, &SpawnError{Tool: string(tool), Detail: err.Error()}
		}
	}

	if err := cmd.Start(); err != nil {
		return nil, nil, nil, classifyStartError(tool, err)
	}
	_ = stdin.Close()

	lg := log.WithComponent("launcher")
	lg.Debug().
		Str(log.FieldTool, string(tool)).
		Int(log.FieldPID, cmd.Process.Pid).
		Bool("capture_stderr", captureStderr).
		Msg("child started")

	return cmd, stdout, stderr, nil
}

// classifyStartError separates "binary does not exist" from every other
// spawn failure.
func classifyStartError(tool Tool, err error) error {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return &NotFoundError{Tool: string(tool)}
	}
	return &SpawnError{Tool: string(tool), Detail: err.Error()}
}

// NotFoundError wraps ErrToolNotFound with the tool name.
type NotFoundError struct {
	Tool string
}

func (e *NotFoundError) Error() string {
	return e.Tool + ": " + ErrToolNotFound.Error()
}

func (e *NotFoundError) Unwrap() error { return ErrToolNotFound }
