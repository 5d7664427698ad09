// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package framegrab

import (
	"context"

	"github.com/ManuGH/framegrab/internal/ffmpeg"
)

// Re-exported core types; consumers never import internal packages.
type (
	// VideoInfo is the normalized, rotation-corrected metadata record.
	VideoInfo = ffmpeg.VideoInfo
	// Frame is one decoded RGB image with a caller-owned pixel buffer.
	Frame = ffmpeg.Frame
	// FrameReader is a lazy, finite frame sequence owning one decoder child.
	FrameReader = ffmpeg.FrameReader
	// ReaderBuilder collects sampling rate, frame cap and timeout before Spawn.
	ReaderBuilder = ffmpeg.ReaderBuilder

	// ExitError reports a non-zero tool exit with truncated stderr.
	ExitError = ffmpeg.ExitError
	// SpawnError reports an OS-level spawn or IO failure.
	SpawnError = ffmpeg.SpawnError
	// ParseError reports malformed prober output.
	ParseError = ffmpeg.ParseError
)

// Sentinel errors; match with errors.Is.
var (
	ErrToolNotFound      = ffmpeg.ErrToolNotFound
	ErrTimeout           = ffmpeg.ErrTimeout
	ErrInvalidResolution = ffmpeg.ErrInvalidResolution
	ErrNotUTF8           = ffmpeg.ErrNotUTF8
)

// Probe runs ffprobe against path and returns the normalized metadata
// record. Width/Height already account for declared source rotation.
func Probe(ctx context.Context, path string) (VideoInfo, error) {
	return ffmpeg.Probe(ctx, path)
}

// IsVideoFile reports whether path has a video stream of at least one
// second. An unknown duration counts as long enough.
func IsVideoFile(ctx context.Context, path string) (bool, error) {
	return ffmpeg.IsVideoFile(ctx, path)
}

// ToolsAvailable reports whether both external tools are callable.
func ToolsAvailable(ctx context.Context) bool {
	return ffmpeg.ToolsAvailable(ctx)
}

// NewReader starts building a frame stream for the source at path.
func NewReader(path string) *ReaderBuilder {
	return ffmpeg.NewReader(path)
}
