// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Environment variables honoured by the library.
const (
	EnvFFmpegBin      = "FRAMEGRAB_FFMPEG_BIN"
	EnvFFprobeBin     = "FRAMEGRAB_FFPROBE_BIN"
	EnvCommandTimeout = "FRAMEGRAB_COMMAND_TIMEOUT"
)

// DefaultCommandTimeout bounds short prober invocations when the caller does
// not configure one.
const DefaultCommandTimeout = 30 * time.Second

// FFmpegBin returns the decoder binary to invoke. Bare names are resolved
// through PATH by os/exec.
func FFmpegBin() string {
	return ParseString(EnvFFmpegBin, "ffmpeg")
}

// FFprobeBin returns the prober binary to invoke.
//
// Resolution order:
// 1) Explicit FRAMEGRAB_FFPROBE_BIN
// 2) Derive from a concrete ffmpeg path (.../ffmpeg -> .../ffprobe)
// 3) "ffprobe" (PATH resolution)
func FFprobeBin() string {
	if v := strings.TrimSpace(os.Getenv(EnvFFprobeBin)); v != "" {
		return v
	}
	if derived := deriveFFprobeBin(os.Getenv(EnvFFmpegBin), os.Stat); derived != "" {
		return derived
	}
	return "ffprobe"
}

// CommandTimeout returns the wall-clock bound for short prober commands.
func CommandTimeout() time.Duration {
	return ParseDuration(EnvCommandTimeout, DefaultCommandTimeout)
}

// deriveFFprobeBin guesses a sibling ffprobe next to a concrete ffmpeg path.
// If ffmpegBin is just "ffmpeg" (PATH), we intentionally do not guess.
func deriveFFprobeBin(ffmpegBin string, stat func(string) (os.FileInfo, error)) string {
	ffmpegBin = strings.TrimSpace(ffmpegBin)
	if ffmpegBin == "" || !strings.ContainsRune(ffmpegBin, '/') {
		return ""
	}
	if filepath.Base(ffmpegBin) != "ffmpeg" {
		return ""
	}
	candidate := filepath.Join(filepath.Dir(ffmpegBin), "ffprobe")
	if fi, err := stat(candidate); err == nil && fi != nil && !fi.IsDir() {
		return candidate
	}
	return ""
}
