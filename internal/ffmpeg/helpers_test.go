// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

//go:build unix

package ffmpeg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ManuGH/framegrab/internal/config"
)

// writeTool drops an executable shell script into a temp dir and returns its
// path. Tests stand in fake decoder/prober binaries this way, the same trick
// the process-group tests play with sh.
func writeTool(t *testing.T, name, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func useFakeFFprobe(t *testing.T, script string) {
	t.Helper()
	t.Setenv(config.EnvFFprobeBin, writeTool(t, "ffprobe", script))
}

func useFakeFFmpeg(t *testing.T, script string) {
	t.Helper()
	t.Setenv(config.EnvFFmpegBin, writeTool(t, "ffmpeg", script))
}

// probeJSON is a minimal ffprobe document for a 4x2 rgb24 source
// (frame size 24 bytes).
const probeJSON = `{
  "format": {"duration": "10.000000", "size": "4096", "bit_rate": "64000"},
  "streams": [{"codec_type": "video", "width": 4, "height": 2}]
}`

func fakeProbeEmitting(t *testing.T, doc string) {
	t.Helper()
	useFakeFFprobe(t, "cat <<'EOF'\n"+doc+"\nEOF")
}
