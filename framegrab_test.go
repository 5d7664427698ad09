// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

//go:build unix

package framegrab_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ManuGH/framegrab"
)

func writeTool(t *testing.T, env, name, script string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	t.Setenv(env, path)
}

func TestPublicProbeAndStream(t *testing.T) {
	writeTool(t, "FRAMEGRAB_FFPROBE_BIN", "ffprobe", `cat <<'EOF'
{"format": {"duration": "3.000000", "size": "512", "bit_rate": "1000"},
 "streams": [{"codec_type": "video", "width": 2, "height": 2}]}
EOF`)
	writeTool(t, "FRAMEGRAB_FFMPEG_BIN", "ffmpeg", "head -c 24 /dev/zero")

	ctx := context.Background()

	info, err := framegrab.Probe(ctx, "clip.mp4")
	require.NoError(t, err)
	require.Equal(t, 3.0, info.Duration)

	r, info, err := framegrab.NewReader("clip.mp4").MaxFrames(5).Spawn(ctx)
	require.NoError(t, err)
	defer r.Close()

	frames := 0
	for {
		frame, ok := r.Next()
		if !ok {
			break
		}
		require.Len(t, frame.Pix, int(info.Width)*int(info.Height)*3)
		frames++
	}
	require.Equal(t, 2, frames)
}

func TestPublicErrorTaxonomy(t *testing.T) {
	t.Setenv("FRAMEGRAB_FFPROBE_BIN", "/nonexistent/framegrab-tool")

	_, err := framegrab.Probe(context.Background(), "clip.mp4")
	require.True(t, errors.Is(err, framegrab.ErrToolNotFound))
}
