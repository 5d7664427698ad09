// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeFileInfo struct {
	os.FileInfo
	dir bool
}

func (f fakeFileInfo) IsDir() bool { return f.dir }

func TestDeriveFFprobeBin(t *testing.T) {
	statExists := func(string) (os.FileInfo, error) { return fakeFileInfo{}, nil }
	statMissing := func(string) (os.FileInfo, error) { return nil, fs.ErrNotExist }
	statDir := func(string) (os.FileInfo, error) { return fakeFileInfo{dir: true}, nil }

	cases := []struct {
		name      string
		ffmpegBin string
		stat      func(string) (os.FileInfo, error)
		want      string
	}{
		{"empty", "", statExists, ""},
		{"bare name is not derived", "ffmpeg", statExists, ""},
		{"concrete path with sibling", "/opt/ff/bin/ffmpeg", statExists, "/opt/ff/bin/ffprobe"},
		{"sibling missing", "/opt/ff/bin/ffmpeg", statMissing, ""},
		{"sibling is a directory", "/opt/ff/bin/ffmpeg", statDir, ""},
		{"renamed binary is not derived", "/opt/ff/bin/ffmpeg-custom", statExists, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, deriveFFprobeBin(tc.ffmpegBin, tc.stat))
		})
	}
}

func TestFFprobeBinExplicitWins(t *testing.T) {
	t.Setenv(EnvFFprobeBin, "/usr/local/bin/ffprobe")
	t.Setenv(EnvFFmpegBin, "/other/ffmpeg")
	require.Equal(t, "/usr/local/bin/ffprobe", FFprobeBin())
}

func TestFFmpegBinDefault(t *testing.T) {
	t.Setenv(EnvFFmpegBin, "")
	require.Equal(t, "ffmpeg", FFmpegBin())
}

func TestCommandTimeout(t *testing.T) {
	t.Setenv(EnvCommandTimeout, "")
	require.Equal(t, DefaultCommandTimeout, CommandTimeout())

	t.Setenv(EnvCommandTimeout, "5s")
	require.Equal(t, 5*time.Second, CommandTimeout())

	t.Setenv(EnvCommandTimeout, "not-a-duration")
	require.Equal(t, DefaultCommandTimeout, CommandTimeout())
}
