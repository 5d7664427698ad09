// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

//go:build !windows

package ffmpeg

import "os/exec"

func suppressWindow(cmd *exec.Cmd) {
	// Console window suppression is a Windows concern.
}
