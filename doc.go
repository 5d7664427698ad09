// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package framegrab extracts decoded RGB frames and normalized metadata from
// video files by driving the external ffmpeg and ffprobe tools.
//
// Probe returns a rotation-corrected metadata record; NewReader builds a
// lazy, finite frame stream whose decoder child is guaranteed to be
// terminated and reaped on every exit path:
//
//	info, err := framegrab.Probe(ctx, "movie.mp4")
//	if err != nil { ... }
//
//	r, info, err := framegrab.NewReader("movie.mp4").
//		FPS("1/5").
//		MaxFrames(10).
//		Timeout(30 * time.Second).
//		Spawn(ctx)
//	if err != nil { ... }
//	defer r.Close()
//
//	for {
//		frame, ok := r.Next()
//		if !ok {
//			break
//		}
//		// frame.Pix is Width*Height*3 bytes of row-major RGB.
//	}
//
// Binary locations and the bounded command timeout can be overridden with
// FRAMEGRAB_FFMPEG_BIN, FRAMEGRAB_FFPROBE_BIN and FRAMEGRAB_COMMAND_TIMEOUT.
package framegrab
