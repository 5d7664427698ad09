// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ffmpeg

import (
	"context"
	"io"
	"math"
	"os/exec"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/framegrab/internal/log"
	"github.com/ManuGH/framegrab/internal/metrics"
	"github.com/ManuGH/framegrab/internal/procgroup"
)

// framePollInterval is the pause between empty reads from the decoder pipe,
// so waiting for more output never turns into a hot spin.
const framePollInterval = 10 * time.Millisecond

// Frame is one decoded image: len(Pix) == Width*Height*3, row-major 8-bit
// RGB. Every frame gets a fresh buffer; ownership transfers to the caller.
type Frame struct {
	Width  uint32
	Height uint32
	Pix    []byte
}

// ReaderBuilder collects frame stream options before spawning the decoder.
type ReaderBuilder struct {
	path      string
	fps       string
	maxFrames uint32
	timeout   time.Duration
}

// NewReader starts building a frame stream for the source at path.
func NewReader(path string) *ReaderBuilder {
	return &ReaderBuilder{path: path, maxFrames: math.MaxUint32}
}

// FPS requests a sampling-rate filter, e.g. "1" or "1/5". Empty means the
// source rate.
func (b *ReaderBuilder) FPS(fps string) *ReaderBuilder {
	b.fps = fps
	return b
}

// MaxFrames caps the number of frames the decoder emits.
func (b *ReaderBuilder) MaxFrames(n uint32) *ReaderBuilder {
	b.maxFrames = n
	return b
}

// Timeout bounds the whole session. Zero means effectively unbounded.
func (b *ReaderBuilder) Timeout(d time.Duration) *ReaderBuilder {
	b.timeout = d
	return b
}

// Spawn probes the source, then launches the decoder configured to stream
// raw rgb24 frames on stdout. The probe must resolve a non-zero geometry
// before any process is started; without it stdout bytes cannot be cut into
// frames.
func (b *ReaderBuilder) Spawn(ctx context.Context) (*FrameReader, VideoInfo, error) {
	info, err := Probe(ctx, b.path)
	if err != nil {
		return nil, VideoInfo{}, err
	}
	if info.Width == 0 || info.Height == 0 {
		return nil, VideoInfo{}, ErrInvalidResolution
	}

	args := []string{
		"-hide_banner",
		"-loglevel", "warning",
		"-nostats",
		"-i", b.path,
	}
	if b.fps != "" {
		args = append(args, "-vf", "fps="+b.fps)
	}
	if b.maxFrames != math.MaxUint32 {
		args = append(args, "-vframes", strconv.FormatUint(uint64(b.maxFrames), 10))
	}
	args = append(args,
		"-pix_fmt", "rgb24",
		"-c:v", "rawvideo",
		"-f", "image2pipe",
		"-",
	)

	// Stderr is dropped at the OS level (no pipe at all): a frame session can
	// run far longer than a bounded command, and a full stderr buffer must
	// never be able to stall the decoder.
	cmd, stdout, _, err := launch(ToolFFmpeg, args, false)
	if err != nil {
		return nil, VideoInfo{}, err
	}

	r := &FrameReader{
		width:     info.Width,
		height:    info.Height,
		frameSize: int(info.Width) * int(info.Height) * 3,
		maxFrames: b.maxFrames,
		cmd:       cmd,
		stdout:    stdout,
		logger: log.WithComponent("frames").With().
			Str(log.FieldPath, b.path).
			Int(log.FieldPID, cmd.Process.Pid).
			Logger(),
	}

	if b.timeout > 0 {
		r.deadline = time.Now().Add(b.timeout)
		// Pipe reads block; the timer unblocks a read stuck mid-frame by
		// taking the decoder down at the deadline.
		r.killTimer = time.AfterFunc(b.timeout, func() {
			_ = procgroup.Kill(cmd, syscall.SIGKILL)
		})
	}

	return r, info, nil
}

// FrameReader is a lazy, finite, non-restartable sequence of frames backed
// by one decoder process. It exclusively owns that process: nobody else may
// read its stdout or signal it. Once finished it never emits again and the
// child has been reaped.
type FrameReader struct {
	width, height uint32
	frameSize     int

	cmd    *exec.Cmd
	stdout io.ReadCloser

	framesRead uint32
	maxFrames  uint32
	deadline   time.Time
	killTimer  *time.Timer
	finished   bool

	logger zerolog.Logger
}

// Next returns the next decoded frame, or (nil, false) when the sequence has
// ended. The end of the sequence is not an error: frame limit, deadline,
// decoder exit and decoder death all look the same to the consumer.
func (r *FrameReader) Next() (*Frame, bool) {
	if r.finished {
		return nil, false
	}
	if r.framesRead >= r.maxFrames {
		r.finish("limit")
		return nil, false
	}
	if r.pastDeadline() {
		r.finish("deadline")
		return nil, false
	}

	buf := make([]byte, r.frameSize)
	filled := 0
	for filled < r.frameSize {
		if r.pastDeadline() {
			r.finish("deadline")
			return nil, false
		}
		n, err := r.stdout.Read(buf[filled:])
		filled += n
		if filled == r.frameSize {
			break
		}
		if err != nil {
			// EOF or decoder death mid-frame: a partial buffer is never
			// returned.
			r.finish("eof")
			return nil, false
		}
		if n == 0 {
			time.Sleep(framePollInterval)
		}
	}

	r.framesRead++
	metrics.IncFrameRead()
	return &Frame{Width: r.width, Height: r.height, Pix: buf}, true
}

// FramesRead reports how many complete frames were produced so far.
func (r *FrameReader) FramesRead() uint32 {
	return r.framesRead
}

// Close terminates and reaps the decoder. It is idempotent and must be
// called (directly or via exhaustion) on every exit path, however the
// consumer stopped iterating, so no orphan survives the reader.
func (r *FrameReader) Close() {
	r.finish("closed")
}

// finish is the single transition into the absorbing terminal state:
// kill the process group, close the pipe, reap exactly once. Cleanup errors
// are ignored; there is no meaningful recovery at this point and the exit
// code no longer matters.
func (r *FrameReader) finish(reason string) {
	if r.finished {
		return
	}
	r.finished = true

	if r.killTimer != nil {
		r.killTimer.Stop()
	}
	if err := procgroup.Kill(r.cmd, syscall.SIGKILL); err == nil {
		metrics.IncChildKill()
	}
	_ = r.stdout.Close()
	_ = r.cmd.Wait()

	metrics.RecordSessionEnd(reason)
	r.logger.Debug().
		Str("reason", reason).
		Uint32(log.FieldFrames, r.framesRead).
		Msg("frame session finished")
}

func (r *FrameReader) pastDeadline() bool {
	return !r.deadline.IsZero() && time.Now().After(r.deadline)
}
