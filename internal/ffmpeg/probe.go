// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ffmpeg

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ManuGH/framegrab/internal/config"
	"github.com/ManuGH/framegrab/internal/log"
	"github.com/ManuGH/framegrab/internal/metrics"
)

// VideoInfo is the normalized metadata record a frame stream depends on for
// buffer sizing. Width and Height already reflect declared rotation: the
// prober reports pre-rotation geometry while the decoder auto-rotates pixel
// data, so 90/270 sources have the raw dimensions swapped here.
type VideoInfo struct {
	Duration float64 // seconds
	Size     uint64  // container size in bytes
	BitRate  uint32  // bits per second
	Width    uint32  // post-rotation
	Height   uint32  // post-rotation
	HasAudio bool
}

// Resolution returns the post-rotation (width, height) pair.
func (v VideoInfo) Resolution() (uint32, uint32) {
	return v.Width, v.Height
}

// rotation is the normalized orientation declared by the source.
type rotation int

const (
	rot0 rotation = iota
	rot90
	rot180
	rot270
)

func (r rotation) swapsAxes() bool { return r == rot90 || r == rot270 }

// probeData mirrors the ffprobe -show_format -show_streams JSON document.
// The numeric container fields arrive as JSON strings; they stay raw here so
// a missing or wrong-typed field can degrade to zero instead of failing the
// whole decode.
type probeData struct {
	Format struct {
		Duration json.RawMessage `json:"duration"`
		Size     json.RawMessage `json:"size"`
		BitRate  json.RawMessage `json:"bit_rate"`
	} `json:"format"`
	Streams []probeStream `json:"streams"`
}

type probeStream struct {
	CodecType    string          `json:"codec_type"`
	Width        uint32          `json:"width"`
	Height       uint32          `json:"height"`
	SideDataList []probeSideData `json:"side_data_list"`
}

type probeSideData struct {
	Rotation json.RawMessage `json:"rotation"`
}

// Probe runs the prober against path and returns the normalized record.
func Probe(ctx context.Context, path string) (VideoInfo, error) {
	out, err := run(ctx, ToolFFprobe, statsArgs(path), false, config.CommandTimeout())
	if err != nil {
		metrics.RecordProbe("command_failed")
		return VideoInfo{}, err
	}

	info, err := parseVideoInfo(out)
	if err != nil {
		metrics.RecordProbe("parse_failed")
		return VideoInfo{}, err
	}

	lg := log.WithComponent("probe")
	lg.Debug().
		Str(log.FieldPath, path).
		Str(log.FieldResolution, strconv.FormatUint(uint64(info.Width), 10)+"x"+strconv.FormatUint(uint64(info.Height), 10)).
		Float64(log.FieldDuration, info.Duration).
		Bool("has_audio", info.HasAudio).
		Msg("probed source")

	metrics.RecordProbe("ok")
	return info, nil
}

func statsArgs(path string) []string {
	return []string{
		"-v", "quiet",
		"-show_format",
		"-show_streams",
		"-print_format", "json",
		path,
	}
}

// parseVideoInfo normalizes one ffprobe JSON document.
func parseVideoInfo(raw []byte) (VideoInfo, error) {
	var data probeData
	if err := json.Unmarshal(raw, &data); err != nil {
		return VideoInfo{}, &ParseError{Kind: ParseJSON, Detail: err.Error()}
	}

	duration, err := stringFloat(data.Format.Duration)
	if err != nil {
		return VideoInfo{}, err
	}
	size, err := stringUint(data.Format.Size, 64)
	if err != nil {
		return VideoInfo{}, err
	}
	bitRate, err := stringUint(data.Format.BitRate, 32)
	if err != nil {
		return VideoInfo{}, err
	}

	var video *probeStream
	hasAudio := false
	for i := range data.Streams {
		switch data.Streams[i].CodecType {
		case "video":
			if video == nil {
				video = &data.Streams[i]
			}
		case "audio":
			hasAudio = true
		}
	}

	info := VideoInfo{
		Duration: duration,
		Size:     size,
		BitRate:  uint32(bitRate),
		HasAudio: hasAudio,
	}

	if video != nil {
		rot, err := parseRotation(video.SideDataList)
		if err != nil {
			return VideoInfo{}, err
		}
		if rot.swapsAxes() {
			info.Width, info.Height = video.Height, video.Width
		} else {
			info.Width, info.Height = video.Width, video.Height
		}
	}

	return info, nil
}

// stringFloat parses a string-encoded float field. Absent or non-string
// values degrade to zero; a present string that does not parse is an error.
func stringFloat(raw json.RawMessage) (float64, error) {
	s, ok := rawString(raw)
	if !ok {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParseError{Kind: ParseFloat, Detail: err.Error()}
	}
	return f, nil
}

// stringUint parses a string-encoded unsigned field with the same degrade
// rules as stringFloat.
func stringUint(raw json.RawMessage, bits int) (uint64, error) {
	s, ok := rawString(raw)
	if !ok {
		return 0, nil
	}
	u, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		return 0, &ParseError{Kind: ParseInt, Detail: err.Error()}
	}
	return u, nil
}

func rawString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// parseRotation reads the first side-data rotation entry of a video stream.
// ffprobe emits it either as a number or as a numeric string, and only for
// sources that declare an orientation. Any value outside the four legal
// orientations is a hard error; the prober never legitimately reports an
// arbitrary angle.
func parseRotation(sideData []probeSideData) (rotation, error) {
	if len(sideData) == 0 || len(sideData[0].Rotation) == 0 {
		return rot0, nil
	}
	raw := sideData[0].Rotation

	var deg int64
	if s, ok := rawString(raw); ok {
		parsed, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return rot0, &ParseError{Kind: ParseInt, Detail: err.Error()}
		}
		deg = parsed
	} else {
		if err := json.Unmarshal(raw, &deg); err != nil {
			return rot0, &ParseError{Kind: ParseJSON, Detail: "unexpected rotation value " + string(raw)}
		}
	}

	switch deg {
	case 0:
		return rot0, nil
	case 90:
		return rot90, nil
	case 180, -180:
		return rot180, nil
	case -90, 270:
		return rot270, nil
	default:
		return rot0, &ParseError{
			Kind:   ParseRotation,
			Detail: "unexpected rotation " + strconv.FormatInt(deg, 10),
		}
	}
}

// IsVideoFile reports whether path qualifies as a usable video: it must have
// a video stream and run at least one second. A missing or unparseable
// duration counts as long enough; discarding a genuinely short-unknown file
// would be the worse failure.
func IsVideoFile(ctx context.Context, path string) (bool, error) {
	args := []string{
		"-v", "error",
		"-select_streams", "v",
		"-show_entries", "stream=codec_type,codec_name,duration",
		"-of", "compact=p=0:nk=1",
		path,
	}

	out, err := run(ctx, ToolFFprobe, args, false, config.CommandTimeout())
	if err != nil {
		return false, err
	}
	if !utf8.Valid(out) {
		return false, ErrNotUTF8
	}

	return classifyStreamLine(strings.TrimSpace(string(out))), nil
}

// classifyStreamLine interprets one compact "codec_name|codec_type|duration"
// record.
func classifyStreamLine(line string) bool {
	fields := strings.Split(line, "|")

	codecType := ""
	if len(fields) > 1 {
		codecType = fields[1]
	}
	if codecType != "video" {
		return false
	}

	duration := 999.0
	if len(fields) > 2 {
		if d, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64); err == nil {
			duration = d
		}
	}
	return duration >= 1.0
}

// ToolsAvailable reports whether both external tools answer -version.
func ToolsAvailable(ctx context.Context) bool {
	if _, err := run(ctx, ToolFFprobe, []string{"-version"}, false, config.CommandTimeout()); err != nil {
		return false
	}
	if _, err := run(ctx, ToolFFmpeg, []string{"-version"}, false, config.CommandTimeout()); err != nil {
		return false
	}
	return true
}
