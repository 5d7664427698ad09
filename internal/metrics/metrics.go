// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package metrics provides Prometheus metrics for framegrab process activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// No cardinality explosion: labels carry tool names and coarse outcomes only,
// never paths or PIDs.

var (
	// CommandTotal counts bounded command runs by tool and outcome.
	CommandTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "framegrab_command_total",
		Help: "Total number of bounded external commands, by tool and outcome.",
	}, []string{"tool", "outcome"})

	// CommandDurationSeconds observes bounded command wall-clock duration.
	CommandDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "framegrab_command_duration_seconds",
		Help:    "Wall-clock duration of bounded external commands, by tool.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"tool"})

	// ProbeTotal counts metadata probes by outcome.
	ProbeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "framegrab_probe_total",
		Help: "Total number of metadata probes, by outcome.",
	}, []string{"outcome"})

	// FrameSessionsTotal counts decoder sessions by terminal reason.
	FrameSessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "framegrab_frame_sessions_total",
		Help: "Total number of finished decoder frame sessions, by terminal reason.",
	}, []string{"reason"})

	// FramesReadTotal counts complete frames handed to consumers.
	FramesReadTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "framegrab_frames_read_total",
		Help: "Total number of complete raw frames read from decoder processes.",
	})

	// ChildKillsTotal counts forced terminations of decoder children.
	ChildKillsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "framegrab_child_kills_total",
		Help: "Total number of forced decoder child terminations.",
	})
)

// RecordCommand records one bounded command invocation.
func RecordCommand(tool, outcome string, elapsed time.Duration) {
	if tool == "" {
		tool = "unknown"
	}
	CommandTotal.WithLabelValues(tool, outcome).Inc()
	CommandDurationSeconds.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// RecordProbe records one metadata probe result.
func RecordProbe(outcome string) {
	ProbeTotal.WithLabelValues(outcome).Inc()
}

// RecordSessionEnd records the terminal reason of a frame session.
func RecordSessionEnd(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	FrameSessionsTotal.WithLabelValues(reason).Inc()
}

// IncFrameRead records one complete frame delivered to a consumer.
func IncFrameRead() {
	FramesReadTotal.Inc()
}

// IncChildKill records one forced child termination.
func IncChildKill() {
	ChildKillsTotal.Inc()
}
