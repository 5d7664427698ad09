// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	FieldComponent = "component"

	// Process fields
	FieldTool = "tool"
	FieldPID  = "pid"
	FieldExit = "exit_code"

	// Media fields
	FieldPath       = "path"
	FieldResolution = "resolution"
	FieldRotation   = "rotation"
	FieldFrames     = "frames"
	FieldFPS        = "fps"

	// Timing fields
	FieldTimeout  = "timeout"
	FieldDuration = "duration"
)
