// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigureOnce(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "test-svc"})
	// Second Configure must be a no-op.
	Configure(Config{Level: "error", Service: "other"})

	lg := WithComponent("probe")
	lg.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "test-svc", entry["service"])
	require.Equal(t, "probe", entry[FieldComponent])
	require.Equal(t, "hello", entry["message"])
}

func TestLReturnsUsableLogger(t *testing.T) {
	require.NotNil(t, L())
	L().Debug().Msg("no panic")
}
