package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/lexora/lexora-server/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestSetupWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logging.SetupWriter(&buf, "warn", false)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	log.Info().Msg("dropped")
	log.Warn().Str("code", "invalid_state").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "kept", entry["message"])
	require.Equal(t, "invalid_state", entry["code"])
	require.Equal(t, "warn", entry["level"])
}

func TestSetupWriter_UnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	logging.SetupWriter(&buf, "chatty", false)
	require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
