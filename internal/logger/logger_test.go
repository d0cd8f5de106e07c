package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	Logger{Level: "debug", Format: "json"}.setup(&buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	log.Debug().Str("op", "bearing").Msg("evaluated")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["op"] != "bearing" || entry["level"] != "debug" || entry["message"] != "evaluated" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestSetupLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Logger{Level: "warn", Format: "json"}.setup(&buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	log.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info written at warn level: %q", buf.String())
	}

	log.Warn().Msg("shown")
	if buf.Len() == 0 {
		t.Fatal("warn not written at warn level")
	}
}

func TestSetupUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	Logger{Level: "loud", Format: "json"}.setup(&buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("global level = %v, want info", zerolog.GlobalLevel())
	}
	if !bytes.Contains(buf.Bytes(), []byte("Unknown log level")) {
		t.Fatalf("missing warning, got %q", buf.String())
	}
}
