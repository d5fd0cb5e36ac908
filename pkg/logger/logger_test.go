package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestInit_WritesServiceField(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	log := Init(Options{Level: "info", Service: "backlog-api", Output: &buf})
	log.Info().Msg("hello")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json output, got %q: %v", buf.String(), err)
	}
	if entry["service"] != "backlog-api" {
		t.Fatalf("expected service field, got %v", entry["service"])
	}
	if entry["message"] != "hello" {
		t.Fatalf("unexpected message: %v", entry["message"])
	}
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Output: &first})
	Init(Options{Output: &second})
	log := Get()
	log.Info().Msg("once")

	if first.Len() == 0 {
		t.Fatalf("expected output on the first writer")
	}
	if second.Len() != 0 {
		t.Fatalf("second Init must not replace the logger")
	}
}

func TestGet_BeforeInitIsNop(t *testing.T) {
	Reset()
	log := Get()
	log.Info().Msg("dropped")
}
