// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/rs/zerolog"
)

var buf bytes.Buffer

func TestMain(m *testing.M) {
	Configure(Config{Level: "debug", Output: &buf, Service: "logtest"})
	os.Exit(m.Run())
}

func lastEntry(t *testing.T) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v (%q)", err, buf.String())
	}
	return entry
}

func TestConfigureFirstCallWins(t *testing.T) {
	// a second Configure must not rebind output or service
	Configure(Config{Level: "error", Output: io.Discard, Service: "other"})

	buf.Reset()
	logger := Base()
	logger.Info().Msg("hello")

	entry := lastEntry(t)
	if entry["service"] != "logtest" {
		t.Fatalf("service = %v, want logtest", entry["service"])
	}
	if entry["message"] != "hello" {
		t.Fatalf("message = %v", entry["message"])
	}
}

func TestWithComponent(t *testing.T) {
	buf.Reset()
	logger := WithComponent("catalog")
	logger.Debug().Str("event", "catalog.loaded").Msg("loaded")

	entry := lastEntry(t)
	if entry["component"] != "catalog" {
		t.Fatalf("component = %v, want catalog", entry["component"])
	}
	if entry["event"] != "catalog.loaded" {
		t.Fatalf("event = %v", entry["event"])
	}
	if entry["level"] != "debug" {
		t.Fatalf("level = %v, want debug", entry["level"])
	}
}

func TestFromContextFallsBackToBase(t *testing.T) {
	for name, ctx := range map[string]context.Context{
		"nil":        nil,
		"background": context.Background(),
	} {
		buf.Reset()
		logger := WithComponentFromContext(ctx, "jobs")
		logger.Info().Msg("fallback")

		entry := lastEntry(t)
		if entry["service"] != "logtest" {
			t.Fatalf("%s context: service = %v, want base logger", name, entry["service"])
		}
		if entry["component"] != "jobs" {
			t.Fatalf("%s context: component = %v", name, entry["component"])
		}
	}
}

func TestFromContextPrefersAttachedLogger(t *testing.T) {
	var own bytes.Buffer
	attached := zerolog.New(&own)
	ctx := attached.WithContext(context.Background())

	buf.Reset()
	logger := WithComponentFromContext(ctx, "fetch")
	logger.Info().Msg("scoped")

	if own.Len() == 0 {
		t.Fatal("context logger not used")
	}
	if buf.Len() != 0 {
		t.Fatal("base logger must not receive context-scoped entries")
	}
}
