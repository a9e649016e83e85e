package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInitLevelFallbacks(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	if l := Init("", false); l.GetLevel() != logrus.WarnLevel {
		t.Fatalf("expected warn from env, got %s", l.GetLevel())
	}
	if l := Init("DEBUG", false); l.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug, got %s", l.GetLevel())
	}
	if l := Init("loud", false); l.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info for invalid level, got %s", l.GetLevel())
	}
}

func TestWithComponentJSON(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	Init("info", true)
	var buf bytes.Buffer
	SetOutput(&buf)
	WithComponent("dataset").WithField("url", "file://x").Info("loaded")

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
		t.Fatalf("expected json entry, got %q: %v", buf.String(), err)
	}
	if entry["component"] != "dataset" || entry["msg"] != "loaded" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if Get() == nil {
		t.Fatalf("expected shared logger")
	}
}
