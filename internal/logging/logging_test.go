package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLevels(t *testing.T) {
	for in, want := range map[string]logrus.Level{"": logrus.InfoLevel, "debug": logrus.DebugLevel, "WARN": logrus.WarnLevel} {
		logger, err := New(in)
		if err != nil {
			t.Fatalf("New(%q) failed: %v", in, err)
		}
		if logger.GetLevel() != want {
			t.Errorf("New(%q): expected level %s, got %s", in, want, logger.GetLevel())
		}
	}

	if _, err := New("loud"); err == nil {
		t.Error("Expected error for unknown level")
	}
}

func TestNewWithOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithOutput("info", &buf)
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("hidden")
	logger.WithField("file", "a.png").Info("loaded")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Expected debug message to be filtered")
	}
	if !strings.Contains(out, "loaded") || !strings.Contains(out, "file=a.png") {
		t.Errorf("Expected info message with fields, got %q", out)
	}
}
