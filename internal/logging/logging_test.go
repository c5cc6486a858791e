package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func TestSetupLevels(t *testing.T) {
	var buf bytes.Buffer

	entry := Setup(&buf, false)
	entry.Debug("hidden")
	entry.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Debug message logged at default level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("Warning not logged: %q", out)
	}

	buf.Reset()
	Setup(&buf, true).Debug("details")
	if !strings.Contains(buf.String(), "details") {
		t.Errorf("Debug message not logged in verbose mode: %q", buf.String())
	}
	if log.GetLevel() != log.DebugLevel {
		t.Errorf("Level = %v, want debug", log.GetLevel())
	}
}

func TestSetupRunID(t *testing.T) {
	var buf bytes.Buffer
	first := Setup(&buf, false)
	second := Setup(&buf, false)

	id, ok := first.Data["run"].(string)
	if !ok {
		t.Fatalf("run field missing: %v", first.Data)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("run field %q is not a UUID: %v", id, err)
	}
	if id == second.Data["run"] {
		t.Error("Two runs share the same id")
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "platebatch.log")
	Setup(os.Stderr, false)

	closeLog, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	log.Warn("to file")
	closeLog()
	log.SetOutput(os.Stderr)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("Log file content = %q", data)
	}
}
