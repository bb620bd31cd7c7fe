package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marble.log")
	log, err := New(Options{Verbose: true, File: path})
	if err != nil {
		t.Fatal(err)
	}
	log.Debug("debug line")
	log.Info("info line")
	_ = log.Sync()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"debug line", "info line"} {
		if !strings.Contains(string(b), want) {
			t.Errorf("log file missing %q:\n%s", want, b)
		}
	}
}

func TestDebugDisabledByDefault(t *testing.T) {
	log, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if log.Core().Enabled(-1) {
		t.Error("debug level enabled without verbose")
	}
}
