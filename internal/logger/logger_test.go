package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInitLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "textlens.log")
	if err := InitLogger("debug", path); err != nil {
		t.Fatalf("InitLogger: %v", err)
	}
	t.Cleanup(func() { Log.SetOutput(os.Stdout) })

	if Log.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %s", Log.GetLevel())
	}
	Log.Debug("hello from test")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log file missing entry: %s", data)
	}
}

func TestInitLoggerBadLevelFallsBackToInfo(t *testing.T) {
	if err := InitLogger("loud", ""); err != nil {
		t.Fatalf("InitLogger: %v", err)
	}
	if Log.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %s", Log.GetLevel())
	}
}
