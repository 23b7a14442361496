package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	t.Run("debug mode returns development logger", func(t *testing.T) {
		logger, err := NewLogger(true)
		if err != nil {
			t.Fatalf("NewLogger(true) error: %v", err)
		}
		if logger == nil {
			t.Fatal("NewLogger(true) returned nil logger")
		}
		_ = logger.Sync()
	})

	t.Run("production mode returns production logger", func(t *testing.T) {
		logger, err := NewLogger(false)
		if err != nil {
			t.Fatalf("NewLogger(false) error: %v", err)
		}
		if logger == nil {
			t.Fatal("NewLogger(false) returned nil logger")
		}
		_ = logger.Sync()
	})
}

func TestNewLoggerWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import.log")
	logger, err := NewLoggerWithFile(false, path)
	if err != nil {
		t.Fatalf("NewLoggerWithFile error: %v", err)
	}
	logger.Info("file processed")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "file processed") {
		t.Errorf("log file missing entry: %q", data)
	}
}

func TestNewLoggerWithFile_emptyPath(t *testing.T) {
	logger, err := NewLoggerWithFile(true, "")
	if err != nil {
		t.Fatalf("NewLoggerWithFile error: %v", err)
	}
	if logger == nil {
		t.Fatal("returned nil logger")
	}
}
