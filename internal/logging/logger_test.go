package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/macrolens/platescan/internal/logging"
)

func TestNewJSONLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")

	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("json message", zap.String("source", "Foundation"))
	logger.Sync() //nolint:errcheck

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), `"source":"Foundation"`) {
		t.Fatalf("expected json field in output, got %q", content)
	}
}

func TestNewConsoleLoggerFiltersBelowLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "warn",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hidden message")
	logger.Warn("visible message")
	logger.Sync() //nolint:errcheck

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), "hidden message") {
		t.Fatalf("expected info to be filtered, got %q", content)
	}
	if !strings.Contains(string(content), "visible message") {
		t.Fatalf("expected warn message, got %q", content)
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	logger, err := logging.New(logging.Options{Format: "console", Level: "invalid", Development: true})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if !logger.Core().Enabled(zap.InfoLevel) || logger.Core().Enabled(zap.DebugLevel) {
		t.Fatal("expected info level")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsRequestID(t *testing.T) {
	core, observed := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ctx := logging.ContextWithRequestID(context.Background(), "req-xyz")
	logging.WithContext(ctx, logger).Info("contextual log")
	logging.WithContext(context.Background(), logger).Info("plain log")

	records := observed.All()
	if len(records) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(records))
	}
	fields := records[0].ContextMap()
	if fields["request_id"] != "req-xyz" {
		t.Fatalf("request_id = %v, want req-xyz", fields["request_id"])
	}
	if _, ok := records[1].ContextMap()["request_id"]; ok {
		t.Fatal("expected no request_id without one in context")
	}
}
