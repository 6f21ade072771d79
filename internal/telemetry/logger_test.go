package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock handler to inspect log records
type mockHandler struct {
	mu       sync.Mutex
	records  []slog.Record
	attrs    []slog.Attr
	group    string
	enabled  bool
	handleFn func(slog.Record) error // Optional custom handle logic
}

func (h *mockHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.enabled
}

func (h *mockHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.handleFn != nil {
		return h.handleFn(record)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, record)
	return nil
}

func (h *mockHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	newHandler := mockHandler{records: h.records, attrs: h.attrs, group: h.group, enabled: h.enabled, handleFn: h.handleFn}
	newHandler.attrs = append(h.attrs, attrs...)
	return &newHandler
}

func (h *mockHandler) WithGroup(name string) slog.Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	newHandler := mockHandler{records: h.records, attrs: h.attrs, group: h.group, enabled: h.enabled, handleFn: h.handleFn}
	if newHandler.group == "" {
		newHandler.group = name
	} else {
		newHandler.group = newHandler.group + "." + name
	}
	return &newHandler
}

func (h *mockHandler) getRecords() []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.records
}

func TestMultiHandler(t *testing.T) {
	h1 := &mockHandler{enabled: true}
	h2 := &mockHandler{enabled: true}

	multi := &multiHandler{handlers: []slog.Handler{h1, h2}}

	t.Run("Enabled", func(t *testing.T) {
		assert.True(t, multi.Enabled(context.Background(), slog.LevelInfo))

		h1.enabled = false
		h2.enabled = false
		assert.False(t, multi.Enabled(context.Background(), slog.LevelInfo))
	})

	t.Run("Handle", func(t *testing.T) {
		record := slog.NewRecord(time.Now(), slog.LevelInfo, "test message", 0)
		err := multi.Handle(context.Background(), record)
		assert.NoError(t, err)
		assert.Len(t, h1.getRecords(), 1)
		assert.Len(t, h2.getRecords(), 1)
		assert.Equal(t, "test message", h1.getRecords()[0].Message)
	})

	t.Run("WithAttrs", func(t *testing.T) {
		attrs := []slog.Attr{slog.String("key", "value")}
		handlerWithAttrs := multi.WithAttrs(attrs)

		// Check if the new handler is a multiHandler
		newMulti, ok := handlerWithAttrs.(*multiHandler)
		require.True(t, ok, "WithAttrs should return a *multiHandler")

		// Check if underlying handlers have the attributes
		for _, h := range newMulti.handlers {
			mockH, ok := h.(*mockHandler)
			require.True(t, ok)
			assert.Equal(t, attrs, mockH.attrs)
		}
	})

	t.Run("WithGroup", func(t *testing.T) {
		handlerWithGroup := multi.WithGroup("my-group")

		newMulti, ok := handlerWithGroup.(*multiHandler)
		require.True(t, ok, "WithGroup should return a *multiHandler")

		for _, h := range newMulti.handlers {
			mockH, ok := h.(*mockHandler)
			require.True(t, ok)
			assert.Equal(t, "my-group", mockH.group)
		}
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("Debug true", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, true, "", "json")

		logger.Debug("debug message")
		assert.Contains(t, buf.String(), "debug message")
	})

	t.Run("Debug false", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, false, "", "json")

		logger.Debug("debug message")
		assert.Empty(t, buf.String())
	})

	t.Run("Text format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, false, "", "text")

		logger.Info("text message", "suite", "primes")
		assert.Contains(t, buf.String(), "msg=\"text message\"")
		assert.Contains(t, buf.String(), "suite=primes")
	})

	t.Run("File logging", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.log")
		var buf bytes.Buffer

		logger := NewLogger(&buf, false, path, "text")
		logger.Info("file message")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `"msg":"file message"`)
		assert.Contains(t, buf.String(), "file message")
	})

	t.Run("No handlers", func(t *testing.T) {
		logger := NewLogger(nil, false, "", "json")
		assert.NotNil(t, logger)
		logger.Info("this goes nowhere")
	})
}

func TestInitLogger(t *testing.T) {
	originalLogger := slog.Default()
	defer slog.SetDefault(originalLogger)

	logger := InitLogger(true, "", "json")
	assert.Same(t, logger, slog.Default())
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestLogHelpers(t *testing.T) {
	originalLogger := slog.Default()
	defer slog.SetDefault(originalLogger)
	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	LogDebug("selected suites", "suites", "primes")
	LogError("push failed", errors.New("boom"), "suite", "primes")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var debugLine, errorLine map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &debugLine))
	require.NoError(t, json.Unmarshal(lines[1], &errorLine))

	assert.Equal(t, "DEBUG", debugLine["level"])
	assert.Equal(t, "primes", debugLine["suites"])
	assert.Equal(t, "ERROR", errorLine["level"])
	assert.Equal(t, "boom", errorLine["error"])
	assert.Equal(t, "primes", errorLine["suite"])
}

func TestNewLogger_FileError(t *testing.T) {
	// Save original logger and restore it after the test
	originalLogger := slog.Default()
	defer slog.SetDefault(originalLogger)

	// Capture log output in a buffer
	var buf bytes.Buffer
	testLogger := slog.New(slog.NewJSONHandler(&buf, nil))
	slog.SetDefault(testLogger)

	// Use a path that's intentionally invalid for logging
	invalidPath := filepath.Join(t.TempDir(), "nonexistent/test.log")
	// Call NewLogger, which should log an error to our testLogger
	logger := NewLogger(nil, false, invalidPath, "json")
	assert.NotNil(t, logger)

	// Verify that an error was logged to our buffer
	output := buf.String()
	assert.True(t, strings.Contains(output, "Failed to open log file"), "Expected log file error message, got: "+output)
}
