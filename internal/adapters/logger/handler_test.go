package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pathwatch/internal/adapters/logger"
)

func newPrettyHandler(t *testing.T, level slog.Level) (*logger.PrettyHandler, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	return logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: level}), buf
}

func TestPrettyHandler_Handle_Levels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		msg        string
		goldenName string
	}{
		{name: "info level", level: slog.LevelInfo, msg: "watching /proj", goldenName: "handler_info"},
		{name: "warn level", level: slog.LevelWarn, msg: "ignore file unreadable", goldenName: "handler_warn"},
		{name: "error level", level: slog.LevelError, msg: "listing failed", goldenName: "handler_error"},
		{name: "debug level filtered", level: slog.LevelDebug, msg: "event received", goldenName: "handler_debug_filtered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, buf := newPrettyHandler(t, slog.LevelInfo)
			slog.New(handler).Log(t.Context(), tt.level, tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	tests := []struct {
		name         string
		handlerLevel slog.Level
		recordLevel  slog.Level
		want         bool
	}{
		{name: "debug below info", handlerLevel: slog.LevelInfo, recordLevel: slog.LevelDebug, want: false},
		{name: "info at info", handlerLevel: slog.LevelInfo, recordLevel: slog.LevelInfo, want: true},
		{name: "error above info", handlerLevel: slog.LevelInfo, recordLevel: slog.LevelError, want: true},
		{name: "warn below error", handlerLevel: slog.LevelError, recordLevel: slog.LevelWarn, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newPrettyHandler(t, tt.handlerLevel)
			assert.Equal(t, tt.want, handler.Enabled(t.Context(), tt.recordLevel))
		})
	}
}

func TestPrettyHandler_Attrs(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(h slog.Handler) slog.Handler
		msg        string
		args       []any
		goldenName string
	}{
		{
			name:       "record attributes",
			setup:      func(h slog.Handler) slog.Handler { return h },
			msg:        "rescan complete",
			args:       []any{"paths", 42, "truncated", false},
			goldenName: "handler_record_attrs",
		},
		{
			name: "handler attributes precede record attributes",
			setup: func(h slog.Handler) slog.Handler {
				return h.WithAttrs([]slog.Attr{slog.String("root", "/proj")})
			},
			msg:        "rescan complete",
			args:       []any{"paths", 3},
			goldenName: "handler_with_attrs",
		},
		{
			name: "nested groups join with dots",
			setup: func(h slog.Handler) slog.Handler {
				return h.WithGroup("tracker").WithGroup("flood").WithAttrs([]slog.Attr{slog.Int("threshold", 100)})
			},
			msg:        "flood detected",
			args:       []any{"events", 101},
			goldenName: "handler_nested_groups",
		},
		{
			name:       "group attribute is flattened",
			setup:      func(h slog.Handler) slog.Handler { return h },
			msg:        "client connected",
			args:       []any{slog.Group("conn", slog.String("remote", "127.0.0.1"))},
			goldenName: "handler_group_attr",
		},
		{
			name:       "re-scan request",
			setup:      func(h slog.Handler) slog.Handler { return h },
			msg:        "re-scan requested",
			args:       []any{"reason", "overflow", "events", 101},
			goldenName: "handler_rescan",
		},
		{
			name:       "empty group name is ignored",
			setup:      func(h slog.Handler) slog.Handler { return h.WithGroup("") },
			msg:        "ready",
			args:       []any{"addr", "127.0.0.1:7420"},
			goldenName: "handler_empty_group",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, buf := newPrettyHandler(t, slog.LevelInfo)
			slog.New(tt.setup(handler)).Info(tt.msg, tt.args...)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_NilWriter(t *testing.T) {
	require.NotPanics(t, func() {
		_ = logger.NewPrettyHandler(nil, nil)
	})
}

func TestPrettyHandler_Handle_ReturnsError(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	handler := logger.NewPrettyHandler(&brokenWriter{}, nil)
	lg := slog.New(handler)

	require.NotPanics(t, func() {
		lg.Info("this will fail to write")
	})
}

// brokenWriter simulates a writer that always returns an error.
type brokenWriter struct{}

func (bw *brokenWriter) Write([]byte) (int, error) {
	return 0, assert.AnError
}
