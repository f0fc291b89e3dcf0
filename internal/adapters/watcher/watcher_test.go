package watcher_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pathwatch/internal/adapters/watcher"
	"go.trai.ch/pathwatch/internal/core/ports"
	"go.trai.ch/pathwatch/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestConvertEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		op     fsnotify.Op
		want   ports.EventKind
		wantOK bool
	}{
		{name: "create", op: fsnotify.Create, want: ports.EventCreated, wantOK: true},
		{name: "write", op: fsnotify.Write, want: ports.EventChanged, wantOK: true},
		{name: "chmod", op: fsnotify.Chmod, want: ports.EventChanged, wantOK: true},
		{name: "remove", op: fsnotify.Remove, want: ports.EventDeleted, wantOK: true},
		{name: "rename", op: fsnotify.Rename, want: ports.EventDeleted, wantOK: true},
		{name: "create wins over write", op: fsnotify.Create | fsnotify.Write, want: ports.EventCreated, wantOK: true},
		{name: "no op", op: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := watcher.ConvertEvent(fsnotify.Event{Name: "/proj/a.txt", Op: tt.op})
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got.Kind)
				assert.Equal(t, "/proj/a.txt", got.Path)
			}
		})
	}
}

func nextEvent(t *testing.T, events <-chan ports.WatchEvent, match func(ports.WatchEvent) bool) ports.WatchEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "event stream closed early")
			if match(ev) {
				return ev
			}
		case <-timeout:
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestWatcher_EmitsEvents(t *testing.T) {
	root := t.TempDir()

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	w, err := watcher.NewWatcher(logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, root))

	events := make(chan ports.WatchEvent, 64)
	go func() {
		defer close(events)
		for ev := range w.Events() {
			events <- ev
		}
	}()

	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o750))
	ev := nextEvent(t, events, func(ev ports.WatchEvent) bool { return ev.Kind == ports.EventCreated })
	assert.Equal(t, sub+string(filepath.Separator), ev.Path, "directories carry a trailing separator")

	// The new directory is watched too.
	file := filepath.Join(sub, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	ev = nextEvent(t, events, func(ev ports.WatchEvent) bool { return ev.Path == file })
	assert.Equal(t, ports.EventCreated, ev.Kind)

	require.NoError(t, os.Remove(file))
	ev = nextEvent(t, events, func(ev ports.WatchEvent) bool {
		return ev.Path == file && ev.Kind == ports.EventDeleted
	})
	assert.Equal(t, ports.EventDeleted, ev.Kind)

	require.NoError(t, w.Stop())

	// The stream ends after Stop.
	for range events {
	}
}

func TestWatcher_OverflowIsReported(t *testing.T) {
	root := t.TempDir()

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).Times(2)

	w, err := watcher.NewWatcher(logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, root))

	events := make(chan ports.WatchEvent, 8)
	go func() {
		defer close(events)
		for ev := range w.Events() {
			events <- ev
		}
	}()

	// Other watcher errors are only logged.
	w.InjectError(errors.New("transient failure"))
	w.InjectError(fsnotify.ErrEventOverflow)

	ev := nextEvent(t, events, func(ports.WatchEvent) bool { return true })
	assert.Equal(t, ports.WatchEvent{Kind: ports.EventOverflow}, ev)

	require.NoError(t, w.Stop())
	for range events {
	}
}
