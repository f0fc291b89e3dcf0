// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"iter"
)

//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks

// EventKind represents the type of file system change.
type EventKind uint8

const (
	// EventCreated indicates a file or directory was created.
	EventCreated EventKind = iota
	// EventChanged indicates a file or directory was modified.
	EventChanged
	// EventDeleted indicates a file or directory was removed or moved away.
	EventDeleted
	// EventOverflow indicates the event source dropped events. Path is empty.
	EventOverflow
)

// String returns a lower-case name for the kind.
func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventChanged:
		return "changed"
	case EventDeleted:
		return "deleted"
	case EventOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// WatchEvent represents a raw file system event from the watcher.
type WatchEvent struct {
	// Path is the absolute path of the file or directory that changed.
	Path string
	// Kind is the type of change that occurred.
	Kind EventKind
}

// Watcher defines the interface for watching file system changes.
type Watcher interface {
	// Start begins watching the given root directory recursively.
	// It returns an error if the watcher fails to start.
	Start(ctx context.Context, root string) error
	// Stop stops the watcher and releases all resources.
	Stop() error
	// Events returns an iterator of file system events.
	Events() iter.Seq[WatchEvent]
}
