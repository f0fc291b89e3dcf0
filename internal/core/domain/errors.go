package domain

import "go.trai.ch/zerr"

var (
	// ErrListingFailed is returned when the directory lister cannot produce a listing of the project tree.
	ErrListingFailed = zerr.New("failed to list project files")

	// ErrInvalidGlob is returned when an exclusion glob pattern is malformed.
	ErrInvalidGlob = zerr.New("invalid exclusion glob")

	// ErrIgnoreFileReadFailed is returned when a .gitignore file exists but cannot be read.
	ErrIgnoreFileReadFailed = zerr.New("failed to read ignore file")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when the config file contains out-of-range values.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrRootNotDirectory is returned when the project root does not exist or is not a directory.
	ErrRootNotDirectory = zerr.New("project root is not a directory")

	// ErrFailedToGetRoot is returned when the project root path cannot be made absolute.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of project root")

	// ErrWatcherStartFailed is returned when the filesystem watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start filesystem watcher")

	// ErrInvalidLogFormat is returned when --log-format is not one of auto, pretty or json.
	ErrInvalidLogFormat = zerr.New("invalid log format")

	// ErrWatcherStopped is returned when the watcher's event stream ends while the tracker is still running.
	ErrWatcherStopped = zerr.New("filesystem watcher stopped unexpectedly")

	// ErrTaskPanicked is reported when a sequenced task panics.
	ErrTaskPanicked = zerr.New("sequenced task panicked")

	// ErrSequencerClosed is returned when work is submitted to a sequencer that has been closed.
	ErrSequencerClosed = zerr.New("sequencer is closed")

	// ErrDeliveryFailed is returned when a workspace update cannot be delivered to the consumer.
	ErrDeliveryFailed = zerr.New("failed to deliver workspace update")

	// ErrServerFailed is returned when the update server stops with an error.
	ErrServerFailed = zerr.New("update server failed")
)
