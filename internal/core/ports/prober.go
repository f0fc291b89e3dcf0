package ports

import "context"

// FileProber classifies filesystem entries.
//
//go:generate mockgen -source=prober.go -destination=mocks/mock_prober.go -package=mocks
type FileProber interface {
	// Stat reports whether path is a directory.
	// It returns an error if the entry cannot be inspected, typically because it no longer exists.
	Stat(ctx context.Context, path string) (isDir bool, err error)
}
