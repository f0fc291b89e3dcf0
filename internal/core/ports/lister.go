package ports

import "context"

// DirectoryLister produces a bounded listing of a project tree.
//
//go:generate mockgen -source=lister.go -destination=mocks/mock_lister.go -package=mocks
type DirectoryLister interface {
	// ListFiles returns absolute paths under root, honoring ignore rules.
	// Directories carry a trailing separator. At most maxEntries paths are
	// returned; truncated reports whether entries were left out.
	ListFiles(ctx context.Context, root string, recursive bool, maxEntries int) (paths []string, truncated bool, err error)
}
