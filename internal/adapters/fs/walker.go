// Package fs provides file system adapters for listing and probing project paths.
package fs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/pathwatch/internal/core/domain"
	"go.trai.ch/pathwatch/internal/core/ports"
	"go.trai.ch/zerr"
)

const separator = string(filepath.Separator)

// Lister implements ports.DirectoryLister by walking the project tree.
type Lister struct {
	ignore  ports.IgnoreEvaluator
	exclude []string
}

// NewLister creates a Lister that skips whatever evaluator and exclude reject.
func NewLister(evaluator ports.IgnoreEvaluator, exclude []string) *Lister {
	return &Lister{ignore: evaluator, exclude: exclude}
}

// ListFiles returns absolute paths under root, directories marked with a
// trailing separator. It never descends into VCS metadata or ignored
// directories. At most maxEntries paths are returned; truncated reports
// whether more were available.
func (l *Lister) ListFiles(ctx context.Context, root string, recursive bool, maxEntries int) ([]string, bool, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, false, zerr.With(zerr.Wrap(err, domain.ErrRootNotDirectory.Error()), "root", root)
	}
	if !info.IsDir() {
		return nil, false, zerr.With(domain.ErrRootNotDirectory, "root", root)
	}

	var (
		paths     []string
		truncated bool
	)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			// Unreadable entries are skipped, continue walking.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		if skip := shouldSkipDir(d); skip != nil {
			return skip
		}

		entry := path
		if d.IsDir() {
			entry += separator
		}

		if l.ignore.ShouldIgnore(entry, l.exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if maxEntries > 0 && len(paths) >= maxEntries {
			truncated = true
			return filepath.SkipAll
		}
		paths = append(paths, entry)

		if d.IsDir() && !recursive {
			return filepath.SkipDir
		}
		return nil
	})
	if walkErr != nil {
		return nil, false, zerr.With(zerr.Wrap(walkErr, "failed to walk project tree"), "root", root)
	}

	return paths, truncated, nil
}

// shouldSkipDir returns filepath.SkipDir for VCS metadata directories.
func shouldSkipDir(d fs.DirEntry) error {
	if !d.IsDir() {
		return nil
	}
	switch d.Name() {
	case domain.VCSDirName, ".jj":
		return filepath.SkipDir
	}
	return nil
}
