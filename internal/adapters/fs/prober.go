package fs

import (
	"context"
	"os"

	"go.trai.ch/zerr"
)

// Prober implements ports.FileProber with os.Stat.
type Prober struct{}

// NewProber creates a new Prober.
func NewProber() *Prober {
	return &Prober{}
}

// Stat reports whether path is a directory. Symlinks are followed.
func (p *Prober) Stat(_ context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
	}
	return info.IsDir(), nil
}
