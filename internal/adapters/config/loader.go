// Package config loads the optional pathwatch.yaml project configuration.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"net"
	"path/filepath"
	"time"

	"go.trai.ch/pathwatch/internal/adapters/ignore"
	"go.trai.ch/pathwatch/internal/core/domain"
	"go.trai.ch/pathwatch/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a new Loader reading from the OS filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, FS: NewOSFS()}
}

// NewLoaderWithFS creates a new Loader reading from fsys.
func NewLoaderWithFS(logger ports.Logger, fsys FileSystem) *Loader {
	return &Loader{Logger: logger, FS: fsys}
}

// Load reads root/pathwatch.yaml. A missing file yields the defaults.
// Fields present in the file replace the corresponding default; an explicit
// exclude list replaces the built-in exclusions.
func (l *Loader) Load(root string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()
	configPath := filepath.Join(root, domain.ConfigFileName)

	data, err := l.FS.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
	}

	var file File
	if err := decodeStrict(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", configPath)
	}

	if err := l.apply(cfg, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	return cfg, nil
}

// DiscoverRoot walks up from cwd to the nearest directory holding
// pathwatch.yaml or .git. It falls back to cwd when neither is found.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrFailedToGetRoot.Error()), "cwd", cwd)
	}

	for dir := abs; ; {
		for _, marker := range []string{domain.ConfigFileName, domain.VCSDirName} {
			if _, err := l.FS.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		dir = parent
	}
}

func (l *Loader) apply(cfg *domain.Config, file *File) error {
	if file.Exclude != nil {
		if err := ignore.ValidateGlobs(file.Exclude); err != nil {
			return err
		}
		cfg.Exclude = file.Exclude
	}

	if file.Debounce != "" {
		d, err := time.ParseDuration(file.Debounce)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrInvalidConfig.Error()), "field", "debounce")
		}
		if d <= 0 {
			return zerr.With(zerr.With(domain.ErrInvalidConfig, "field", "debounce"), "value", file.Debounce)
		}
		cfg.Debounce = d
	}

	if file.MaxPaths != nil {
		if *file.MaxPaths <= 0 {
			return zerr.With(zerr.With(domain.ErrInvalidConfig, "field", "maxPaths"), "value", *file.MaxPaths)
		}
		cfg.MaxPaths = *file.MaxPaths
	}

	if file.FloodThreshold != nil {
		if *file.FloodThreshold <= 0 {
			return zerr.With(zerr.With(domain.ErrInvalidConfig, "field", "floodThreshold"), "value", *file.FloodThreshold)
		}
		cfg.FloodThreshold = *file.FloodThreshold
	}

	if file.Listen != "" {
		host, _, err := net.SplitHostPort(file.Listen)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrInvalidConfig.Error()), "field", "listen")
		}
		if ip := net.ParseIP(host); host != "localhost" && (ip == nil || !ip.IsLoopback()) {
			l.Logger.Warn("listen address " + file.Listen + " is not loopback; workspace paths will be reachable from the network")
		}
		cfg.Listen = file.Listen
	}

	return nil
}

// decodeStrict unmarshals YAML and rejects unknown keys. An empty document
// leaves target untouched.
func decodeStrict(data []byte, target *File) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
