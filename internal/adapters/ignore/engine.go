// Package ignore evaluates gitignore rules and exclusion globs for paths under a project root.
package ignore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"
	"go.trai.ch/pathwatch/internal/core/domain"
	"go.trai.ch/pathwatch/internal/core/ports"
	"go.trai.ch/zerr"
)

// ReadFileFunc reads a whole file. It matches os.ReadFile.
type ReadFileFunc func(path string) ([]byte, error)

// rule is one .gitignore line. Negated lines are compiled without their
// leading "!" so a match can re-include a path.
type rule struct {
	pattern *gitignore.GitIgnore
	negate  bool
}

// layer is one .gitignore file, anchored at the directory holding it.
type layer struct {
	base  string
	rules []rule
}

// ruleset is the ordered list of layers from the project root down to a directory.
type ruleset []layer

// Engine implements ports.IgnoreEvaluator.
//
// Rulesets are cached per directory and only invalidated by ClearCache.
type Engine struct {
	root     string
	logger   ports.Logger
	readFile ReadFileFunc

	mu    sync.Mutex
	cache map[string]ruleset
}

// Option configures an Engine.
type Option func(*Engine)

// WithReadFile replaces the function used to read .gitignore files.
func WithReadFile(fn ReadFileFunc) Option {
	return func(e *Engine) {
		e.readFile = fn
	}
}

// NewEngine creates an Engine for the given project root.
func NewEngine(root string, logger ports.Logger, opts ...Option) *Engine {
	e := &Engine{
		root:     root,
		logger:   logger,
		readFile: os.ReadFile,
		cache:    make(map[string]ruleset),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ShouldIgnore reports whether path is excluded by a .gitignore file or by
// one of the exclusion globs.
func (e *Engine) ShouldIgnore(path string, exclusionGlobs []string) bool {
	p := domain.Normalize(path)
	if p == "" {
		return false
	}

	rel, inside := p.Rel(e.root)
	if !inside {
		return matchesAny(exclusionGlobs, p.Base(), p.IsDir())
	}

	if e.rulesetFor(filepath.Dir(p.Trimmed())).matches(p) {
		return true
	}
	return matchesAny(exclusionGlobs, strings.TrimSuffix(rel, "/"), p.IsDir())
}

// ClearCache drops every cached ruleset.
func (e *Engine) ClearCache() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cache = make(map[string]ruleset)
}

// ValidateGlobs returns domain.ErrInvalidGlob for the first malformed pattern.
func ValidateGlobs(globs []string) error {
	for _, g := range globs {
		if !doublestar.ValidatePattern(g) {
			return zerr.With(domain.ErrInvalidGlob, "pattern", g)
		}
	}
	return nil
}

func (e *Engine) rulesetFor(dir string) ruleset {
	e.mu.Lock()
	defer e.mu.Unlock()

	if rs, ok := e.cache[dir]; ok {
		return rs
	}

	rs := e.load(dir)
	e.cache[dir] = rs
	return rs
}

// load walks from dir up to the project root and compiles each .gitignore,
// returning the layers root first.
func (e *Engine) load(dir string) ruleset {
	root := filepath.Clean(e.root)

	var dirs []string
	for cur := dir; ; {
		dirs = append(dirs, cur)
		if cur == root {
			break
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}

	var rs ruleset
	for i := len(dirs) - 1; i >= 0; i-- {
		lines, ok := e.readLines(filepath.Join(dirs[i], domain.IgnoreFileName))
		if !ok || len(lines) == 0 {
			continue
		}
		rs = append(rs, layer{base: dirs[i], rules: compileRules(lines)})
	}
	return rs
}

func (e *Engine) readLines(path string) ([]string, bool) {
	data, err := e.readFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			e.logger.Warn(zerr.Wrap(err, domain.ErrIgnoreFileReadFailed.Error()+": "+path).Error())
		}
		return nil, false
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lines = append(lines, trimmed)
	}
	return lines, true
}

func compileRules(lines []string) []rule {
	rules := make([]rule, 0, len(lines))
	for _, line := range lines {
		negate := strings.HasPrefix(line, "!")
		pattern := strings.TrimPrefix(line, "!")
		if pattern == "" {
			continue
		}
		rules = append(rules, rule{pattern: gitignore.CompileIgnoreLines(pattern), negate: negate})
	}
	return rules
}

// matches evaluates p against every rule from the root layer down, each
// layer relative to its own base. The last matching rule decides.
func (rs ruleset) matches(p domain.TrackedPath) bool {
	ignored := false
	for _, l := range rs {
		rel, ok := p.Rel(l.base)
		if !ok {
			continue
		}
		for _, r := range l.rules {
			if r.pattern.MatchesPath(rel) {
				ignored = !r.negate
			}
		}
	}
	return ignored
}

func matchesAny(globs []string, rel string, isDir bool) bool {
	for _, g := range globs {
		if doublestar.MatchUnvalidated(g, rel) {
			return true
		}
		if isDir && doublestar.MatchUnvalidated(g, rel+"/") {
			return true
		}
	}
	return false
}
