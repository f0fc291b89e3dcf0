package ignore_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pathwatch/internal/adapters/ignore"
	"go.trai.ch/pathwatch/internal/core/domain"
	"go.trai.ch/pathwatch/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type countingReader struct {
	mu    sync.Mutex
	reads map[string]int
}

func newCountingReader() *countingReader {
	return &countingReader{reads: make(map[string]int)}
}

func (c *countingReader) ReadFile(path string) ([]byte, error) {
	c.mu.Lock()
	c.reads[path]++
	c.mu.Unlock()
	return os.ReadFile(path)
}

func (c *countingReader) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.reads {
		n += v
	}
	return n
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func dir(parts ...string) string {
	return filepath.Join(parts...) + string(filepath.Separator)
}

func newEngine(t *testing.T, root string, opts ...ignore.Option) *ignore.Engine {
	t.Helper()
	ctrl := gomock.NewController(t)
	return ignore.NewEngine(root, mocks.NewMockLogger(ctrl), opts...)
}

func TestEngine_GitignoreLayers(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "# build output\n*.log\nbuild/\n\n!keep.log\n")
	writeFile(t, filepath.Join(root, "sub", ".gitignore"), "secret.txt\n/local.txt\n")

	e := newEngine(t, root)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "root pattern", path: filepath.Join(root, "app.log"), want: true},
		{name: "root pattern in subdirectory", path: filepath.Join(root, "src", "debug.log"), want: true},
		{name: "negated pattern", path: filepath.Join(root, "keep.log"), want: false},
		{name: "file under ignored directory", path: filepath.Join(root, "build", "out.js"), want: true},
		{name: "ignored directory", path: dir(root, "build"), want: true},
		{name: "plain file", path: filepath.Join(root, "main.go"), want: false},
		{name: "nested rule", path: filepath.Join(root, "sub", "secret.txt"), want: true},
		{name: "nested rule does not apply above", path: filepath.Join(root, "secret.txt"), want: false},
		{name: "anchored nested rule", path: filepath.Join(root, "sub", "local.txt"), want: true},
		{name: "anchored nested rule is not recursive", path: filepath.Join(root, "sub", "deeper", "local.txt"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.ShouldIgnore(tt.path, nil))
		})
	}
}

func TestEngine_LastMatchWinsAcrossLayers(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "*.log\n!shared.txt\n")
	writeFile(t, filepath.Join(root, "sub", ".gitignore"), "!keep.log\nshared.txt\n")
	writeFile(t, filepath.Join(root, "sub", "deeper", ".gitignore"), "keep.log\n")

	e := newEngine(t, root)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "child negation re-includes parent match", path: filepath.Join(root, "sub", "keep.log"), want: false},
		{name: "parent rule still applies to siblings", path: filepath.Join(root, "sub", "other.log"), want: true},
		{name: "grandchild rule overrides child negation", path: filepath.Join(root, "sub", "deeper", "keep.log"), want: true},
		{name: "child rule overrides parent negation", path: filepath.Join(root, "sub", "shared.txt"), want: true},
		{name: "parent negation without earlier match", path: filepath.Join(root, "shared.txt"), want: false},
		{name: "negation outside its directory", path: filepath.Join(root, "keep.log"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.ShouldIgnore(tt.path, nil))
		})
	}
}

func TestEngine_ExclusionGlobs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	e := newEngine(t, root)
	globs := []string{"**/node_modules/**", "config/*", "**/*.tmp"}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "nested file", path: filepath.Join(root, "web", "node_modules", "x", "y.js"), want: true},
		{name: "directory itself", path: dir(root, "node_modules"), want: true},
		{name: "dotfile", path: filepath.Join(root, "config", ".env"), want: true},
		{name: "suffix anywhere", path: filepath.Join(root, "a", "b", "c.tmp"), want: true},
		{name: "unrelated", path: filepath.Join(root, "src", "main.go"), want: false},
		{name: "outside root uses base name", path: filepath.Join(filepath.Dir(root), "elsewhere", "x.tmp"), want: true},
		{name: "outside root base name only", path: filepath.Join(filepath.Dir(root), "node_modules", "y.js"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.ShouldIgnore(tt.path, globs))
		})
	}
}

func TestEngine_OutsideRootSkipsGitignore(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	root := filepath.Join(parent, "proj")
	writeFile(t, filepath.Join(parent, ".gitignore"), "*.log\n")
	writeFile(t, filepath.Join(root, "a.txt"), "")

	reader := newCountingReader()
	e := newEngine(t, root, ignore.WithReadFile(reader.ReadFile))

	assert.False(t, e.ShouldIgnore(filepath.Join(parent, "other.log"), nil))
	assert.False(t, e.ShouldIgnore(filepath.Join(root, "x.log"), nil), "rules above the root do not apply")
	assert.Zero(t, reader.reads[filepath.Join(parent, ".gitignore")])
}

func TestEngine_CacheCoherence(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	gitignorePath := filepath.Join(root, ".gitignore")
	writeFile(t, gitignorePath, "*.log\n")

	reader := newCountingReader()
	e := newEngine(t, root, ignore.WithReadFile(reader.ReadFile))

	target := filepath.Join(root, "a.txt")
	require.False(t, e.ShouldIgnore(target, nil))
	require.Equal(t, 1, reader.total())

	// Same directory: served from cache.
	assert.True(t, e.ShouldIgnore(filepath.Join(root, "b.log"), nil))
	assert.Equal(t, 1, reader.total())

	writeFile(t, gitignorePath, "*.log\na.txt\n")

	assert.False(t, e.ShouldIgnore(target, nil), "stale rules until the cache is cleared")
	assert.Equal(t, 1, reader.total())

	e.ClearCache()

	assert.True(t, e.ShouldIgnore(target, nil))
	assert.Equal(t, 2, reader.total())
}

func TestEngine_UnreadableIgnoreFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sub", ".gitignore"), "*.txt\n")

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	var warned string
	logger.EXPECT().Warn(gomock.Any()).Do(func(msg string) { warned = msg }).Times(1)

	broken := filepath.Join(root, ".gitignore")
	e := ignore.NewEngine(root, logger, ignore.WithReadFile(func(path string) ([]byte, error) {
		if path == broken {
			return nil, fs.ErrPermission
		}
		return os.ReadFile(path)
	}))

	// The root layer is skipped; the nested one still applies.
	assert.True(t, e.ShouldIgnore(filepath.Join(root, "sub", "a.txt"), nil))
	assert.Contains(t, warned, domain.ErrIgnoreFileReadFailed.Error())
	assert.Contains(t, warned, broken)
}

func TestEngine_MissingIgnoreFilesAreSilent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	e := newEngine(t, root)

	assert.False(t, e.ShouldIgnore(filepath.Join(root, "deep", "er", "x.go"), nil))
}

func TestValidateGlobs(t *testing.T) {
	t.Parallel()

	require.NoError(t, ignore.ValidateGlobs(domain.DefaultExclusions()))
	require.NoError(t, ignore.ValidateGlobs(nil))

	err := ignore.ValidateGlobs([]string{"**/ok/**", "[abc"})
	require.ErrorContains(t, err, domain.ErrInvalidGlob.Error())

	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr))
	assert.Equal(t, "[abc", zErr.Metadata()["pattern"])
}
