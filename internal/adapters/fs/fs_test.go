package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pathwatch/internal/adapters/fs"
	"go.trai.ch/pathwatch/internal/adapters/ignore"
	"go.trai.ch/pathwatch/internal/core/domain"
	"go.trai.ch/pathwatch/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const sep = string(filepath.Separator)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	}
}

func newLister(t *testing.T, root string) *fs.Lister {
	t.Helper()
	ctrl := gomock.NewController(t)
	engine := ignore.NewEngine(root, mocks.NewMockLogger(ctrl))
	return fs.NewLister(engine, domain.DefaultExclusions())
}

func TestLister_ListFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root,
		".gitignore",
		"a.txt",
		"sub/b.txt",
		".git/config",
		".jj/store",
		"node_modules/x/index.js",
		"build/out.js",
	)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("build/\n"), 0o600))

	paths, truncated, err := newLister(t, root).ListFiles(context.Background(), root, true, 100)
	require.NoError(t, err)
	assert.False(t, truncated)

	assert.ElementsMatch(t, []string{
		filepath.Join(root, ".gitignore"),
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "sub") + sep,
		filepath.Join(root, "sub", "b.txt"),
	}, paths)
}

func TestLister_ListFiles_NonRecursive(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, "a.txt", "sub/b.txt", "sub/deeper/c.txt")

	paths, truncated, err := newLister(t, root).ListFiles(context.Background(), root, false, 100)
	require.NoError(t, err)
	assert.False(t, truncated)

	assert.ElementsMatch(t, []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "sub") + sep,
	}, paths)
}

func TestLister_ListFiles_Truncates(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, "1.txt", "2.txt", "3.txt", "4.txt", "5.txt")
	lister := newLister(t, root)

	paths, truncated, err := lister.ListFiles(context.Background(), root, true, 3)
	require.NoError(t, err)
	assert.True(t, truncated)
	assert.Equal(t, []string{
		filepath.Join(root, "1.txt"),
		filepath.Join(root, "2.txt"),
		filepath.Join(root, "3.txt"),
	}, paths)

	paths, truncated, err = lister.ListFiles(context.Background(), root, true, 5)
	require.NoError(t, err)
	assert.False(t, truncated, "an exact fit is not a truncation")
	assert.Len(t, paths, 5)
}

func TestLister_ListFiles_RootErrors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, "file.txt")
	lister := newLister(t, root)

	_, _, err := lister.ListFiles(context.Background(), filepath.Join(root, "file.txt"), true, 10)
	require.ErrorContains(t, err, domain.ErrRootNotDirectory.Error())

	_, _, err = lister.ListFiles(context.Background(), filepath.Join(root, "missing"), true, 10)
	require.ErrorContains(t, err, domain.ErrRootNotDirectory.Error())
}

func TestLister_ListFiles_Cancelled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, "a.txt")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := newLister(t, root).ListFiles(ctx, root, true, 10)
	require.ErrorIs(t, err, context.Canceled)
}

func TestProber_Stat(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, "a.txt")
	prober := fs.NewProber()

	isDir, err := prober.Stat(context.Background(), root)
	require.NoError(t, err)
	assert.True(t, isDir)

	isDir, err = prober.Stat(context.Background(), filepath.Join(root, "a.txt"))
	require.NoError(t, err)
	assert.False(t, isDir)

	_, err = prober.Stat(context.Background(), filepath.Join(root, "gone"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
