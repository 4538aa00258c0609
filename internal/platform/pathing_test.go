package platform_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clayne/physfs/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcBaseDir(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t)

	baseDir, err := handler.CalcBaseDir(os.Args[0])
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(baseDir, platform.DirSeparator))
	assert.True(t, strings.HasPrefix(baseDir, platform.DirSeparator))

	// The stripped component is a filename, so the directory must exist.
	info, err := os.Stat(baseDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCurrentDir(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t)

	dir, err := handler.CurrentDir()
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(dir, platform.DirSeparator))
	assert.False(t, strings.HasSuffix(strings.TrimSuffix(dir, platform.DirSeparator), platform.DirSeparator),
		"exactly one trailing separator expected")

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.EqualValues(t, strings.TrimRight(cwd, platform.DirSeparator)+platform.DirSeparator, dir)
}

func TestUserDirAndName(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t)

	userDir, err := handler.UserDir()
	if err == nil {
		assert.NotEmpty(t, userDir)

		// The cache is read-only after Init: a second call returns the same.
		again, err := handler.UserDir()
		require.NoError(t, err)
		assert.EqualValues(t, userDir, again)
	} else {
		require.ErrorIs(t, err, platform.ErrUserDirUnavailable)
	}

	if userName, err := handler.UserName(); err == nil {
		assert.NotEmpty(t, userName)
	}
}

func TestUserDir_RequiresInit(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t)

	require.NoError(t, handler.Deinit())

	_, err := handler.UserDir()
	require.ErrorIs(t, err, platform.ErrNotInitialized)
}

func TestRealPath_IdentityPassthrough(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t)

	path, err := handler.RealPath("/some/dir/../path")
	require.NoError(t, err)
	assert.EqualValues(t, "/some/dir/../path", path)
}

func TestCvtToDependent(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t)

	assert.EqualValues(t, "/base/dir/file.txt", handler.CvtToDependent("/base/", "dir", "/file.txt"))
	assert.EqualValues(t, "dir", handler.CvtToDependent("", "dir", ""))
	assert.EqualValues(t, "a/b/c", handler.CvtToDependent("a/", "b", "/c"))
}

func TestMkDirAndDelete(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t)

	dir := filepath.Join(t.TempDir(), "made")
	require.NoError(t, handler.MkDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("data"), 0o644))

	require.NoError(t, handler.Delete(file))
	require.NoError(t, handler.Delete(dir))

	_, err = os.Stat(dir)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDelete_SymlinkNotFollowed(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t)

	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	link := filepath.Join(dir, "link")

	require.NoError(t, os.WriteFile(target, []byte("data"), 0o644))
	require.NoError(t, os.Symlink(target, link))

	require.NoError(t, handler.Delete(link))

	// The link is gone, the target survives.
	_, err := os.Lstat(link)
	require.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(target)
	require.NoError(t, err)
}

func TestThreadID(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t)

	assert.NotZero(t, handler.ThreadID())
}
