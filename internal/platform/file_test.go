package platform_test

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/clayne/physfs/internal/platform"
	"github.com/clayne/physfs/internal/syscalls"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// seekFailUnix fails every seek and records which descriptors get closed.
type seekFailUnix struct {
	syscalls.RealUnix

	closedFds []int
}

func (s *seekFailUnix) Seek(fd int, offset int64, whence int) (int64, error) {
	return 0, unix.EIO
}

func (s *seekFailUnix) Close(fd int) error {
	s.closedFds = append(s.closedFds, fd)

	return s.RealUnix.Close(fd)
}

func newTestHandler(t *testing.T) *platform.Handler {
	t.Helper()

	handler := platform.NewHandler(syscalls.RealOS{}, syscalls.RealUnix{}, syscalls.RealUser{})
	require.NoError(t, handler.Init())
	t.Cleanup(func() { handler.Deinit() }) //nolint:errcheck

	return handler
}

func TestFile_WriteThenReadScenario(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t)

	path := filepath.Join(t.TempDir(), "a.txt")

	f, err := handler.OpenWrite(path)
	require.NoError(t, err)

	n, err := handler.Write(f, []byte("hello"))
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	require.NoError(t, handler.Flush(f))
	handler.Close(f)

	f, err = handler.OpenRead(path)
	require.NoError(t, err)
	defer handler.Close(f)

	length, err := handler.Length(f)
	require.NoError(t, err)
	assert.EqualValues(t, 5, length)

	buf := make([]byte, 5)
	n, err = handler.Read(f, buf)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
	assert.EqualValues(t, "hello", string(buf))

	// End of file is a zero-byte read, not an error.
	n, err = handler.Read(f, buf)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFile_SeekTellLaw(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t)

	path := filepath.Join(t.TempDir(), "seek.bin")

	f, err := handler.OpenWrite(path)
	require.NoError(t, err)
	defer handler.Close(f)

	_, err = handler.Write(f, []byte("0123456789"))
	require.NoError(t, err)

	for _, pos := range []uint64{0, 1, 5, 10} {
		require.NoError(t, handler.Seek(f, pos))

		tell, err := handler.Tell(f)
		require.NoError(t, err)
		assert.EqualValues(t, pos, tell)
	}
}

func TestFile_SeekBeyondEndExtendsOnWrite(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t)

	path := filepath.Join(t.TempDir(), "sparse.bin")

	f, err := handler.OpenWrite(path)
	require.NoError(t, err)
	defer handler.Close(f)

	_, err = handler.Write(f, []byte("12345"))
	require.NoError(t, err)

	require.NoError(t, handler.Seek(f, 10))

	_, err = handler.Write(f, []byte("x"))
	require.NoError(t, err)

	length, err := handler.Length(f)
	require.NoError(t, err)
	assert.EqualValues(t, 11, length)
}

func TestFile_OpenAppend(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t)

	path := filepath.Join(t.TempDir(), "append.log")

	// A nonexistent path is created and positioned at offset 0.
	f, err := handler.OpenAppend(path)
	require.NoError(t, err)

	tell, err := handler.Tell(f)
	require.NoError(t, err)
	assert.Zero(t, tell)

	_, err = handler.Write(f, []byte("12345"))
	require.NoError(t, err)
	handler.Close(f)

	// An existing path of length L positions the first write at offset L.
	f, err = handler.OpenAppend(path)
	require.NoError(t, err)
	defer handler.Close(f)

	tell, err = handler.Tell(f)
	require.NoError(t, err)
	assert.EqualValues(t, 5, tell)

	_, err = handler.Write(f, []byte("678"))
	require.NoError(t, err)

	length, err := handler.Length(f)
	require.NoError(t, err)
	assert.EqualValues(t, 8, length)
}

func TestFile_OpenAppendSeekFailureClosesDescriptor(t *testing.T) {
	t.Parallel()

	stub := &seekFailUnix{}
	handler := platform.NewHandler(syscalls.RealOS{}, stub, syscalls.RealUser{})
	require.NoError(t, handler.Init())

	f, err := handler.OpenAppend(filepath.Join(t.TempDir(), "append.log"))
	require.Error(t, err)
	assert.Nil(t, f)

	// The descriptor opened before the failing seek must not leak.
	require.Len(t, stub.closedFds, 1)
	assert.GreaterOrEqual(t, stub.closedFds[0], 0)
}

func TestFile_FlushReadOnlyIsNoop(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t)

	path := filepath.Join(t.TempDir(), "ro.txt")

	f, err := handler.OpenWrite(path)
	require.NoError(t, err)
	handler.Close(f)

	f, err = handler.OpenRead(path)
	require.NoError(t, err)
	defer handler.Close(f)

	require.NoError(t, handler.Flush(f))
}

func TestFile_SeekOverflowFailsCleanly(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t)

	path := filepath.Join(t.TempDir(), "of.bin")

	f, err := handler.OpenWrite(path)
	require.NoError(t, err)
	defer handler.Close(f)

	err = handler.Seek(f, math.MaxUint64)
	require.ErrorIs(t, err, platform.ErrInvalidArgument)
}

func TestFile_UseAfterClose(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t)

	path := filepath.Join(t.TempDir(), "closed.txt")

	f, err := handler.OpenWrite(path)
	require.NoError(t, err)

	handler.Close(f)
	// A second close of the same handle is tolerated.
	handler.Close(f)

	_, err = handler.Read(f, make([]byte, 1))
	require.ErrorIs(t, err, platform.ErrHandleClosed)

	_, err = handler.Write(f, []byte("x"))
	require.ErrorIs(t, err, platform.ErrHandleClosed)
}

func TestFile_RequiresInit(t *testing.T) {
	t.Parallel()

	handler := platform.NewHandler(syscalls.RealOS{}, syscalls.RealUnix{}, syscalls.RealUser{})

	_, err := handler.OpenRead("/etc/hostname")
	require.ErrorIs(t, err, platform.ErrNotInitialized)
}

func TestFile_OpenFailureRecordsLastError(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t)

	_, err := handler.OpenRead(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	assert.NotEmpty(t, handler.LastError())
}
