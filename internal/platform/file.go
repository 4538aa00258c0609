package platform

import (
	"math"

	"golang.org/x/sys/unix"
)

const (
	// maxRWChunk is the largest byte count a single read or write may carry;
	// the kernel caps transfers at MAX_RW_COUNT and larger requests are
	// rejected here instead of silently shortened.
	maxRWChunk = 0x7ffff000

	defaultFileMode = 0o666
)

// File is an opaque handle wrapping a native file descriptor. A handle is
// owned exclusively by the caller that opened it and must not be used after
// [Handler.Close]. Concurrent calls on different handles are safe; access to
// a single handle is not synchronized by this layer.
type File struct {
	fd       int
	readOnly bool
}

// OpenRead opens an existing file for reading.
func (h *Handler) OpenRead(path string) (*File, error) {
	return h.doOpen(path, unix.O_RDONLY, true)
}

// OpenWrite creates a file for writing, truncating any existing content.
func (h *Handler) OpenWrite(path string) (*File, error) {
	return h.doOpen(path, unix.O_WRONLY|unix.O_CREAT|unix.O_TRUNC, false)
}

// OpenAppend opens or creates a file for writing and positions the handle at
// the end of the existing content. If the post-open seek fails, the
// descriptor is closed before the failure is reported.
func (h *Handler) OpenAppend(path string) (*File, error) {
	f, err := h.doOpen(path, unix.O_WRONLY|unix.O_CREAT, false)
	if err != nil {
		return nil, err
	}

	if _, err := h.UnixOps.Seek(f.fd, 0, unix.SEEK_END); err != nil {
		h.UnixOps.Close(f.fd) //nolint:errcheck
		f.fd = -1

		return nil, h.errf("(platform-file) failed to seek to end of %s: %w", path, err)
	}

	return f, nil
}

func (h *Handler) doOpen(path string, flags int, readOnly bool) (*File, error) {
	if err := h.ensureInit(); err != nil {
		return nil, err
	}

	if _, err := ToNative(path); err != nil {
		return nil, h.errf("(platform-file) cannot represent path: %w", err)
	}

	fd, err := h.UnixOps.Open(path, flags|unix.O_CLOEXEC, defaultFileMode)
	if err != nil {
		return nil, h.errf("(platform-file) failed to open %s: %w", path, err)
	}

	return &File{fd: fd, readOnly: readOnly}, nil
}

// Read reads up to len(buf) bytes from the handle's current position and
// returns the number of bytes read; zero at end of file.
func (h *Handler) Read(f *File, buf []byte) (int, error) {
	if f == nil || f.fd < 0 {
		return 0, h.errf("(platform-file) %w", ErrHandleClosed)
	}

	if int64(len(buf)) > maxRWChunk {
		return 0, h.errf("(platform-file) read of %d bytes: %w", len(buf), ErrInvalidArgument)
	}

	n, err := h.UnixOps.Read(f.fd, buf)
	if err != nil {
		return 0, h.errf("(platform-file) failed to read: %w", err)
	}

	return n, nil
}

// Write writes len(buf) bytes at the handle's current position and returns
// the number of bytes written.
func (h *Handler) Write(f *File, buf []byte) (int, error) {
	if f == nil || f.fd < 0 {
		return 0, h.errf("(platform-file) %w", ErrHandleClosed)
	}

	if int64(len(buf)) > maxRWChunk {
		return 0, h.errf("(platform-file) write of %d bytes: %w", len(buf), ErrInvalidArgument)
	}

	n, err := h.UnixOps.Write(f.fd, buf)
	if err != nil {
		return 0, h.errf("(platform-file) failed to write: %w", err)
	}

	return n, nil
}

// Seek positions the handle at an absolute byte offset. Offsets beyond the
// representable range fail with [ErrInvalidArgument] instead of truncating.
func (h *Handler) Seek(f *File, pos uint64) error {
	if f == nil || f.fd < 0 {
		return h.errf("(platform-file) %w", ErrHandleClosed)
	}

	if pos > math.MaxInt64 {
		return h.errf("(platform-file) seek to %d: %w", pos, ErrInvalidArgument)
	}

	if _, err := h.UnixOps.Seek(f.fd, int64(pos), unix.SEEK_SET); err != nil {
		return h.errf("(platform-file) failed to seek: %w", err)
	}

	return nil
}

// Tell returns the handle's current absolute byte offset.
func (h *Handler) Tell(f *File) (uint64, error) {
	if f == nil || f.fd < 0 {
		return 0, h.errf("(platform-file) %w", ErrHandleClosed)
	}

	pos, err := h.UnixOps.Seek(f.fd, 0, unix.SEEK_CUR)
	if err != nil {
		return 0, h.errf("(platform-file) failed to tell: %w", err)
	}

	return uint64(pos), nil
}

// Length returns the handle's current byte length without disturbing its
// position.
func (h *Handler) Length(f *File) (uint64, error) {
	if f == nil || f.fd < 0 {
		return 0, h.errf("(platform-file) %w", ErrHandleClosed)
	}

	var st unix.Stat_t
	if err := h.UnixOps.Fstat(f.fd, &st); err != nil {
		return 0, h.errf("(platform-file) failed to fstat: %w", err)
	}

	return uint64(st.Size), nil
}

// Flush forces buffered writes to stable storage. It is a no-op success for
// handles opened read-only.
func (h *Handler) Flush(f *File) error {
	if f == nil || f.fd < 0 {
		return h.errf("(platform-file) %w", ErrHandleClosed)
	}

	if f.readOnly {
		return nil
	}

	if err := h.UnixOps.Fsync(f.fd); err != nil {
		return h.errf("(platform-file) failed to flush: %w", err)
	}

	return nil
}

// Close releases the native descriptor and invalidates the handle. The
// native close error is ignored; a write failure must have been surfaced by
// an explicit [Handler.Flush] beforehand.
func (h *Handler) Close(f *File) {
	if f == nil || f.fd < 0 {
		return
	}

	h.UnixOps.Close(f.fd) //nolint:errcheck
	f.fd = -1
}
