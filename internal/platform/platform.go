// Package platform implements the native operating system primitives beneath
// the portable virtual filesystem: file handles, directory enumeration, path
// and user-identity resolution, stat queries, removable media detection and a
// mutual-exclusion primitive. All OS access goes through injectable provider
// interfaces; the rest of the library never touches the OS directly.
package platform

import (
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// DirSeparator is the native path separator of the target platform.
const DirSeparator = "/"

type osProvider interface {
	ReadDir(name string) ([]os.DirEntry, error)
	ReadFile(name string) ([]byte, error)
}

type unixProvider interface {
	Open(path string, mode int, perm uint32) (int, error)
	Close(fd int) error
	Read(fd int, p []byte) (int, error)
	Write(fd int, p []byte) (int, error)
	Seek(fd int, offset int64, whence int) (int64, error)
	Fsync(fd int) error
	Fstat(fd int, stat *unix.Stat_t) error
	Stat(path string, stat *unix.Stat_t) error
	Lstat(path string, stat *unix.Stat_t) error
	Statx(dirfd int, path string, flags int, mask int, stat *unix.Statx_t) error
	Getdents(fd int, buf []byte) (int, error)
	Readlink(path string, buf []byte) (int, error)
	Getcwd(buf []byte) (int, error)
	Mkdir(path string, mode uint32) error
	Unlink(path string) error
	Rmdir(path string) error
	Gettid() int
}

type userProvider interface {
	Current() (*user.User, error)
}

// Handler is the principal implementation of the platform layer. A Handler is
// usable after a completed [Handler.Init] and until [Handler.Deinit]; the
// user-directory cache is written exactly once during Init and is read-only
// afterwards.
type Handler struct {
	OSOps   osProvider
	UnixOps unixProvider
	UserOps userProvider

	mu          sync.RWMutex
	initialized bool
	userDir     string

	errMu   sync.RWMutex
	lastErr string

	statxUnsupported atomic.Bool
}

// NewHandler returns a pointer to a new platform [Handler].
func NewHandler(osOps osProvider, unixOps unixProvider, userOps userProvider) *Handler {
	return &Handler{
		OSOps:   osOps,
		UnixOps: unixOps,
		UserOps: userOps,
	}
}

// Init performs the one-time initialization of the platform layer. It seeds
// the process-wide user-directory cache; if that resolution fails the cache
// stays empty and every later [Handler.UserDir] call fails. Init is
// idempotent: a second call with a populated cache is a no-op success.
func (h *Handler) Init() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.initialized && h.userDir != "" {
		return nil
	}

	if err := h.determineUserDir(); err != nil {
		slog.Warn("User directory could not be determined",
			"err", err,
		)
	}

	h.initialized = true

	return nil
}

// Deinit releases the cached user directory and returns the handler to the
// uninitialized state. It must run only after all other platform calls for
// the process have stopped.
func (h *Handler) Deinit() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.userDir = ""
	h.initialized = false

	return nil
}

// determineUserDir resolves the calling user's profile directory into the
// handler's cache. The two-call size-then-fetch dance of the native API is
// hidden behind the user provider. Callers hold h.mu.
func (h *Handler) determineUserDir() error {
	if h.userDir != "" {
		return nil
	}

	u, err := h.UserOps.Current()
	if err != nil {
		return fmt.Errorf("(platform) failed to resolve current user: %w", err)
	}

	if u.HomeDir == "" {
		return fmt.Errorf("(platform) %w", ErrUserDirUnavailable)
	}

	h.userDir = u.HomeDir

	return nil
}

// UserDir returns the process-wide cached user profile directory, as seeded
// by [Handler.Init].
func (h *Handler) UserDir() (string, error) {
	if err := h.ensureInit(); err != nil {
		return "", err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.userDir == "" {
		return "", h.errf("(platform) %w", ErrUserDirUnavailable)
	}

	return h.userDir, nil
}

// ThreadID returns an opaque identifier of the calling OS thread.
func (h *Handler) ThreadID() uint64 {
	return uint64(h.UnixOps.Gettid())
}

// LastError returns the description recorded by the most recent failing
// primitive on this handler, or an empty string if none failed yet.
func (h *Handler) LastError() string {
	h.errMu.RLock()
	defer h.errMu.RUnlock()

	return h.lastErr
}

func (h *Handler) ensureInit() error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.initialized {
		return fmt.Errorf("(platform) %w", ErrNotInitialized)
	}

	return nil
}

// errf wraps a primitive failure and records its description as the
// handler's last error.
func (h *Handler) errf(format string, args ...any) error {
	err := fmt.Errorf(format, args...)

	h.errMu.Lock()
	h.lastErr = err.Error()
	h.errMu.Unlock()

	return err
}
