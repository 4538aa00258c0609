package platform

import (
	"errors"
	"strings"

	"golang.org/x/sys/unix"
)

const (
	selfExePath = "/proc/self/exe"

	pathBufInitial = 64
)

// CalcBaseDir computes the directory the running executable resides in,
// with a trailing separator. The module path is read from the kernel with a
// grow-and-retry loop until it is no longer truncated; argv0 only serves as
// a fallback when the kernel cannot report the path.
func (h *Handler) CalcBaseDir(argv0 string) (string, error) {
	if err := h.ensureInit(); err != nil {
		return "", err
	}

	modpath, err := h.readModulePath()
	if err != nil {
		if !strings.Contains(argv0, DirSeparator) {
			return "", h.errf("(platform-path) failed to read module path: %w", err)
		}
		modpath = argv0
	}

	idx := strings.LastIndex(modpath, DirSeparator)
	if idx < 0 {
		return "", h.errf("(platform-path) %w", ErrNoDirComponent)
	}

	// Chop off the filename, keep the separator.
	return modpath[:idx+1], nil
}

func (h *Handler) readModulePath() (string, error) {
	for buflen := pathBufInitial; ; buflen *= 2 {
		buf := make([]byte, buflen)

		n, err := h.UnixOps.Readlink(selfExePath, buf)
		if err != nil {
			return "", err
		}

		if n < buflen {
			return FromNative(buf[:n]), nil
		}
	}
}

// CurrentDir returns the working directory, normalized to end with exactly
// one trailing separator.
func (h *Handler) CurrentDir() (string, error) {
	if err := h.ensureInit(); err != nil {
		return "", err
	}

	for buflen := pathBufInitial; ; buflen *= 2 {
		buf := make([]byte, buflen)

		n, err := h.UnixOps.Getcwd(buf)
		if err != nil {
			if errors.Is(err, unix.ERANGE) {
				continue
			}

			return "", h.errf("(platform-path) failed to get working directory: %w", err)
		}

		dir := FromNative(buf[:n])

		return strings.TrimRight(dir, DirSeparator) + DirSeparator, nil
	}
}

// UserName returns the login name of the calling user, computed fresh on
// every call.
func (h *Handler) UserName() (string, error) {
	if err := h.ensureInit(); err != nil {
		return "", err
	}

	u, err := h.UserOps.Current()
	if err != nil {
		return "", h.errf("(platform-path) failed to resolve current user: %w", err)
	}

	return u.Username, nil
}

// RealPath returns the canonical form of a path. The layer only applies it
// to the base and user directories, which the OS reports resolved already,
// so this is an identity passthrough.
func (h *Handler) RealPath(path string) (string, error) {
	if err := h.ensureInit(); err != nil {
		return "", err
	}

	return path, nil
}

// CvtToDependent concatenates an optional prefix, a directory name and an
// optional suffix, rewriting every portable separator to the native one.
func (h *Handler) CvtToDependent(prefix, dirName, suffix string) string {
	return strings.ReplaceAll(prefix+dirName+suffix, "/", DirSeparator)
}

// MkDir creates a single directory.
func (h *Handler) MkDir(path string) error {
	if err := h.ensureInit(); err != nil {
		return err
	}

	if _, err := ToNative(path); err != nil {
		return h.errf("(platform-path) cannot represent path: %w", err)
	}

	if err := h.UnixOps.Mkdir(path, 0o755); err != nil {
		return h.errf("(platform-path) failed to mkdir %s: %w", path, err)
	}

	return nil
}

// Delete removes a file or an empty directory, choosing the primitive by
// the entry's own type without following symbolic links.
func (h *Handler) Delete(path string) error {
	if err := h.ensureInit(); err != nil {
		return err
	}

	if _, err := ToNative(path); err != nil {
		return h.errf("(platform-path) cannot represent path: %w", err)
	}

	var st unix.Stat_t
	if err := h.UnixOps.Lstat(path, &st); err != nil {
		return h.errf("(platform-path) failed to lstat %s: %w", path, err)
	}

	if st.Mode&unix.S_IFMT == unix.S_IFDIR {
		if err := h.UnixOps.Rmdir(path); err != nil {
			return h.errf("(platform-path) failed to rmdir %s: %w", path, err)
		}

		return nil
	}

	if err := h.UnixOps.Unlink(path); err != nil {
		return h.errf("(platform-path) failed to unlink %s: %w", path, err)
	}

	return nil
}
