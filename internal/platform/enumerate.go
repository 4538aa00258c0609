package platform

import (
	"bytes"
	"log/slog"
	"strings"
	"unicode/utf8"
	"unsafe"

	"golang.org/x/sys/unix"
)

// EnumerateCallback receives the originally requested directory path and one
// decoded entry name. The callback has exclusive access to the name before
// the next entry is fetched; no entries are in flight concurrently.
type EnumerateCallback func(origDir string, name string)

const (
	direntBufSize = 8192

	// direntNameOffset is where the entry name starts within a raw record.
	direntNameOffset = int(unsafe.Offsetof(unix.Dirent{}.Name))
)

// Enumerate lists the entries of dirName in native iteration order, invoking
// cb once per entry. Entries named exactly "." or ".." are never delivered;
// symbolic links are skipped when omitSymlinks is set. Failures to open the
// directory or to decode an individual entry name are swallowed: the bad
// entry is skipped and enumeration continues, or returns early with no
// callback invocations at all. The directory descriptor is released on every
// exit path.
func (h *Handler) Enumerate(dirName string, omitSymlinks bool, cb EnumerateCallback) {
	if err := h.ensureInit(); err != nil {
		return
	}

	// Exactly one separator between the directory and the entry names.
	searchPath := strings.TrimRight(dirName, DirSeparator) + DirSeparator

	if _, err := ToNative(searchPath); err != nil {
		slog.Debug("Enumeration skipped: cannot represent directory path",
			"dir", dirName,
			"err", err,
		)

		return
	}

	fd, err := h.UnixOps.Open(searchPath, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		slog.Debug("Enumeration skipped: cannot open directory",
			"dir", dirName,
			"err", err,
		)

		return
	}
	defer h.UnixOps.Close(fd) //nolint:errcheck

	buf := make([]byte, direntBufSize)

	for {
		n, err := h.UnixOps.Getdents(fd, buf)
		if err != nil || n <= 0 {
			return
		}

		for off := 0; off < n; {
			dirent := (*unix.Dirent)(unsafe.Pointer(&buf[off]))
			reclen := int(dirent.Reclen)
			if reclen == 0 || off+reclen > n {
				return
			}

			// Cut the NUL-terminated name straight out of the record; an
			// undecodable name skips the whole entry, it is never delivered
			// truncated.
			raw := buf[off+direntNameOffset : off+reclen]
			if i := bytes.IndexByte(raw, 0); i >= 0 {
				raw = raw[:i]
			}
			direntType := dirent.Type
			off += reclen

			if !utf8.Valid(raw) {
				continue
			}

			name := string(raw)
			if name == "" || name == "." || name == ".." {
				continue
			}

			if omitSymlinks && h.isSymlinkEntry(searchPath+name, direntType) {
				continue
			}

			cb(dirName, name)
		}
	}
}

// isSymlinkEntry reports whether an entry is a symbolic link, falling back
// to lstat on filesystems that do not fill in the entry type.
func (h *Handler) isSymlinkEntry(path string, direntType uint8) bool {
	switch direntType {
	case unix.DT_LNK:
		return true
	case unix.DT_UNKNOWN:
		var st unix.Stat_t
		if err := h.UnixOps.Lstat(path, &st); err != nil {
			return false
		}

		return st.Mode&unix.S_IFMT == unix.S_IFLNK
	default:
		return false
	}
}
