package platform

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

// FileType classifies a filesystem entry for the portable layer.
type FileType int

const (
	FileTypeRegular FileType = iota
	FileTypeDirectory

	// FileTypeOther covers device-backed and otherwise special entries whose
	// reported size is not to be trusted.
	FileTypeOther
)

// StatInfo is the portable stat record. Timestamps are epoch seconds; -1
// marks a field as indeterminate.
type StatInfo struct {
	FileType   FileType
	FileSize   uint64
	ModTime    int64
	AccessTime int64
	CreateTime int64
	ReadOnly   bool
}

// Stat retrieves type, size and timestamps for a path, computed fresh on
// every call. A path that does not exist is a normal outcome: exists comes
// back false with no error. A genuine access failure on an existing path
// reports exists true together with the error; the two are never conflated.
func (h *Handler) Stat(path string) (bool, *StatInfo, error) {
	if err := h.ensureInit(); err != nil {
		return false, nil, err
	}

	if _, err := ToNative(path); err != nil {
		return false, nil, h.errf("(platform-stat) cannot represent path: %w", err)
	}

	var st unix.Stat_t
	if err := h.UnixOps.Stat(path, &st); err != nil {
		if errors.Is(err, unix.ENOENT) || errors.Is(err, unix.ENOTDIR) {
			return false, nil, nil
		}

		return true, nil, h.errf("(platform-stat) failed to stat %s: %w", path, err)
	}

	info := &StatInfo{
		ModTime:    timespecToEpoch(st.Mtim),
		AccessTime: timespecToEpoch(st.Atim),
		CreateTime: h.birthTime(path),
		ReadOnly:   st.Mode&0o222 == 0,
	}

	switch st.Mode & unix.S_IFMT {
	case unix.S_IFDIR:
		info.FileType = FileTypeDirectory
	case unix.S_IFREG:
		info.FileType = FileTypeRegular
		info.FileSize = uint64(st.Size)
	default:
		// Devices, fifos, sockets: the size field is unreliable, report 0.
		info.FileType = FileTypeOther
	}

	return true, info, nil
}

// birthTime retrieves the creation timestamp where the kernel and the
// filesystem support it. Unavailability is a normal outcome reported as -1,
// never a failure of the whole stat call; a kernel without statx stops
// being probed after the first attempt.
func (h *Handler) birthTime(path string) int64 {
	if h.statxUnsupported.Load() {
		return -1
	}

	var stx unix.Statx_t
	if err := h.UnixOps.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &stx); err != nil {
		if errors.Is(err, unix.ENOSYS) {
			h.statxUnsupported.Store(true)
		}

		return -1
	}

	if stx.Mask&unix.STATX_BTIME == 0 {
		return -1
	}

	return timespecToEpoch(unix.Timespec{Sec: stx.Btime.Sec, Nsec: int64(stx.Btime.Nsec)})
}

// timespecToEpoch converts a native timestamp to portable epoch seconds.
// The native value is interpreted as UTC, converted to the process's local
// time zone, decomposed into calendar fields and reassembled from those
// fields. A decomposition that does not survive the round trip (such as a
// time zone transition mapping the fields onto a different instant) yields
// the indeterminate value -1.
func timespecToEpoch(ts unix.Timespec) int64 {
	local := time.Unix(ts.Sec, 0).UTC().In(time.Local)

	year, month, day := local.Date()
	hour, minute, sec := local.Clock()

	rebuilt := time.Date(year, month, day, hour, minute, sec, 0, time.Local)
	if !rebuilt.Equal(local) {
		return -1
	}

	return rebuilt.Unix()
}
