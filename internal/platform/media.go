package platform

import (
	"log/slog"
	"strconv"
	"strings"
)

// MediaCallback receives the mount point of one removable medium found to
// contain accessible media.
type MediaCallback func(mountPoint string)

const (
	sysBlockPath   = "/sys/block"
	devPath        = "/dev/"
	procMountsPath = "/proc/self/mounts"
)

type mountEntry struct {
	device     string
	mountPoint string
}

// DetectRemovableMedia iterates the bounded block-device namespace and
// invokes cb once per mounted filesystem that is backed by a removable
// device currently carrying media. Devices without media, unmounted devices
// and unreadable attribute files are skipped silently.
func (h *Handler) DetectRemovableMedia(cb MediaCallback) {
	if err := h.ensureInit(); err != nil {
		return
	}

	entries, err := h.OSOps.ReadDir(sysBlockPath)
	if err != nil {
		slog.Debug("Media detection skipped: cannot read block namespace",
			"err", err,
		)

		return
	}

	mounts := h.readMounts()

	for _, entry := range entries {
		name := entry.Name()

		if !h.deviceFlagSet(name, "removable") {
			continue
		}

		// A zero size means the drive is present but holds no medium.
		if !h.deviceHasMedia(name) {
			continue
		}

		device := devPath + name
		for _, m := range mounts {
			if matchesDevice(m.device, device) {
				cb(m.mountPoint)
			}
		}
	}
}

func (h *Handler) deviceFlagSet(device, attribute string) bool {
	data, err := h.OSOps.ReadFile(sysBlockPath + DirSeparator + device + DirSeparator + attribute)
	if err != nil {
		return false
	}

	return strings.TrimSpace(FromNative(data)) == "1"
}

func (h *Handler) deviceHasMedia(device string) bool {
	data, err := h.OSOps.ReadFile(sysBlockPath + DirSeparator + device + DirSeparator + "size")
	if err != nil {
		return false
	}

	size, err := strconv.ParseUint(strings.TrimSpace(FromNative(data)), 10, 64)
	if err != nil {
		return false
	}

	return size > 0
}

func (h *Handler) readMounts() []mountEntry {
	data, err := h.OSOps.ReadFile(procMountsPath)
	if err != nil {
		slog.Debug("Media detection: cannot read mount table",
			"err", err,
		)

		return nil
	}

	var mounts []mountEntry

	for _, line := range strings.Split(FromNative(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.HasPrefix(fields[0], devPath) {
			continue
		}

		mounts = append(mounts, mountEntry{
			device:     fields[0],
			mountPoint: unescapeMountPath(fields[1]),
		})
	}

	return mounts
}

// matchesDevice reports whether a mounted device node belongs to the given
// whole device, either directly or as one of its partitions.
func matchesDevice(mounted, device string) bool {
	if mounted == device {
		return true
	}

	rest, ok := strings.CutPrefix(mounted, device)
	if !ok || rest == "" {
		return false
	}

	// Partition suffixes are digits, optionally separated by "p" (nvme0n1p1).
	if rest[0] == 'p' {
		rest = rest[1:]
	}

	if rest == "" {
		return false
	}

	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return false
		}
	}

	return true
}

// unescapeMountPath decodes the octal escapes the kernel uses for special
// characters in mount table paths, e.g. "\040" for a space.
func unescapeMountPath(path string) string {
	if !strings.Contains(path, "\\") {
		return path
	}

	var sb strings.Builder
	sb.Grow(len(path))

	for i := 0; i < len(path); i++ {
		if path[i] == '\\' && i+3 < len(path) {
			if code, err := strconv.ParseUint(path[i+1:i+4], 8, 8); err == nil {
				sb.WriteByte(byte(code))
				i += 3

				continue
			}
		}
		sb.WriteByte(path[i])
	}

	return sb.String()
}
