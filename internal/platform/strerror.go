package platform

import (
	"strings"

	"golang.org/x/sys/unix"
)

// strerrorMaxLen bounds the length of a formatted OS error message.
const strerrorMaxLen = 255

// Strerror formats a human-readable message for a numeric OS error code.
// Each call returns a freshly owned string; there is no shared buffer. The
// message is stripped of line terminators and bounded in length. An unknown
// code yields an empty string rather than a second error.
func Strerror(errno unix.Errno) string {
	if errno == 0 {
		return ""
	}

	msg := errno.Error()
	if name := unix.ErrnoName(errno); name != "" {
		msg = name + ": " + msg
	}

	if i := strings.IndexAny(msg, "\r\n"); i >= 0 {
		msg = msg[:i]
	}

	if len(msg) > strerrorMaxLen {
		// Byte-level truncation may tear a rune; FromNative drops the remains.
		msg = FromNative([]byte(msg[:strerrorMaxLen]))
	}

	return msg
}
