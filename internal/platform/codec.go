package platform

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ToNative converts portable UTF-8 text into the NUL-terminated byte string
// the kernel interface expects. An empty input yields a nil native string,
// not an error. Text carrying an embedded NUL cannot be represented and
// fails with [ErrConversionFailed].
func ToNative(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}

	if strings.IndexByte(s, 0) >= 0 {
		return nil, fmt.Errorf("(platform-codec) %w: embedded NUL", ErrConversionFailed)
	}

	buf := make([]byte, len(s)+1)
	copy(buf, s)

	return buf, nil
}

// FromNative converts a native byte string back into portable UTF-8 text.
// The input is cut at the first NUL terminator; an invalid byte sequence
// truncates the result rather than failing, since decoding is also used
// while formatting error messages and must never itself error.
func FromNative(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}

	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return string(b[:i])
		}
		i += size
	}

	return string(b)
}
