package platform_test

import (
	"strings"
	"testing"

	"github.com/clayne/physfs/internal/platform"
	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestStrerror_KnownCode(t *testing.T) {
	t.Parallel()

	msg := platform.Strerror(unix.ENOENT)

	assert.NotEmpty(t, msg)
	assert.Contains(t, msg, "ENOENT")
	assert.NotContains(t, msg, "\n")
	assert.NotContains(t, msg, "\r")
	assert.LessOrEqual(t, len(msg), 255)
}

func TestStrerror_ZeroCode(t *testing.T) {
	t.Parallel()

	assert.Empty(t, platform.Strerror(0))
}

func TestStrerror_OwnedPerCall(t *testing.T) {
	t.Parallel()

	first := platform.Strerror(unix.ENOENT)
	second := platform.Strerror(unix.EACCES)

	// A second call must not overwrite the first result.
	assert.Contains(t, first, "ENOENT")
	assert.Contains(t, second, "EACCES")
	assert.False(t, strings.EqualFold(first, second))
}
