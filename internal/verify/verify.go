// Package verify computes content checksums through platform file handles.
package verify

import (
	"encoding/hex"
	"fmt"

	"github.com/clayne/physfs/internal/platform"
	"github.com/zeebo/blake3"
)

const readChunkSize = 128 * 1024

type platformProvider interface {
	OpenRead(path string) (*platform.File, error)
	Read(f *platform.File, buf []byte) (int, error)
	Close(f *platform.File)
}

type Handler struct {
	PlatformOps platformProvider
}

func NewHandler(platformOps platformProvider) *Handler {
	return &Handler{
		PlatformOps: platformOps,
	}
}

// HashFile reads a file through the platform layer and returns the
// hex-encoded BLAKE3 digest of its content.
func (v *Handler) HashFile(path string) (string, error) {
	f, err := v.PlatformOps.OpenRead(path)
	if err != nil {
		return "", fmt.Errorf("(verify) failed to open source file: %w", err)
	}
	defer v.PlatformOps.Close(f)

	hasher := blake3.New()
	buf := make([]byte, readChunkSize)

	for {
		n, err := v.PlatformOps.Read(f, buf)
		if err != nil {
			return "", fmt.Errorf("(verify) failed to read source file: %w", err)
		}
		if n == 0 {
			break
		}

		hasher.Write(buf[:n]) //nolint:errcheck
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
