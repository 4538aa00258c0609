package platform

import "errors"

var (
	// ErrNotInitialized occurs when a primitive is called before [Handler.Init]
	// has completed, or after [Handler.Deinit].
	ErrNotInitialized = errors.New("platform layer not initialized")

	// ErrInvalidArgument occurs when an offset or length does not fit the
	// addressable range of the underlying OS primitive.
	ErrInvalidArgument = errors.New("value does not fit the addressable range")

	ErrNoDirComponent     = errors.New("module path contains no directory component")
	ErrUserDirUnavailable = errors.New("user directory could not be determined")
	ErrConversionFailed   = errors.New("text conversion produced no usable result")
	ErrHandleClosed       = errors.New("file handle is closed")
)
