package camera

import (
	"context"
	"image"
	"os"

	apperrors "focus_tracker/internal/errors"
)

// Source opens an exclusively owned camera handle.
type Source interface {
	Open(ctx context.Context) (Handle, error)
}

// Handle yields frames until io.EOF. Close releases the device and must be
// safe to call more than once.
type Handle interface {
	Read(ctx context.Context) (image.Image, error)
	Close() error
}

// managedHome is the home directory of hosted app runners, which have no
// physical camera attached.
const managedHome = "/home/adminuser"

// ManagedHost reports whether the process runs on a managed host without camera access.
func ManagedHost() bool {
	return os.Getenv("HOME") == managedHome
}

// Unsupported returns a CameraUnavailable error when this environment must
// not sample, or nil when tracking may start.
func Unsupported(disabled bool) error {
	if ManagedHost() {
		return apperrors.NewCameraUnavailable("webcam tracking is not supported on a managed host, please run the tracker locally", nil)
	}
	if disabled {
		return apperrors.NewCameraUnavailable("the camera is disabled in the configuration", nil)
	}
	return nil
}
