package camfx

import (
	"errors"

	"github.com/gogpu/camfx/internal/motion"
)

// Sentinel errors. Wrapped errors returned by camfx match them with
// errors.Is.
var (
	// ErrSourceUnavailable reports that no frame is ready this tick.
	// The Runner skips the tick and leaves its state untouched.
	ErrSourceUnavailable = errors.New("camfx: frame source unavailable")

	// ErrDimensionMismatch reports that the frame size changed between
	// ticks. Motion detection restarts from a clean state.
	ErrDimensionMismatch = motion.ErrDimensionMismatch

	// ErrSampleOutOfRange reports a frame whose pixels cannot be sampled.
	ErrSampleOutOfRange = errors.New("camfx: sample out of range")

	// ErrInvalidParameter reports a parameter outside its allowed range.
	ErrInvalidParameter = errors.New("camfx: invalid parameter")

	// ErrFrameSize reports pixel data whose length does not match the
	// frame dimensions.
	ErrFrameSize = errors.New("camfx: pixel data does not match frame size")

	// ErrRunnerStarted is returned by Runner.Start on a runner that was
	// already started.
	ErrRunnerStarted = errors.New("camfx: runner already started")

	// ErrUnknownEffect reports an effect name that does not exist.
	ErrUnknownEffect = errors.New("camfx: unknown effect")
)
