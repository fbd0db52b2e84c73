package castbar

import "errors"

// Config validation errors: one named sentinel per invalid field rather
// than a single generic "invalid config" error.
var (
	// ErrInvalidJumpThreshold indicates JumpThreshold must be positive.
	ErrInvalidJumpThreshold = errors.New("castbar: JumpThreshold must be > 0")
	// ErrInvalidLeftSkipRatio indicates LeftSkipRatio must be in [0, 1).
	ErrInvalidLeftSkipRatio = errors.New("castbar: LeftSkipRatio must be in [0, 1)")
	// ErrInvalidMergeGapRatio indicates MergeGapRatio must be >= 0.
	ErrInvalidMergeGapRatio = errors.New("castbar: MergeGapRatio must be >= 0")
	// ErrInvalidEnergyEps indicates EnergyEps must be >= 0.
	ErrInvalidEnergyEps = errors.New("castbar: EnergyEps must be >= 0")
	// ErrInvalidSparkQuantile indicates SparkQuantile must be in (0, 1].
	ErrInvalidSparkQuantile = errors.New("castbar: SparkQuantile must be in (0, 1]")
	// ErrNilDetector indicates a method was called on a nil *Detector.
	ErrNilDetector = errors.New("castbar: nil detector")
	// ErrUnsupportedChannels indicates a frame with a channel count other
	// than 1 (gray), 3 (BGR), or 4 (BGRA) was supplied.
	ErrUnsupportedChannels = errors.New("castbar: frame must have 1, 3, or 4 channels")
)
