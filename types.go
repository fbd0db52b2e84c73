package castbar

import "fmt"

// SparkState is one stage of a cast bar's lifecycle.
type SparkState int

const (
	// Idle is the resting state: no bar drawn, no spark, background energy only.
	Idle SparkState = iota
	// Fill is the bar growing behind a moving spark.
	Fill
	// TurnLight is the bar fully drawn, brightness rising toward its peak flash.
	TurnLight
	// Fade is the bar's brightness decaying back toward its Idle baseline.
	Fade
)

// String implements fmt.Stringer for log and debug output.
func (s SparkState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Fill:
		return "Fill"
	case TurnLight:
		return "TurnLight"
	case Fade:
		return "Fade"
	default:
		return fmt.Sprintf("SparkState(%d)", int(s))
	}
}

// FrameInfo is the immutable-once-computed analysis of a single ROI frame.
type FrameInfo struct {
	// BandRowStart and BandRowEnd are the inclusive row range of the
	// bright horizontal bar within the ROI.
	BandRowStart, BandRowEnd int

	// SparkRaw is true iff exactly one spark cluster was detected this frame.
	SparkRaw bool
	// SparkIdxRaw is the rightmost column of the spark, or -1 if absent.
	SparkIdxRaw int
	// BandL and BandR are the inclusive column range of the spark on the
	// band, or -1 if absent.
	BandL, BandR int

	// Energy is the mean V (HSV value channel, 0..255) over the band rows,
	// all columns.
	Energy float64
	// NonSparkEnergy is the mean V over band rows, excluding the spark's
	// column range. It falls back to Energy when no spark is present.
	NonSparkEnergy float64
}

// hasSpark reports whether this frame's own detection found a spark with a
// usable column range. Dropout correction from a neighboring frame is not
// reflected here; resolveSpark applies it.
func (fi FrameInfo) hasSpark() bool {
	return fi.SparkRaw && fi.BandL >= 0 && fi.BandR >= 0
}

// SparkResult is the per-frame output of the detector, aligned to the
// frame that was "curr" when it was produced (one-frame latency).
type SparkResult struct {
	// State is the emitted classification for this frame.
	State SparkState
	// Progress is in [0,1]: how far the bar has filled (Fill), or 1.0 once
	// full (TurnLight, Fade), or 0.0 (Idle).
	Progress float64
	// IsFade50 is true only on the terminal Fade tick that precedes the
	// transition back to Idle.
	IsFade50 bool
	// SparkDetected mirrors whether a spark position is attached to this
	// result (directly detected, or carried over from dropout correction).
	SparkDetected bool
	// SparkIndex is the spark's rightmost column, or -1 if none.
	SparkIndex int
	// BandLeft and BandRight are the spark's inclusive column range on the
	// band, or -1 if none.
	BandLeft, BandRight int
	// BandRowStart and BandRowEnd are the inclusive row range of the bright
	// horizontal bar this result was classified against.
	BandRowStart, BandRowEnd int
}

func (r SparkResult) String() string {
	return fmt.Sprintf("SparkResult{state=%s progress=%.3f isFade50=%t sparkDetected=%t idx=%d band=[%d,%d] rows=[%d,%d]}",
		r.State, r.Progress, r.IsFade50, r.SparkDetected, r.SparkIndex, r.BandLeft, r.BandRight, r.BandRowStart, r.BandRowEnd)
}
