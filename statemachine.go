// Package castbar - statemachine.go
//
// The four-state FSM driving the classification: spark presence (with
// single-frame dropout correction), Fill-end monotonicity, TurnLight peak
// detection, and Fade termination against a cached baseline. An explicit
// state enum plus one step function per tick, with hysteresis caches
// carried across ticks.
package castbar

import "gocv.io/x/gocv"

// coreState is the process-wide state for one detector instance: the
// current SparkState plus every per-cycle cache the FSM needs.
type coreState struct {
	state SparkState

	maxSparkX               int
	hasLastSpark            bool
	lastSparkNonSparkEnergy float64

	hasNoSparkBaseline     bool
	baselineNonSparkEnergy float64
	baselineRowStart       int
	baselineRowEnd         int
	baselineGray           gocv.Mat
}

// stepResult is what one FSM step produces, before the Result Assembler
// wraps it into a SparkResult.
type stepResult struct {
	outputState   SparkState
	progress      float64
	isFade50      bool
	sparkDetected bool
	sparkIndex    int
	bandLeft      int
	bandRight     int
	bandRowStart  int
	bandRowEnd    int
}

// resolveSpark applies the confirmed-absence rule: curr has no spark only
// if both curr and next lack one. A spark present on prev and next but
// missing on curr (a single-frame false negative) is corrected using
// prev's band/index instead of ending Fill prematurely.
func resolveSpark(prev, curr, next FrameInfo) (present bool, idx, bandL, bandR int) {
	if curr.hasSpark() {
		return true, curr.SparkIdxRaw, curr.BandL, curr.BandR
	}
	confirmedAbsent := !next.hasSpark()
	if !confirmedAbsent && prev.hasSpark() {
		return true, prev.SparkIdxRaw, prev.BandL, prev.BandR
	}
	return false, -1, -1, -1
}

func clampUnit(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}

// fillProgress is maxSparkX normalized by ROI width.
func (cs *coreState) fillProgress(width int) float64 {
	denom := width - 1
	if denom < 1 {
		denom = 1
	}
	return clampUnit(float64(cs.maxSparkX) / float64(denom))
}

// resetCycle clears every per-cycle cache, invoked on entering Idle.
func (cs *coreState) resetCycle() {
	cs.maxSparkX = 0
	cs.hasLastSpark = false
	cs.lastSparkNonSparkEnergy = 0
	cs.clearBaseline()
}

func (cs *coreState) clearBaseline() {
	if cs.hasNoSparkBaseline {
		cs.baselineGray.Close()
	}
	cs.hasNoSparkBaseline = false
	cs.baselineNonSparkEnergy = 0
	cs.baselineRowStart = 0
	cs.baselineRowEnd = 0
	cs.baselineGray = gocv.Mat{}
}

// cacheBaselineFrom snapshots a confirmed no-spark frame's NonSparkEnergy,
// band rows, and grayscale Mat as the baseline Fade terminates against.
func (cs *coreState) cacheBaselineFrom(info FrameInfo, gray gocv.Mat) {
	if cs.hasNoSparkBaseline {
		cs.baselineGray.Close()
	}
	cs.baselineGray = gray.Clone()
	cs.baselineRowStart = info.BandRowStart
	cs.baselineRowEnd = info.BandRowEnd
	cs.baselineNonSparkEnergy = info.NonSparkEnergy
	cs.hasNoSparkBaseline = true
}

// closeScratch releases the baseline Mat. Called from Detector.Close.
func (cs *coreState) closeScratch() {
	if cs.hasNoSparkBaseline {
		cs.baselineGray.Close()
	}
}

// step runs exactly one FSM transition for the (prev, curr, next) triple
// and returns the label for curr plus the state carried forward into cs.
func (cs *coreState) step(cfg DetectorConfig, width int, prev, curr, next FrameInfo, prevGray, currGray gocv.Mat) stepResult {
	res := cs.stepState(cfg, width, prev, curr, next, prevGray, currGray)
	res.bandRowStart = curr.BandRowStart
	res.bandRowEnd = curr.BandRowEnd
	return res
}

func (cs *coreState) stepState(cfg DetectorConfig, width int, prev, curr, next FrameInfo, prevGray, currGray gocv.Mat) stepResult {
	eps := cfg.EnergyEps

	if present, idx, bandL, bandR := resolveSpark(prev, curr, next); present {
		cs.maxSparkX = max(cs.maxSparkX, idx)
		cs.hasLastSpark = true
		cs.lastSparkNonSparkEnergy = curr.NonSparkEnergy
		cs.clearBaseline()
		cs.state = Fill
		return stepResult{
			outputState:   Fill,
			progress:      cs.fillProgress(width),
			sparkDetected: true,
			sparkIndex:    idx,
			bandLeft:      bandL,
			bandRight:     bandR,
		}
	}

	switch cs.state {
	case Idle:
		cs.resetCycle()
		return stepResult{outputState: Idle, progress: 0}

	case Fill:
		if !cs.hasLastSpark {
			// Defensive: invariant "state==Fill => hasLastSpark" should
			// hold; self-heal by returning to Idle if it ever doesn't.
			cs.state = Idle
			cs.resetCycle()
			return stepResult{outputState: Idle, progress: 0}
		}
		last := cs.lastSparkNonSparkEnergy
		nonDecreasing := curr.NonSparkEnergy >= last-eps && next.NonSparkEnergy >= curr.NonSparkEnergy-eps
		strictlyDecreasing := curr.NonSparkEnergy < last-eps && next.NonSparkEnergy < curr.NonSparkEnergy-eps
		switch {
		case nonDecreasing:
			cs.cacheBaselineFrom(curr, currGray)
			cs.state = TurnLight
			return stepResult{outputState: TurnLight, progress: 1.0}
		case strictlyDecreasing:
			cs.cacheBaselineFrom(curr, currGray)
			cs.state = Fade
			return stepResult{outputState: Fade, progress: 1.0}
		default:
			return stepResult{outputState: Fill, progress: cs.fillProgress(width)}
		}

	case TurnLight:
		isPeak := curr.Energy >= prev.Energy-eps && curr.Energy > next.Energy+eps
		if isPeak {
			cs.state = Fade
		}
		return stepResult{outputState: TurnLight, progress: 1.0}

	case Fade:
		if !cs.hasNoSparkBaseline {
			cs.cacheBaselineFrom(prev, prevGray)
		}
		if curr.NonSparkEnergy <= cs.baselineNonSparkEnergy {
			cs.state = Idle
			cs.resetCycle()
			return stepResult{outputState: Fade, progress: 1.0, isFade50: true}
		}
		return stepResult{outputState: Fade, progress: 1.0}

	default:
		return stepResult{outputState: cs.state}
	}
}
