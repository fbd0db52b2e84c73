// Package castbar - detector.go
//
// The public surface: Detector wraps the Frame Analyzer, the three-frame
// window, and the state machine behind ProcessFrame, a handful of methods
// around one struct.
package castbar

import (
	"log"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"gocv.io/x/gocv"
)

// Detector classifies one video stream's cast bar, frame by frame. It is
// not safe for concurrent use: callers running several streams concurrently
// should construct one Detector per stream (StreamID distinguishes them in
// logs and metrics).
type Detector struct {
	StreamID string

	cfg    DetectorConfig
	logger *log.Logger

	width int // ROI width in columns, learned from the first frame

	window frameWindow
	core   coreState

	metrics *detectorMetrics
}

// NewDetector validates cfg and constructs a Detector in its Idle state.
func NewDetector(cfg DetectorConfig) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{
		StreamID: uuid.NewString(),
		cfg:      cfg,
		core:     coreState{state: Idle},
	}, nil
}

// SetLogger attaches a logger that receives one line per state transition.
// A nil logger (the default) disables transition logging entirely.
func (d *Detector) SetLogger(l *log.Logger) {
	d.logger = l
}

// WithMetrics registers this Detector's Prometheus collectors against reg,
// labeled by StreamID. Calling it is optional; an unregistered Detector
// behaves identically, just without metrics.
func (d *Detector) WithMetrics(reg prometheus.Registerer) error {
	m, err := newDetectorMetrics(reg, d.StreamID)
	if err != nil {
		return err
	}
	d.metrics = m
	return nil
}

// ProcessFrame feeds one ROI frame (gray, BGR, or BGRA) through the
// pipeline. It returns nil, nil during the two-frame warmup before the
// window fills, and a *SparkResult labeling the frame that was "curr" one
// tick ago on every call after that. The caller retains ownership of img;
// ProcessFrame never closes it.
func (d *Detector) ProcessFrame(img gocv.Mat) (*SparkResult, error) {
	if d == nil {
		return nil, ErrNilDetector
	}
	if img.Empty() {
		return nil, nil
	}

	info, gray, err := analyzeFrame(img, d.cfg)
	if err != nil {
		return nil, err
	}
	if d.width == 0 {
		d.width = img.Cols()
	}

	prev, curr, next, prevGray, currGray, _, ready := d.window.tick(info, gray)
	d.metrics.recordFrame()
	if !ready {
		return nil, nil
	}

	before := d.core.state
	sr := d.core.step(d.cfg, d.width, prev, curr, next, prevGray, currGray)
	res := assembleResult(sr)

	d.logTransition(before, sr)
	d.metrics.recordResult(res)
	d.window.advance(info, gray)

	return res, nil
}

// Reset returns the Detector to its freshly-constructed state, releasing
// any retained frames and baseline, but keeping its StreamID, config, and
// registered metrics.
func (d *Detector) Reset() {
	d.window.reset()
	d.core.closeScratch()
	d.core = coreState{state: Idle}
	d.width = 0
}

// Close releases every Mat the Detector retains. Call it once the Detector
// is no longer needed; a closed Detector must not be used again.
func (d *Detector) Close() error {
	if d == nil {
		return nil
	}
	d.window.reset()
	d.core.closeScratch()
	return nil
}

// DebugSnapshot exposes the FSM's internal caches for tooling built on this
// package, without making them part of the stable API.
type DebugSnapshot struct {
	State                   SparkState
	MaxSparkX               int
	HasLastSpark            bool
	LastSparkNonSparkEnergy float64
	HasBaseline             bool
	BaselineNonSparkEnergy  float64
	BaselineRowStart        int
	BaselineRowEnd          int
}

// DebugSnapshot returns the Detector's current internal FSM state.
func (d *Detector) DebugSnapshot() DebugSnapshot {
	return DebugSnapshot{
		State:                   d.core.state,
		MaxSparkX:               d.core.maxSparkX,
		HasLastSpark:            d.core.hasLastSpark,
		LastSparkNonSparkEnergy: d.core.lastSparkNonSparkEnergy,
		HasBaseline:             d.core.hasNoSparkBaseline,
		BaselineNonSparkEnergy:  d.core.baselineNonSparkEnergy,
		BaselineRowStart:        d.core.baselineRowStart,
		BaselineRowEnd:          d.core.baselineRowEnd,
	}
}

func (d *Detector) logTransition(before SparkState, sr stepResult) {
	if d.logger == nil {
		return
	}
	switch {
	case sr.isFade50:
		d.logger.Printf("castbar[%s]: %s -> Idle (fade baseline reached)", d.StreamID, before)
	case before != d.core.state:
		d.logger.Printf("castbar[%s]: %s -> %s", d.StreamID, before, d.core.state)
	}
}
