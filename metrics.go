// Package castbar - metrics.go
//
// Optional Prometheus instrumentation: one struct holding its collectors,
// constructed and registered once per Detector. A Detector that never
// calls WithMetrics pays nothing: the metrics pointer stays nil and every
// record* call below is a no-op.
package castbar

import "github.com/prometheus/client_golang/prometheus"

// detectorMetrics holds the collectors registered for one Detector.
type detectorMetrics struct {
	framesProcessed prometheus.Counter
	stateEntries    *prometheus.CounterVec
	progress        prometheus.Gauge
}

func newDetectorMetrics(reg prometheus.Registerer, streamID string) (*detectorMetrics, error) {
	labels := prometheus.Labels{"stream_id": streamID}

	framesProcessed := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "castbar_frames_processed_total",
		Help:        "Total frames processed by a cast-bar detector.",
		ConstLabels: labels,
	})
	stateEntries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "castbar_state_entries_total",
		Help:        "Count of emitted ticks, labeled by SparkState.",
		ConstLabels: labels,
	}, []string{"state"})
	progress := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "castbar_progress",
		Help:        "Most recently emitted Progress value, in [0,1].",
		ConstLabels: labels,
	})

	for _, c := range []prometheus.Collector{framesProcessed, stateEntries, progress} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return &detectorMetrics{
		framesProcessed: framesProcessed,
		stateEntries:    stateEntries,
		progress:        progress,
	}, nil
}

func (m *detectorMetrics) recordFrame() {
	if m == nil {
		return
	}
	m.framesProcessed.Inc()
}

func (m *detectorMetrics) recordResult(res *SparkResult) {
	if m == nil || res == nil {
		return
	}
	m.stateEntries.WithLabelValues(res.State.String()).Inc()
	m.progress.Set(res.Progress)
}
