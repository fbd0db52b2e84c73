package castbar

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func blankFrame(t *testing.T) gocv.Mat {
	m := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestNewDetectorRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.JumpThreshold = 0
	_, err := NewDetector(cfg)
	assert.ErrorIs(t, err, ErrInvalidJumpThreshold)
}

func TestNewDetectorAssignsUniqueStreamID(t *testing.T) {
	a, err := NewDetector(DefaultConfig())
	require.NoError(t, err)
	defer a.Close()
	b, err := NewDetector(DefaultConfig())
	require.NoError(t, err)
	defer b.Close()

	assert.NotEmpty(t, a.StreamID)
	assert.NotEqual(t, a.StreamID, b.StreamID)
}

func TestProcessFrameRejectsEmptyImage(t *testing.T) {
	d, err := NewDetector(DefaultConfig())
	require.NoError(t, err)
	defer d.Close()

	res, err := d.ProcessFrame(gocv.Mat{})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestProcessFrameWarmupThenEmitsIdle(t *testing.T) {
	d, err := NewDetector(DefaultConfig())
	require.NoError(t, err)
	defer d.Close()

	res, err := d.ProcessFrame(blankFrame(t))
	require.NoError(t, err)
	assert.Nil(t, res, "first tick is warmup")

	res, err = d.ProcessFrame(blankFrame(t))
	require.NoError(t, err)
	assert.Nil(t, res, "second tick is warmup")

	res, err = d.ProcessFrame(blankFrame(t))
	require.NoError(t, err)
	require.NotNil(t, res, "third tick should emit a result")
	assert.Equal(t, Idle, res.State)
	assert.Equal(t, 0.0, res.Progress)
	assert.False(t, res.SparkDetected)
}

func TestDetectorResetReturnsToWarmup(t *testing.T) {
	d, err := NewDetector(DefaultConfig())
	require.NoError(t, err)
	defer d.Close()

	d.ProcessFrame(blankFrame(t))
	d.ProcessFrame(blankFrame(t))
	res, err := d.ProcessFrame(blankFrame(t))
	require.NoError(t, err)
	require.NotNil(t, res)

	d.Reset()
	snap := d.DebugSnapshot()
	assert.Equal(t, Idle, snap.State)

	res, err = d.ProcessFrame(blankFrame(t))
	require.NoError(t, err)
	assert.Nil(t, res, "after Reset the window must warm up again")
}

func TestDetectorCloseIsIdempotentAndNilSafe(t *testing.T) {
	var nilDetector *Detector
	assert.NoError(t, nilDetector.Close())

	d, err := NewDetector(DefaultConfig())
	require.NoError(t, err)
	assert.NoError(t, d.Close())
	assert.NoError(t, d.Close())
}

func TestWithMetricsRegistersCollectors(t *testing.T) {
	d, err := NewDetector(DefaultConfig())
	require.NoError(t, err)
	defer d.Close()

	reg := prometheus.NewRegistry()
	require.NoError(t, d.WithMetrics(reg))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestProcessFrameOnNilDetector(t *testing.T) {
	var d *Detector
	_, err := d.ProcessFrame(gocv.Mat{})
	assert.ErrorIs(t, err, ErrNilDetector)
}
