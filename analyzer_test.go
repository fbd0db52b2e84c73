package castbar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func matOfChannels(t *testing.T, channels int) gocv.Mat {
	var mat gocv.Mat
	switch channels {
	case 1:
		mat = gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8U)
	case 2:
		mat = gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC2)
	case 3:
		mat = gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3)
	case 4:
		mat = gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC4)
	}
	t.Cleanup(func() { mat.Close() })
	return mat
}

func TestToBGR(t *testing.T) {
	t.Run("gray promotes to 3 channels", func(t *testing.T) {
		out, err := toBGR(matOfChannels(t, 1))
		require.NoError(t, err)
		defer out.Close()
		assert.Equal(t, 3, out.Channels())
	})
	t.Run("bgr passes through as a clone", func(t *testing.T) {
		in := matOfChannels(t, 3)
		out, err := toBGR(in)
		require.NoError(t, err)
		defer out.Close()
		assert.Equal(t, 3, out.Channels())
	})
	t.Run("bgra drops the alpha channel", func(t *testing.T) {
		out, err := toBGR(matOfChannels(t, 4))
		require.NoError(t, err)
		defer out.Close()
		assert.Equal(t, 3, out.Channels())
	})
	t.Run("unsupported channel count errors", func(t *testing.T) {
		_, err := toBGR(matOfChannels(t, 2))
		assert.ErrorIs(t, err, ErrUnsupportedChannels)
	})
}

func TestFindBandRows(t *testing.T) {
	rows, cols := 8, 6
	sat := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8U)
	defer sat.Close()

	for y := 0; y < rows; y++ {
		v := uint8(40)
		if y >= 2 && y <= 5 {
			v = 220
		}
		for x := 0; x < cols; x++ {
			sat.SetUCharAt(y, x, v)
		}
	}

	start, end := findBandRows(sat, rows, cols)
	assert.Equal(t, 2, start)
	assert.Equal(t, 5, end)
}

func TestFindBandRowsFallsBackWhenNoRun(t *testing.T) {
	rows, cols := 4, 4
	sat := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8U)
	defer sat.Close()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			sat.SetUCharAt(y, x, uint8(y*10))
		}
	}
	start, end := findBandRows(sat, rows, cols)
	assert.Equal(t, 0, start)
	assert.Equal(t, rows-1, end)
}

func TestBandMeanV(t *testing.T) {
	val := gocv.NewMatWithSize(3, 4, gocv.MatTypeCV8U)
	defer val.Close()
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			val.SetUCharAt(y, x, uint8(50))
		}
	}
	assert.InDelta(t, 50, bandMeanV(val, 0, 2, 0, 4), 1e-9)
	assert.Equal(t, 0.0, bandMeanV(val, 0, 2, 2, 2))
}

func TestNonSparkMeanV(t *testing.T) {
	val := gocv.NewMatWithSize(2, 6, gocv.MatTypeCV8U)
	defer val.Close()
	for y := 0; y < 2; y++ {
		for x := 0; x < 6; x++ {
			v := uint8(100)
			if x >= 2 && x <= 3 {
				v = 255
			}
			val.SetUCharAt(y, x, v)
		}
	}
	got := nonSparkMeanV(val, 0, 1, 6, 2, 3, 999)
	assert.InDelta(t, 100, got, 1e-9)
}

func TestNonSparkMeanVFallsBackWithoutSpark(t *testing.T) {
	val := gocv.NewMatWithSize(2, 6, gocv.MatTypeCV8U)
	defer val.Close()
	assert.Equal(t, 42.0, nonSparkMeanV(val, 0, 1, 6, -1, -1, 42))
}

func TestPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 3, percentile(values, 0.5), 1e-9)
	assert.InDelta(t, 1, percentile(values, 0), 1e-9)
	assert.InDelta(t, 5, percentile(values, 1), 1e-9)
	assert.Equal(t, 0.0, percentile(nil, 0.5))
	assert.Equal(t, 7.0, percentile([]float64{7}, 0.5))
}

func TestDetectSparkOnBand(t *testing.T) {
	rows, cols := 3, 10
	gray := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8U)
	defer gray.Close()
	val := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8U)
	defer val.Close()

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			grayV := uint8(50)
			if x >= 5 {
				grayV = 68
			}
			gray.SetUCharAt(y, x, grayV)

			valV := uint8(100)
			if x == 5 || x == 6 {
				valV = 200
			}
			val.SetUCharAt(y, x, valV)
		}
	}

	cfg := DefaultConfig()
	raw, idx, bandL, bandR := detectSparkOnBand(gray, val, 0, rows-1, cols, cfg)

	require.True(t, raw)
	assert.Equal(t, 6, idx)
	assert.Equal(t, 5, bandL)
	assert.Equal(t, 6, bandR)
}

func TestDetectSparkOnBandNoJumpMeansNoSpark(t *testing.T) {
	rows, cols := 3, 10
	gray := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8U)
	defer gray.Close()
	val := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8U)
	defer val.Close()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			gray.SetUCharAt(y, x, 80)
			val.SetUCharAt(y, x, 100)
		}
	}
	cfg := DefaultConfig()
	raw, _, _, _ := detectSparkOnBand(gray, val, 0, rows-1, cols, cfg)
	assert.False(t, raw)
}
