// Package castbar - analyzer.go
//
// Per-frame analysis: band-row detection, spark localization, and the two
// scalar energies the state machine consumes. Built on gocv.Mat, operating
// on raw pixel access rather than contour masks, since the spark is a
// single moving edge rather than a filled blob.
package castbar

import (
	"math"
	"sort"

	"gocv.io/x/gocv"
)

// toBGR returns a 3-channel BGR Mat for any of the three accepted layouts.
// The caller must Close the returned Mat.
func toBGR(img gocv.Mat) (gocv.Mat, error) {
	switch img.Channels() {
	case 1:
		bgr := gocv.NewMat()
		gocv.CvtColor(img, &bgr, gocv.ColorGrayToBGR)
		return bgr, nil
	case 3:
		return img.Clone(), nil
	case 4:
		bgr := gocv.NewMat()
		gocv.CvtColor(img, &bgr, gocv.ColorBGRAToBGR)
		return bgr, nil
	default:
		return gocv.Mat{}, ErrUnsupportedChannels
	}
}

// analyzeFrame computes the FrameInfo for one ROI frame and returns the
// single-channel grayscale Mat the caller will retain in the three-frame
// window. The caller owns and must Close the returned Mat.
func analyzeFrame(img gocv.Mat, cfg DetectorConfig) (FrameInfo, gocv.Mat, error) {
	bgr, err := toBGR(img)
	if err != nil {
		return FrameInfo{}, gocv.Mat{}, err
	}
	defer bgr.Close()

	rows, cols := bgr.Rows(), bgr.Cols()

	gray := gocv.NewMat()
	gocv.CvtColor(bgr, &gray, gocv.ColorBGRToGray)

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(bgr, &hsv, gocv.ColorBGRToHSV)

	planes := gocv.Split(hsv)
	defer func() {
		for _, p := range planes {
			p.Close()
		}
	}()
	sat, val := planes[1], planes[2]

	bandStart, bandEnd := findBandRows(sat, rows, cols)
	energy := bandMeanV(val, bandStart, bandEnd, 0, cols)

	sparkRaw, sparkIdx, bandL, bandR := detectSparkOnBand(gray, val, bandStart, bandEnd, cols, cfg)

	var nonSparkEnergy float64
	if sparkRaw {
		nonSparkEnergy = nonSparkMeanV(val, bandStart, bandEnd, cols, bandL, bandR, energy)
	} else {
		nonSparkEnergy = energy
	}

	return FrameInfo{
		BandRowStart:   bandStart,
		BandRowEnd:     bandEnd,
		SparkRaw:       sparkRaw,
		SparkIdxRaw:    sparkIdx,
		BandL:          bandL,
		BandR:          bandR,
		Energy:         energy,
		NonSparkEnergy: nonSparkEnergy,
	}, gray, nil
}

// findBandRows locates the longest contiguous run of rows whose mean
// saturation is at least the midpoint of the row-mean range. Falls back to
// the whole image when no run of length >= 3 exists.
func findBandRows(sat gocv.Mat, rows, cols int) (int, int) {
	rowMeans := make([]float64, rows)
	for y := 0; y < rows; y++ {
		sum := 0.0
		for x := 0; x < cols; x++ {
			sum += float64(sat.GetUCharAt(y, x))
		}
		rowMeans[y] = sum / float64(cols)
	}

	minV, maxV := rowMeans[0], rowMeans[0]
	for _, v := range rowMeans {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	mid := (minV + maxV) / 2

	bestStart, bestLen := -1, 0
	curStart := -1
	for y := 0; y < rows; y++ {
		if rowMeans[y] >= mid {
			if curStart == -1 {
				curStart = y
			}
			continue
		}
		if curStart != -1 {
			if length := y - curStart; length > bestLen {
				bestLen, bestStart = length, curStart
			}
			curStart = -1
		}
	}
	if curStart != -1 {
		if length := rows - curStart; length > bestLen {
			bestLen, bestStart = length, curStart
		}
	}

	if bestLen < 3 {
		return 0, rows - 1
	}
	return bestStart, bestStart + bestLen - 1
}

// bandMeanV is the mean V over [rowStart..rowEnd] x [colStart..colEnd).
func bandMeanV(val gocv.Mat, rowStart, rowEnd, colStart, colEnd int) float64 {
	if colEnd <= colStart {
		return 0
	}
	sum := 0.0
	count := 0
	for y := rowStart; y <= rowEnd; y++ {
		for x := colStart; x < colEnd; x++ {
			sum += float64(val.GetUCharAt(y, x))
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// nonSparkMeanV is the mean V over band rows, excluding [bandL..bandR].
// Falls back to energy when both flanking ranges are empty.
func nonSparkMeanV(val gocv.Mat, rowStart, rowEnd, cols, bandL, bandR int, energy float64) float64 {
	if bandL < 0 || bandR < 0 {
		return energy
	}
	sum := 0.0
	count := 0
	for y := rowStart; y <= rowEnd; y++ {
		for x := 0; x < bandL; x++ {
			sum += float64(val.GetUCharAt(y, x))
			count++
		}
		for x := bandR + 1; x < cols; x++ {
			sum += float64(val.GetUCharAt(y, x))
			count++
		}
	}
	if count == 0 {
		return energy
	}
	return sum / float64(count)
}

// detectSparkOnBand implements §4.1 DetectSparkOnBand: a column-wise gray
// jump threshold, vote-over-band-rows, single-cluster requirement, and a
// quantile-driven expansion around the cluster's right edge.
func detectSparkOnBand(gray, val gocv.Mat, bandStart, bandEnd, cols int, cfg DetectorConfig) (raw bool, idx, bandL, bandR int) {
	if cols < 2 {
		return false, -1, -1, -1
	}
	bandHeight := bandEnd - bandStart + 1

	leftSkip := int(math.Floor(float64(cols) * cfg.LeftSkipRatio))
	if leftSkip < 1 {
		leftSkip = 1
	}

	numDiffCols := cols - 1
	votes := make([]int, numDiffCols)
	for y := bandStart; y <= bandEnd; y++ {
		for x := 0; x < numDiffCols; x++ {
			jump := int(gray.GetUCharAt(y, x+1)) - int(gray.GetUCharAt(y, x))
			if jump >= cfg.JumpThreshold {
				votes[x]++
			}
		}
	}

	strongThreshold := bandHeight/2 + 1
	strong := make([]bool, numDiffCols)
	for x := leftSkip; x < numDiffCols; x++ {
		strong[x] = votes[x] >= strongThreshold
	}

	type run struct{ start, end int }
	var runs []run
	for x := 0; x < numDiffCols; {
		if !strong[x] {
			x++
			continue
		}
		start := x
		for x < numDiffCols && strong[x] {
			x++
		}
		runs = append(runs, run{start, x - 1})
	}
	if len(runs) == 0 {
		return false, -1, -1, -1
	}

	mergeGap := int(math.Round(float64(cols) * cfg.MergeGapRatio))
	if mergeGap < 2 {
		mergeGap = 2
	}
	merged := []run{runs[0]}
	for _, r := range runs[1:] {
		last := &merged[len(merged)-1]
		if gap := r.start - last.end - 1; gap <= mergeGap {
			last.end = r.end
		} else {
			merged = append(merged, r)
		}
	}
	if len(merged) != 1 {
		return false, -1, -1, -1
	}

	seedCol := merged[0].end + 1
	if seedCol < leftSkip {
		return false, -1, -1, -1
	}
	if seedCol > cols-1 {
		seedCol = cols - 1
	}

	colMeans := make([]float64, cols)
	for x := 0; x < cols; x++ {
		sum := 0.0
		for y := bandStart; y <= bandEnd; y++ {
			sum += float64(val.GetUCharAt(y, x))
		}
		colMeans[x] = sum / float64(bandHeight)
	}
	q := percentile(colMeans, cfg.SparkQuantile)

	L, R := seedCol, seedCol
	for L-1 >= leftSkip && colMeans[L-1] >= q {
		L--
	}
	for R+1 < cols && colMeans[R+1] >= q {
		R++
	}
	if R-L+1 < 2 {
		return false, -1, -1, -1
	}

	return true, R, L, R
}

// percentile computes p (in (0,1]) over values using linear interpolation
// between order statistics, on a fresh in-place sort of the column-mean
// slice each frame.
func percentile(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n == 1 {
		return sorted[0]
	}
	idx := p * float64(n-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
