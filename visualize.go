// Package castbar - visualize.go
//
// Debug overlay rendering: converts a grayscale Mat to BGR and draws
// gocv.Rectangle / gocv.PutText annotations onto it for visual inspection.
package castbar

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

var (
	colorBand  = color.RGBA{0, 255, 255, 255}
	colorSpark = color.RGBA{0, 0, 255, 255}
	colorText  = color.RGBA{0, 255, 0, 255}
)

// Visualize renders the band row range and, if present, the spark column
// range onto a BGR copy of gray, plus a one-line label with the state and
// progress carried by res. The caller owns and must Close the returned Mat.
func Visualize(gray gocv.Mat, res *SparkResult) gocv.Mat {
	out := gocv.NewMat()
	gocv.CvtColor(gray, &out, gocv.ColorGrayToBGR)

	if res == nil {
		return out
	}

	cols := out.Cols()
	if res.BandRowEnd >= res.BandRowStart {
		gocv.Rectangle(&out,
			image.Rect(0, res.BandRowStart, cols, res.BandRowEnd+1),
			colorBand, 1)
	}
	if res.SparkDetected && res.BandLeft >= 0 && res.BandRight >= 0 {
		gocv.Rectangle(&out,
			image.Rect(res.BandLeft, res.BandRowStart, res.BandRight+1, res.BandRowEnd+1),
			colorSpark, 2)
	}

	label := fmt.Sprintf("%s p=%.2f idx=%d", res.State, res.Progress, res.SparkIndex)
	gocv.PutText(&out, label, image.Pt(4, 16), gocv.FontHersheyPlain, 1.0, colorText, 1)

	return out
}
