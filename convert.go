// Package castbar - convert.go
//
// Helpers for callers that only have a stdlib image.Image or a raw pixel
// buffer, so they are not forced to learn gocv just to call ProcessFrame.
package castbar

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// FromImage converts a Go image.Image into the gocv.Mat ProcessFrame
// expects. The caller owns and must Close the returned Mat.
func FromImage(img image.Image) (gocv.Mat, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("castbar: converting image: %w", err)
	}
	return mat, nil
}

// FromBytes wraps a raw pixel buffer (row-major, byte-sized samples, 1, 3,
// or 4 channels) into a gocv.Mat. The caller owns and must Close the
// returned Mat; data is copied, not aliased.
func FromBytes(width, height, channels int, data []byte) (gocv.Mat, error) {
	matType, err := matTypeFor(channels)
	if err != nil {
		return gocv.Mat{}, err
	}
	want := width * height * channels
	if len(data) != want {
		return gocv.Mat{}, fmt.Errorf("castbar: expected %d bytes for %dx%dx%d, got %d", want, width, height, channels, len(data))
	}

	mat := gocv.NewMatWithSize(height, width, matType)
	ptr, err := mat.DataPtrUint8()
	if err != nil {
		mat.Close()
		return gocv.Mat{}, fmt.Errorf("castbar: accessing mat buffer: %w", err)
	}
	copy(ptr, data)
	return mat, nil
}

func matTypeFor(channels int) (gocv.MatType, error) {
	switch channels {
	case 1:
		return gocv.MatTypeCV8U, nil
	case 3:
		return gocv.MatTypeCV8UC3, nil
	case 4:
		return gocv.MatTypeCV8UC4, nil
	default:
		return 0, ErrUnsupportedChannels
	}
}
