// Package castbar - window.go
//
// The three-frame sliding window (prev/curr/next) the state machine
// classifies against. Grayscale Mats are retained by value (gocv.Mat is a
// thin handle, not a reference into caller memory) and rotated through
// two slots; nothing is ever held by reference into an input the caller
// may reuse or free.
package castbar

import "gocv.io/x/gocv"

// frameWindow is the FIFO of (FrameInfo, grayscale Mat) pairs the state
// machine classifies against. It fills over the first two ticks (no output
// during warmup) and from the third tick on is always full.
type frameWindow struct {
	hasPrev, hasCurr   bool
	prevInfo, currInfo FrameInfo
	prevGray, currGray gocv.Mat
}

// tick ingests one new FrameInfo/gray pair. During warmup (first two
// ticks) it stores the frame and reports ready=false. From the third tick
// on it reports ready=true and returns the (prev, curr, next) triple the
// caller should classify, where next is the frame just ingested; the
// window itself is not yet rotated (call advance once classification is
// done with prevGray/currGray).
func (w *frameWindow) tick(info FrameInfo, gray gocv.Mat) (prev, curr, next FrameInfo, prevGray, currGray, nextGray gocv.Mat, ready bool) {
	if !w.hasCurr {
		w.currInfo, w.currGray = info, gray
		w.hasCurr = true
		return FrameInfo{}, FrameInfo{}, FrameInfo{}, gocv.Mat{}, gocv.Mat{}, gocv.Mat{}, false
	}
	if !w.hasPrev {
		w.prevInfo, w.prevGray = w.currInfo, w.currGray
		w.currInfo, w.currGray = info, gray
		w.hasPrev = true
		return FrameInfo{}, FrameInfo{}, FrameInfo{}, gocv.Mat{}, gocv.Mat{}, gocv.Mat{}, false
	}
	return w.prevInfo, w.currInfo, info, w.prevGray, w.currGray, gray, true
}

// advance rotates the window after a ready tick has been classified:
// curr becomes prev (the old prev's Mat is released), and the frame
// supplied to tick becomes curr.
func (w *frameWindow) advance(nextInfo FrameInfo, nextGray gocv.Mat) {
	w.prevGray.Close()
	w.prevInfo, w.prevGray = w.currInfo, w.currGray
	w.currInfo, w.currGray = nextInfo, nextGray
}

// reset releases both retained Mats and returns the window to its empty,
// pre-warmup state.
func (w *frameWindow) reset() {
	if w.hasPrev {
		w.prevGray.Close()
	}
	if w.hasCurr {
		w.currGray.Close()
	}
	*w = frameWindow{}
}
