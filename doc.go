// Package castbar classifies the lifecycle of an on-screen cast bar from a
// stream of cropped ROI frames.
//
// A cast bar fills from left to right behind a bright moving "spark", peaks
// in a brief flash once full, then fades back to its idle background. The
// detector consumes one small BGR/BGRA/gray image per tick and emits, with
// one frame of latency, which of four stages the bar is currently in: Idle,
// Fill, TurnLight, or Fade. It is deliberately narrow: screen capture, ROI
// geometry, PNG encoding/decoding, and any CLI around this package are the
// caller's problem, not this package's.
//
// Typical use:
//
//	det, err := castbar.NewDetector(castbar.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer det.Close()
//
//	for frame := range frames {
//	    res, err := det.ProcessFrame(frame)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if res == nil {
//	        continue // warmup tick, or empty input frame
//	    }
//	    fmt.Println(res.State, res.Progress)
//	}
package castbar
