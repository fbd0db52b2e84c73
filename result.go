// Package castbar - result.go
//
// The Result Assembler: packages one FSM step's output into the
// SparkResult the caller sees, normalizing "no spark" to -1 index/band
// rather than leaving zero-valued fields that would read as "spark at
// column 0".
package castbar

func assembleResult(sr stepResult) *SparkResult {
	res := &SparkResult{
		State:         sr.outputState,
		Progress:      sr.progress,
		IsFade50:      sr.isFade50,
		SparkDetected: sr.sparkDetected,
		SparkIndex:    -1,
		BandLeft:      -1,
		BandRight:     -1,
		BandRowStart:  sr.bandRowStart,
		BandRowEnd:    sr.bandRowEnd,
	}
	if sr.sparkDetected {
		res.SparkIndex = sr.sparkIndex
		res.BandLeft = sr.bandLeft
		res.BandRight = sr.bandRight
	}
	return res
}
