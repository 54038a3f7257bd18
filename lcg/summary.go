package lcg

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a generated sequence.
type Summary struct {
	Length int     `json:"length"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
}

// Summarize computes descriptive statistics of seq.
func Summarize(seq []float64) Summary {
	if len(seq) == 0 {
		return Summary{}
	}
	s := Summary{
		Length: len(seq),
		Min:    floats.Min(seq),
		Max:    floats.Max(seq),
	}
	if len(seq) == 1 {
		s.Mean = seq[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(seq, nil)
	return s
}

// Pixels maps seq onto 8-bit grayscale levels, byte(v*255), in order.
// A size x size image is the result read row-major.
func Pixels(seq []float64) []byte {
	px := make([]byte, len(seq))
	for i, v := range seq {
		px[i] = byte(v * 255)
	}
	return px
}
