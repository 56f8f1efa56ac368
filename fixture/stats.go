package fixture

import (
	"math/bits"

	"github.com/cwbudde/algo-vecmath"
)

// Stats summarizes the value range of a set.
type Stats struct {
	Samples    int
	Scalar     int32
	InputMin   int32
	InputMax   int32
	InputPeak  int64 // max |input[i]|
	GoldenPeak int64 // max |golden[i]|
	GoldenBits int   // signed bits needed to hold every golden value
	Headroom   int   // 32 - GoldenBits
}

// Analyze computes Stats for s. An empty set yields zero peaks and a
// single-bit golden width.
func Analyze(s Set) Stats {
	st := Stats{
		Samples: s.Len(),
		Scalar:  s.Scalar,
	}

	// MaxAbs works on float64; every int32 is exact there, so the peaks
	// survive the round trip.
	in := make([]float64, len(s.Input))
	for i, v := range s.Input {
		in[i] = float64(v)

		if i == 0 || v < st.InputMin {
			st.InputMin = v
		}

		if i == 0 || v > st.InputMax {
			st.InputMax = v
		}
	}

	st.InputPeak = int64(vecmath.MaxAbs(in))
	st.GoldenPeak = int64(vecmath.MaxAbs(toFloat(s.Golden)))
	st.GoldenBits = signedBits(s.Golden)
	st.Headroom = 32 - st.GoldenBits

	return st
}

// signedBits returns the two's complement width needed for all of v.
func signedBits(v []int32) int {
	n := 1

	for _, x := range v {
		// For negative x, ^x is the magnitude that needs representing
		// (-1 fits in one bit, -2^31 in 32).
		m := uint32(x)
		if x < 0 {
			m = ^m
		}

		if b := bits.Len32(m) + 1; b > n {
			n = b
		}
	}

	return n
}

func toFloat(v []int32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}

	return out
}
