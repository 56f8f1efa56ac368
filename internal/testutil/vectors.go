package testutil

import "math/rand"

// DeterministicInts generates n integers uniform in [lo, hi) from a fixed
// seed. It draws independently of the fixture package so tests can check
// generated sets against a second source.
func DeterministicInts(seed int64, lo, hi int32, n int) []int32 {
	out := make([]int32, n)
	rng := rand.New(rand.NewSource(seed))
	span := int64(hi) - int64(lo)
	for i := range out {
		out[i] = int32(int64(lo) + rng.Int63n(span))
	}

	return out
}

// ScenarioInput returns a fixed 32-sample input vector that covers the
// edges of the reference range [-100000, 100000).
func ScenarioInput() []int32 {
	return []int32{
		-50000, 0, 100, 99999, -100000, 1, -1, 42,
		12345, -12345, 65535, -65536, 7, -7, 99998, -99999,
		500, -500, 31, -32, 1000, -1000, 2, -2,
		33333, -33333, 88888, -88888, 10, -10, 77, -77,
	}
}

// ScaleRef is the reference scale used to cross-check fixture output.
func ScaleRef(in []int32, scalar int32) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v) * int64(scalar)
	}

	return out
}
