package testutil

import (
	"fmt"
	"testing"
)

// RequireIntsEqual fails t if got and want differ in length or in any
// element, reporting the first differing index.
func RequireIntsEqual(t *testing.T, got, want []int32) {
	t.Helper()
	if i, err := FirstDiff(got, want); err != nil {
		t.Fatal(err)
	} else if i >= 0 {
		t.Fatalf("index %d: got %d, want %d", i, got[i], want[i])
	}
}

// FirstDiff returns the first index where a and b differ, or -1.
// Returns an error if the slices differ in length.
func FirstDiff(a, b []int32) (int, error) {
	if len(a) != len(b) {
		return -1, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}

	for i := range a {
		if a[i] != b[i] {
			return i, nil
		}
	}

	return -1, nil
}
