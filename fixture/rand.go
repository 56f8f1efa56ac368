package fixture

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// New returns a random source seeded with seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// RandomSeed draws a non-zero seed from the operating system's entropy
// source. Used when the caller did not pin a seed; log or store the result
// to make the run reproducible.
func RandomSeed() (int64, error) {
	var buf [8]byte

	for {
		if _, err := crand.Read(buf[:]); err != nil {
			return 0, fmt.Errorf("fixture: read seed: %w", err)
		}

		// Clear the sign bit so seeds print as positive numbers.
		seed := int64(binary.LittleEndian.Uint64(buf[:]) &^ (1 << 63))
		if seed != 0 {
			return seed, nil
		}
	}
}
