package fixture

import (
	"errors"
	"fmt"
	"math/rand"

	"fortio.org/safecast"
)

// Reference parameters of the scale fixture.
const (
	DefaultSamples = 32
	DefaultScalar  = 5
	DefaultMin     = -100000
	DefaultMax     = 100000
)

// Errors returned by fixture functions.
var (
	ErrInvalidSamples = errors.New("fixture: sample count must be positive")
	ErrInvalidRange   = errors.New("fixture: min must be less than max")
	ErrOverflow       = errors.New("fixture: product overflows int32")
	ErrLengthMismatch = errors.New("fixture: input and golden lengths differ")
	ErrGoldenMismatch = errors.New("fixture: golden value does not match input * scalar")
)

// Params controls fixture generation. Inputs are drawn from [Min, Max).
type Params struct {
	Samples int
	Scalar  int32
	Min     int32 // inclusive
	Max     int32 // exclusive
}

// DefaultParams returns the reference parameters: 32 samples from
// [-100000, 100000) scaled by 5.
func DefaultParams() Params {
	return Params{
		Samples: DefaultSamples,
		Scalar:  DefaultScalar,
		Min:     DefaultMin,
		Max:     DefaultMax,
	}
}

// Validate checks that p describes a range whose scaled values fit in
// int32. The product is monotonic in the input, so checking both
// endpoints covers the whole range.
func (p Params) Validate() error {
	if p.Samples <= 0 {
		return ErrInvalidSamples
	}

	if p.Min >= p.Max {
		return ErrInvalidRange
	}

	if _, err := mul(p.Min, p.Scalar); err != nil {
		return err
	}

	if _, err := mul(p.Max-1, p.Scalar); err != nil {
		return err
	}

	return nil
}

// Set is one consistent (input, scalar, golden) triple.
type Set struct {
	Seed   int64 // seed that produced Input, 0 when built from values
	Scalar int32
	Input  []int32
	Golden []int32
}

// Len returns the number of samples in the set.
func (s Set) Len() int {
	return len(s.Input)
}

// Validate reports whether Golden is exactly Input scaled by Scalar.
func (s Set) Validate() error {
	if len(s.Input) != len(s.Golden) {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(s.Input), len(s.Golden))
	}

	for i, v := range s.Input {
		want := int64(v) * int64(s.Scalar)
		if int64(s.Golden[i]) != want {
			return fmt.Errorf("%w: index %d: got %d, want %d", ErrGoldenMismatch, i, s.Golden[i], want)
		}
	}

	return nil
}

// Generate draws p.Samples values uniformly from [p.Min, p.Max) using rng
// and computes the golden vector. The set's Seed is left at zero; callers
// that built rng from a seed record it themselves (see GenerateSeeded).
func Generate(rng *rand.Rand, p Params) (Set, error) {
	if err := p.Validate(); err != nil {
		return Set{}, err
	}

	span := int64(p.Max) - int64(p.Min)
	input := make([]int32, p.Samples)

	for i := range input {
		// In range by construction, the conversion cannot truncate.
		input[i] = int32(int64(p.Min) + rng.Int63n(span))
	}

	golden, err := Scale(input, p.Scalar)
	if err != nil {
		return Set{}, err
	}

	return Set{Scalar: p.Scalar, Input: input, Golden: golden}, nil
}

// GenerateSeeded is Generate with a random source built from seed. The
// seed is stored in the returned set.
func GenerateSeeded(seed int64, p Params) (Set, error) {
	s, err := Generate(New(seed), p)
	if err != nil {
		return Set{}, err
	}

	s.Seed = seed

	return s, nil
}

// FromValues builds a set from a fixed input vector. The input is copied.
func FromValues(input []int32, scalar int32) (Set, error) {
	if len(input) == 0 {
		return Set{}, ErrInvalidSamples
	}

	in := append([]int32(nil), input...)

	golden, err := Scale(in, scalar)
	if err != nil {
		return Set{}, err
	}

	return Set{Scalar: scalar, Input: in, Golden: golden}, nil
}

// Scale returns dst[i] = input[i] * scalar. A product outside the int32
// range returns an error wrapping ErrOverflow; nothing wraps around.
func Scale(input []int32, scalar int32) ([]int32, error) {
	out := make([]int32, len(input))

	for i, v := range input {
		p, err := mul(v, scalar)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}

		out[i] = p
	}

	return out, nil
}

func mul(a, b int32) (int32, error) {
	p := int64(a) * int64(b)

	v, err := safecast.Conv[int32](p)
	if err != nil {
		return 0, fmt.Errorf("%w: %d * %d = %d", ErrOverflow, a, b, p)
	}

	return v, nil
}
