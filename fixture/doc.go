// Package fixture generates golden test vectors for scale kernels.
//
// A fixture Set holds a random input vector, a scalar, and the golden
// vector golden[i] = input[i] * scalar. Sets are produced from an explicit
// random source so that any run can be reproduced from its seed:
//
//	rng := fixture.New(42)
//	set, err := fixture.Generate(rng, fixture.DefaultParams())
//
// The sinks live in sub-packages: textio writes the plain text fixtures,
// cheader renders the C header consumed by the device harness, and bundle
// writes a single binary copy of the set.
package fixture
