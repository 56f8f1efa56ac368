// Package cheader renders a fixture set as a C header for the device test
// harness and parses such headers back for checks.
//
// The header defines SAMPLES and SCALAR and two statically initialized,
// page-aligned int32_t arrays, one value per line:
//
//	#pragma once
//	// DO NOT CHANGE THIS
//	#define SAMPLES 32
//	#define SCALAR 5
//
//	static int32_t cInput[SAMPLES] __attribute__ ((__aligned__(4096))) = {
//	    -50000,
//	    ...
//	};
//
// Output is a pure function of the set and Options, so headers can be
// compared byte for byte.
package cheader
