// Package driverconfig reads the environment-variable knobs the vslc
// driver exposes for its external toolchain, so a cross assembler and
// compiler can be substituted in CI or a container without a rebuild.
package driverconfig

import "github.com/xyproto/env/v2"

// Config is the resolved set of driver knobs.
type Config struct {
	// Assembler is the "as"-compatible binary CompileToExecutable invokes.
	Assembler string
	// Compiler is the "gcc"-compatible binary used to link against libc.
	Compiler string
	// Verbose enables extra diagnostic logging at the driver boundary.
	Verbose bool
}

// Load reads VSLC_AS, VSLC_CC, and VSLC_VERBOSE from the environment,
// falling back to "as", "gcc", and false respectively.
func Load() Config {
	return Config{
		Assembler: env.Str("VSLC_AS", "as"),
		Compiler:  env.Str("VSLC_CC", "gcc"),
		Verbose:   env.Bool("VSLC_VERBOSE"),
	}
}
