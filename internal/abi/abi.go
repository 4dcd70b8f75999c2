// Package abi verifies that the host this process runs on matches the
// System V AMD64 ABI the code generator targets, before handing generated
// assembly to an external assembler and linker that would otherwise fail
// with a confusing error far from the actual cause.
package abi

import (
	"fmt"
	"runtime"
)

// ErrUnsupportedHost reports a host architecture the generator cannot
// target.
type ErrUnsupportedHost struct {
	Machine string
}

func (e *ErrUnsupportedHost) Error() string {
	return fmt.Sprintf("host architecture %q is not x86-64; vslc only targets System V AMD64", e.Machine)
}

// CheckHost returns nil if the current host is x86-64, or an
// *ErrUnsupportedHost otherwise.
func CheckHost() error {
	machine, err := unameMachine()
	if err != nil {
		// Uname failed or is unavailable (any target other than Linux and
		// macOS); fall back to the Go
		// toolchain's own idea of the target architecture.
		machine = runtime.GOARCH
	}
	switch machine {
	case "x86_64", "amd64":
		return nil
	default:
		return &ErrUnsupportedHost{Machine: machine}
	}
}
