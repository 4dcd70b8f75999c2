//go:build linux || darwin

package abi

import (
	"bytes"

	"golang.org/x/sys/unix"
)

// unameMachine returns the kernel-reported machine hardware name (e.g.
// "x86_64"), the field checked against before generated assembly is handed
// to the host assembler.
func unameMachine() (string, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(u.Machine[:], "\x00")), nil
}
