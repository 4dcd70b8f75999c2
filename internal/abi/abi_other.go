//go:build !linux && !darwin

package abi

import "errors"

func unameMachine() (string, error) {
	return "", errors.New("uname unavailable on this platform")
}
