//go:build nogpu

package main

import "errors"

func enableGPU() error {
	return errors.New("built without GPU support (nogpu tag)")
}
