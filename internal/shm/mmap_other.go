//go:build !linux

package shm

import (
	"fmt"
	"runtime"
)

// Shared memory requires platform mapping support. Darwin needs shm_open via
// cgo and Windows needs named file mappings; neither is wired up yet, so the
// SDK degrades to command-only operation there.

func mapCreate(name string, size int) ([]byte, error) {
	return nil, fmt.Errorf("shared memory is not supported on %s", runtime.GOOS)
}

func mapOpen(name string) ([]byte, error) {
	return nil, fmt.Errorf("shared memory is not supported on %s", runtime.GOOS)
}

func unmapSegment(data []byte) error {
	return fmt.Errorf("shared memory is not supported on %s", runtime.GOOS)
}

func removeObject(name string) error {
	return fmt.Errorf("shared memory is not supported on %s", runtime.GOOS)
}
