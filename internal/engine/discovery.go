package engine

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// EnvEnginePath overrides engine binary discovery when set.
const EnvEnginePath = "PIVOT_ENGINE_PATH"

const binaryName = "pivot_engine"

// ErrBinaryNotFound is returned when no discovery step yields an engine
// binary.
var ErrBinaryNotFound = errors.New("engine binary not found")

// BinaryFileName returns the platform-specific engine executable name.
func BinaryFileName() string {
	if runtime.GOOS == "windows" {
		return binaryName + ".exe"
	}
	return binaryName
}

// ResolveBinary resolves the engine binary path. Discovery order:
//
//  1. explicit path argument
//  2. PIVOT_ENGINE_PATH environment variable
//  3. pivot_engine on the execution PATH
//  4. bundled binary under <bundledDir>/<os>-<arch>/
//
// An empty bundledDir skips step 4.
func ResolveBinary(explicit, bundledDir string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if p := os.Getenv(EnvEnginePath); p != "" {
		return p, nil
	}

	if p, err := exec.LookPath(BinaryFileName()); err == nil {
		return p, nil
	}

	if bundledDir != "" {
		p := filepath.Join(bundledDir, PlatformID(), BinaryFileName())
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w: set %s or pass an explicit path", ErrBinaryNotFound, EnvEnginePath)
}
