package engine

import "runtime"

// PlatformID returns the "<os>-<arch>" identifier used to key bundled engine
// binaries, e.g. "linux-x86-64" or "macos-arm64". Unrecognized systems map
// to "unknown" so the identifier is always well-formed.
func PlatformID() string {
	return platformOS() + "-" + platformArch()
}

func platformOS() string {
	switch runtime.GOOS {
	case "windows":
		return "windows"
	case "darwin":
		return "macos"
	case "linux":
		return "linux"
	default:
		return "unknown"
	}
}

func platformArch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x86-64"
	case "arm64":
		return "arm64"
	default:
		return "unknown"
	}
}
