// Package platform resolves the well-known scan locations and safety paths
// for the host operating system.
package platform

import (
	"os/user"
	"runtime"
)

// Platform represents the operating system platform
type Platform string

const (
	MacOS   Platform = "darwin"
	Linux   Platform = "linux"
	Unknown Platform = "unknown"
)

// Root is a scan starting point. When Discover is false every immediate
// child directory of the root becomes a candidate folder; when true the
// root is walked breadth-first and directories are claimed as candidates
// when their name or path classifies to a reclaimable category.
type Root struct {
	Path     string
	Discover bool
}

// Info contains platform-specific locations used by the scan and
// quarantine engines.
type Info struct {
	OS             Platform
	HomeDir        string
	Username       string
	Roots          []Root
	ProtectedPaths []string
}

// Detect returns the current platform
func Detect() Platform {
	switch runtime.GOOS {
	case "darwin":
		return MacOS
	case "linux":
		return Linux
	default:
		return Unknown
	}
}

// GetInfo returns platform-specific information for the current user.
func GetInfo() (*Info, error) {
	currentUser, err := user.Current()
	if err != nil {
		return nil, err
	}

	switch Detect() {
	case MacOS:
		return getMacOSInfo(currentUser.HomeDir, currentUser.Username), nil
	case Linux:
		return getLinuxInfo(currentUser.HomeDir, currentUser.Username), nil
	default:
		return nil, ErrUnsupportedPlatform
	}
}

// IsProtectedPath checks if a path is a system location that must never be
// quarantined, regardless of how it was classified.
func IsProtectedPath(path string) bool {
	protectedPaths := []string{
		"/",
		"/bin",
		"/boot",
		"/dev",
		"/etc",
		"/lib",
		"/lib64",
		"/proc",
		"/root",
		"/sbin",
		"/sys",
		"/usr",
		"/var",
		"/System",         // macOS
		"/Applications",   // macOS
		"/Library/System", // macOS
	}

	for _, protected := range protectedPaths {
		if path == protected {
			return true
		}
	}

	return false
}

// Errors
var (
	ErrUnsupportedPlatform = &PlatformError{"unsupported platform"}
)

// PlatformError represents a platform-related error
type PlatformError struct {
	Message string
}

func (e *PlatformError) Error() string {
	return e.Message
}
