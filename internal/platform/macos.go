package platform

import "path/filepath"

// getMacOSInfo returns the scan roots for macOS. The home directory is
// enumerated child-by-child the way Finder presents it; the deep developer
// and container locations are listed explicitly so they surface as their
// own candidates instead of disappearing into the Library claim.
func getMacOSInfo(homeDir, username string) *Info {
	return &Info{
		OS:       MacOS,
		HomeDir:  homeDir,
		Username: username,
		Roots: []Root{
			{Path: filepath.Join(homeDir, "Library/Developer/Xcode/DerivedData")},
			{Path: filepath.Join(homeDir, "Library/Developer/CoreSimulator/Caches")},
			{Path: filepath.Join(homeDir, "Library/Caches")},
			{Path: filepath.Join(homeDir, "Library/Containers/com.docker.docker/Data/vms")},
			{Path: homeDir},
		},
		ProtectedPaths: []string{
			"/System",
			"/Applications",
			"/Library/System",
			filepath.Join(homeDir, "Library/Keychains"),
			filepath.Join(homeDir, "Library/Mail"),
			filepath.Join(homeDir, "Library/Application Support/MobileSync"),
		},
	}
}
