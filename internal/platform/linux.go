package platform

import "path/filepath"

// getLinuxInfo returns the scan roots for Linux. As on macOS the home tree
// is enumerated per child; the XDG cache and trash locations are explicit
// roots so they keep their own categories.
func getLinuxInfo(homeDir, username string) *Info {
	return &Info{
		OS:       Linux,
		HomeDir:  homeDir,
		Username: username,
		Roots: []Root{
			{Path: filepath.Join(homeDir, ".cache")},
			{Path: filepath.Join(homeDir, ".local/share/Trash")},
			{Path: filepath.Join(homeDir, ".local/share/containers")},
			{Path: homeDir},
		},
		ProtectedPaths: []string{
			"/etc",
			"/usr",
			"/var",
			filepath.Join(homeDir, ".ssh"),
			filepath.Join(homeDir, ".gnupg"),
			filepath.Join(homeDir, ".local/share/keyrings"),
		},
	}
}
