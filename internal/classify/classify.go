// Package classify maps directory names and paths to reclaim categories.
// Classification is pure string matching: no I/O, no side effects, and the
// same input always yields the same category.
package classify

import "strings"

// Category is a fixed classification label applied to a candidate folder.
type Category string

const (
	CategoryVirtualMachines Category = "Virtual Machines & Containers"
	CategoryPackageCaches   Category = "Package Caches"
	CategoryBuildArtifacts  Category = "Build Artifacts"
	CategorySystemLibraries Category = "System Libraries"
	CategoryTrash           Category = "Trash"
	CategoryUserFiles       Category = "User Files"
	CategoryOther           Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryVirtualMachines,
	CategoryPackageCaches,
	CategoryBuildArtifacts,
	CategorySystemLibraries,
	CategoryTrash,
	CategoryUserFiles,
	CategoryOther,
}

// Reclaimable reports whether folders in the category may be quarantined.
// User Files, System Libraries and Other are reported for visibility only.
func Reclaimable(c Category) bool {
	switch c {
	case CategoryVirtualMachines, CategoryPackageCaches, CategoryBuildArtifacts, CategoryTrash:
		return true
	}
	return false
}

// Path-segment rules are checked before plain name rules so that a well-known
// deep location wins over the name of the directory that contains it
// (~/Library/Developer/Xcode/DerivedData is Build Artifacts, not part of
// System Libraries).
var segmentRules = []struct {
	segment  string
	category Category
}{
	{"/Library/Developer/Xcode/DerivedData", CategoryBuildArtifacts},
	{"/Library/Developer/CoreSimulator", CategoryVirtualMachines},
	{"/Library/Containers/com.docker.docker", CategoryVirtualMachines},
	{"/Library/Caches", CategoryPackageCaches},
	{"/.local/share/Trash", CategoryTrash},
	{"/.local/share/containers", CategoryVirtualMachines},
	{"/.cache", CategoryPackageCaches},
}

// hasSegment reports whether segment occurs in path on directory
// boundaries: the match must end at a separator or at the end of the path,
// so "/Library/Caches" never matches "/Library/CachesArchive".
func hasSegment(path, segment string) bool {
	for start := 0; ; {
		i := strings.Index(path[start:], segment)
		if i < 0 {
			return false
		}
		end := start + i + len(segment)
		if end == len(path) || path[end] == '/' {
			return true
		}
		start += i + 1
	}
}

var vmNames = map[string]bool{
	".colima":    true,
	".docker":    true,
	".lima":      true,
	".orbstack":  true,
	".multipass": true,
	".vagrant.d": true,
}

var packageCacheNames = map[string]bool{
	"node_modules": true,
	".npm":         true,
	".yarn":        true,
	".pnpm-store":  true,
	".rustup":      true,
	".cargo":       true,
	".gradle":      true,
	".m2":          true,
	".cocoapods":   true,
	".pub-cache":   true,
	".nuget":       true,
	".cache":       true,
	"bower_components": true,
}

var buildArtifactNames = map[string]bool{
	"target":      true,
	"dist":        true,
	"build":       true,
	".next":       true,
	".turbo":      true,
	"__pycache__": true,
	".angular":    true,
	"out":         true,
	".build":      true,
	"DerivedData": true,
}

var userFileNames = map[string]bool{
	"Applications": true,
	"Desktop":      true,
	"Documents":    true,
	"Downloads":    true,
	"Movies":       true,
	"Music":        true,
	"Pictures":     true,
	"Public":       true,
}

// Classify returns the category for a directory with the given absolute path
// and base name. Rules are evaluated most specific first and the first match
// wins; anything unmatched is Other. Note that .git intentionally has no
// rule: version-controlled state is never reclaimable.
func Classify(path, name string) Category {
	for _, r := range segmentRules {
		if hasSegment(path, r.segment) {
			return r.category
		}
	}

	if name == ".Trash" || strings.HasPrefix(name, ".Trash-") {
		return CategoryTrash
	}

	switch {
	case vmNames[name]:
		return CategoryVirtualMachines
	case packageCacheNames[name]:
		return CategoryPackageCaches
	case buildArtifactNames[name]:
		return CategoryBuildArtifacts
	case name == "Library":
		return CategorySystemLibraries
	case userFileNames[name]:
		return CategoryUserFiles
	}

	return CategoryOther
}
