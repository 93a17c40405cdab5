//go:build darwin || linux

package scanner

import (
	"io/fs"
	"syscall"
)

// deviceOf extracts the device ID backing a file, used to keep traversal on
// the mount the scan root belongs to.
func deviceOf(info fs.FileInfo) (uint64, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return uint64(st.Dev), true
}
