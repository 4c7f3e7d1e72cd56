//go:build !linux && !darwin && !windows

package filesystem

import (
	"io/fs"
	"strconv"
)

// platformTimes has no portable source elsewhere; callers fall back to mtime
func platformTimes(_ string, info fs.FileInfo) fileTimes {
	return fileTimes{accessed: info.ModTime()}
}

// permissions renders the permission bits in octal
func permissions(info fs.FileInfo) string {
	return strconv.FormatUint(uint64(info.Mode().Perm()), 8)
}

// inode is unsupported on this platform
func inode(fs.FileInfo) uint64 {
	return 0
}
