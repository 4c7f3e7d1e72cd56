package filesystem

import (
	"io/fs"
	"syscall"
	"time"
)

// platformTimes gets access and creation time from the attribute data (Windows)
func platformTimes(_ string, info fs.FileInfo) fileTimes {
	var ft fileTimes
	if stat, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
		ft.accessed = time.Unix(0, stat.LastAccessTime.Nanoseconds())
		ft.created = time.Unix(0, stat.CreationTime.Nanoseconds())
	}
	return ft
}

// permissions approximates POSIX bits from the read-only attribute
func permissions(info fs.FileInfo) string {
	if info.Mode().Perm()&0o200 == 0 {
		return "r--r--r--"
	}
	return "rw-rw-rw-"
}

// inode is not exposed through FileInfo on Windows
func inode(fs.FileInfo) uint64 {
	return 0
}
