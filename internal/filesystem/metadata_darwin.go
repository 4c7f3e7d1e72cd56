package filesystem

import (
	"io/fs"
	"strconv"
	"syscall"
	"time"
)

// platformTimes gets access and birth time from stat (macOS)
func platformTimes(_ string, info fs.FileInfo) fileTimes {
	var ft fileTimes
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		ft.accessed = time.Unix(st.Atimespec.Unix())
		ft.created = time.Unix(st.Birthtimespec.Unix())
	}
	return ft
}

// permissions renders the raw st_mode in octal, e.g. "100644"
func permissions(info fs.FileInfo) string {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return strconv.FormatUint(uint64(st.Mode), 8)
	}
	return strconv.FormatUint(uint64(info.Mode().Perm()), 8)
}

// inode returns st_ino
func inode(info fs.FileInfo) uint64 {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return st.Ino
	}
	return 0
}
