package filesystem

import (
	"io/fs"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// platformTimes gets access time from stat and birth time from statx (Linux)
func platformTimes(path string, info fs.FileInfo) fileTimes {
	var ft fileTimes

	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		ft.accessed = time.Unix(st.Atim.Unix())
	}

	// info already describes the resolved entry, so follow links here
	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &stx); err == nil {
		if stx.Mask&unix.STATX_BTIME != 0 && stx.Btime.Sec != 0 {
			ft.created = time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
		}
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
