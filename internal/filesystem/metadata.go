package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"syscall"
	"time"

	"github.com/nicad/duckdb-file-tools/pkg/models"
)

// ErrSymlinkSkipped is returned by Extract when symlinks are not followed and
// the entry is itself a symlink. Such entries never appear in results.
var ErrSymlinkSkipped = errors.New("symlink skipped")

// IsRecoverable reports whether err means the entry should be skipped (or
// reported as null) rather than failing the whole query. Paths that run
// through a symlink loop (ELOOP) are skipped like missing ones.
func IsRecoverable(err error) bool {
	return errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, syscall.ELOOP) ||
		errors.Is(err, ErrSymlinkSkipped)
}

// Extract reads the metadata of path.
// With follow set, symlinks are resolved and every field describes the
// target while IsSymlink still reports the link itself. Without follow,
// symlinks yield ErrSymlinkSkipped.
func Extract(path string, follow bool) (*models.FileRecord, error) {
	linfo, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}

	info := linfo
	isLink := linfo.Mode()&fs.ModeSymlink != 0
	if isLink {
		if !follow {
			return nil, ErrSymlinkSkipped
		}
		if info, err = os.Stat(path); err != nil {
			return nil, err
		}
	}

	return newRecord(path, info, isLink), nil
}

// newRecord builds a record from already-resolved file info
func newRecord(path string, info fs.FileInfo, isLink bool) *models.FileRecord {
	times := platformTimes(path, info)

	rec := &models.FileRecord{
		Path:         path,
		ModifiedTime: models.ToMicros(info.ModTime()),
		AccessedTime: models.ToMicros(times.accessed),
		Permissions:  permissions(info),
		Inode:        inode(info),
		IsFile:       info.Mode().IsRegular(),
		IsDir:        info.IsDir(),
		IsSymlink:    isLink,
	}
	if info.Size() > 0 {
		rec.Size = uint64(info.Size())
	}

	// Creation time falls back to modification time where unsupported
	if times.created.IsZero() {
		rec.CreatedTime = rec.ModifiedTime
	} else {
		rec.CreatedTime = models.ToMicros(times.created)
	}

	return rec
}

// fileTimes holds the timestamps os.FileInfo does not expose portably.
// A zero value means the platform could not report it.
type fileTimes struct {
	accessed time.Time
	created  time.Time
}
