package models

import (
	"time"
)

// FileRecord is one filesystem entry matched by a query
type FileRecord struct {
	Path         string  `json:"path" yaml:"path"`                     // Matched path as produced by traversal (not canonicalized)
	Size         uint64  `json:"size" yaml:"size"`                     // Size in bytes
	ModifiedTime int64   `json:"modified_time" yaml:"modified_time"`   // Microseconds since Unix epoch
	AccessedTime int64   `json:"accessed_time" yaml:"accessed_time"`   // Microseconds since Unix epoch
	CreatedTime  int64   `json:"created_time" yaml:"created_time"`     // Microseconds since Unix epoch, falls back to ModifiedTime
	Permissions  string  `json:"permissions" yaml:"permissions"`       // Octal st_mode on POSIX, rw approximation elsewhere
	Inode        uint64  `json:"inode" yaml:"inode"`                   // Platform file identifier, 0 if unsupported
	IsFile       bool    `json:"is_file" yaml:"is_file"`               // Regular file
	IsDir        bool    `json:"is_dir" yaml:"is_dir"`                 // Directory
	IsSymlink    bool    `json:"is_symlink" yaml:"is_symlink"`         // Path is a symbolic link; only set when following, since unfollowed links are dropped
	Hash         *string `json:"hash,omitempty" yaml:"hash,omitempty"` // Lowercase hex digest, regular files only
}

// HasHash reports whether a content digest was computed for the record
func (r *FileRecord) HasHash() bool {
	return r.Hash != nil
}

// Modified returns the modification time as a time.Time
func (r *FileRecord) Modified() time.Time {
	return time.UnixMicro(r.ModifiedTime).UTC()
}

// Accessed returns the access time as a time.Time
func (r *FileRecord) Accessed() time.Time {
	return time.UnixMicro(r.AccessedTime).UTC()
}

// Created returns the creation time as a time.Time
func (r *FileRecord) Created() time.Time {
	return time.UnixMicro(r.CreatedTime).UTC()
}

// ToMicros converts a time to microseconds since the Unix epoch.
// Times before the epoch are clamped to zero.
func ToMicros(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	us := t.UnixMicro()
	if us < 0 {
		return 0
	}
	return us
}
