package filesystem

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// ErrNotText is returned when a file is not valid UTF-8
var ErrNotText = errors.New("file is not valid UTF-8 text")

// Reader loads whole files for the content functions
type Reader struct {
	fs afero.Fs
}

// NewReader creates a Reader over fsys (the OS filesystem when nil)
func NewReader(fsys afero.Fs) *Reader {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Reader{fs: fsys}
}

// ReadBlob returns the raw file content
func (r *Reader) ReadBlob(path string) ([]byte, error) {
	content, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return content, nil
}

// ReadText returns the file content as a string; it must be valid UTF-8
func (r *Reader) ReadText(path string) (string, error) {
	content, err := r.ReadBlob(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(content) {
		return "", fmt.Errorf("%w: %s", ErrNotText, path)
	}
	return string(content), nil
}

// Exists reports whether path exists on the reader's filesystem
func (r *Reader) Exists(path string) bool {
	ok, err := afero.Exists(r.fs, path)
	return err == nil && ok
}
