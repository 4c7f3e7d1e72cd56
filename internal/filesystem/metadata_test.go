package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_RegularFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0o644))

	mtime := time.Date(2024, 3, 1, 12, 0, 0, 123456000, time.UTC)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	rec, err := Extract(path, true)
	require.NoError(t, err)

	assert.Equal(t, path, rec.Path)
	assert.Equal(t, uint64(5), rec.Size)
	assert.True(t, rec.IsFile)
	assert.False(t, rec.IsDir)
	assert.False(t, rec.IsSymlink)
	assert.Equal(t, mtime.UnixMicro(), rec.ModifiedTime)
	assert.Equal(t, mtime.UnixMicro(), rec.AccessedTime)
	assert.NotZero(t, rec.CreatedTime)
	assert.NotEmpty(t, rec.Permissions)
	assert.Nil(t, rec.Hash)
}

func TestExtract_Directory(t *testing.T) {
	dir := t.TempDir()

	rec, err := Extract(dir, true)
	require.NoError(t, err)
	assert.True(t, rec.IsDir)
	assert.False(t, rec.IsFile)
}

func TestExtract_NotFound(t *testing.T) {
	_, err := Extract(filepath.Join(t.TempDir(), "missing"), true)
	require.Error(t, err)
	assert.True(t, IsRecoverable(err))
}

func TestExtract_Symlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on Windows")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	link := filepath.Join(dir, "link.txt")
	require.NoError(t, os.WriteFile(target, []byte("target content"), 0o644))
	require.NoError(t, os.Symlink(target, link))

	t.Run("Follow", func(t *testing.T) {
		rec, err := Extract(link, true)
		require.NoError(t, err)
		assert.Equal(t, link, rec.Path)
		assert.True(t, rec.IsSymlink)
		assert.True(t, rec.IsFile)
		assert.Equal(t, uint64(len("target content")), rec.Size)
	})

	t.Run("No follow", func(t *testing.T) {
		_, err := Extract(link, false)
		assert.True(t, errors.Is(err, ErrSymlinkSkipped))
		assert.True(t, IsRecoverable(err))
	})

	t.Run("Broken link", func(t *testing.T) {
		broken := filepath.Join(dir, "broken")
		require.NoError(t, os.Symlink(filepath.Join(dir, "nowhere"), broken))
		_, err := Extract(broken, true)
		require.Error(t, err)
		assert.True(t, IsRecoverable(err))
	})
}

func TestIsRecoverable(t *testing.T) {
	assert.True(t, IsRecoverable(os.ErrNotExist))
	assert.True(t, IsRecoverable(os.ErrPermission))
	assert.True(t, IsRecoverable(&os.PathError{Op: "stat", Path: "loop/loop", Err: syscall.ELOOP}))
	assert.False(t, IsRecoverable(errors.New("disk on fire")))
	assert.False(t, IsRecoverable(nil))
}

func TestExtract_SymlinkLoop(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on Windows")
	}
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	require.NoError(t, os.Symlink(b, a))
	require.NoError(t, os.Symlink(a, b))

	_, err := Extract(a, true)
	require.Error(t, err)
	assert.True(t, IsRecoverable(err), "got %v", err)
}
