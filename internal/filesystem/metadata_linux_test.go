package filesystem

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_LinuxFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mode.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	require.NoError(t, os.Chmod(path, 0o644))

	rec, err := Extract(path, true)
	require.NoError(t, err)
	assert.Equal(t, "100644", rec.Permissions)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.Sys().(*syscall.Stat_t).Ino, rec.Inode)

	drec, err := Extract(dir, true)
	require.NoError(t, err)
	assert.Equal(t, "40", drec.Permissions[:2])
}
