package filesystem

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const emptySHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

func writeMem(t *testing.T, fsys afero.Fs, path string, content []byte) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, content, 0o644))
}

func patterned(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(i*31 + i/7)
	}
	return buf
}

func TestHashFile_Empty(t *testing.T) {
	memFs := afero.NewMemMapFs()
	writeMem(t, memFs, "/empty", nil)

	got, err := NewHasher(memFs, zap.NewNop()).HashFile("/empty")
	require.NoError(t, err)
	assert.Equal(t, emptySHA256, got)
}

func TestHashFile_Known(t *testing.T) {
	memFs := afero.NewMemMapFs()
	writeMem(t, memFs, "/hello.txt", []byte("hello world"))

	got, err := NewHasher(memFs, zap.NewNop()).HashFile("/hello.txt")
	require.NoError(t, err)
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", got)
	assert.Len(t, got, 64)
}

func TestHashFile_ChunkScheduleIndependent(t *testing.T) {
	content := patterned(10_000)
	want := sha256.Sum256(content)

	memFs := afero.NewMemMapFs()
	writeMem(t, memFs, "/data.bin", content)

	schedules := []struct {
		name    string
		initial int
		max     int
	}{
		{"Tiny doubling", 1, 8},
		{"Odd sizes", 7, 100},
		{"Fixed", 1024, 1024},
		{"Larger than file", 1 << 16, 1 << 20},
		{"Default", 0, 0},
	}

	for _, tt := range schedules {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHasher(memFs, zap.NewNop(), WithChunkSizes(tt.initial, tt.max))
			got, n, err := h.Sum("/data.bin", SHA256)
			require.NoError(t, err)
			assert.Equal(t, hex.EncodeToString(want[:]), got)
			assert.Equal(t, uint64(len(content)), n)
		})
	}
}

func TestHashFile_Concurrent(t *testing.T) {
	memFs := afero.NewMemMapFs()
	content := patterned(4096)
	writeMem(t, memFs, "/shared.bin", content)
	want := sha256.Sum256(content)

	h := NewHasher(memFs, zap.NewNop(), WithChunkSizes(16, 256))

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = h.HashFile("/shared.bin")
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		assert.Equal(t, hex.EncodeToString(want[:]), got, "goroutine %d", i)
	}
}

func TestSum_XXH64(t *testing.T) {
	memFs := afero.NewMemMapFs()
	writeMem(t, memFs, "/hello.txt", []byte("hello world"))

	got, _, err := NewHasher(memFs, zap.NewNop()).Sum("/hello.txt", XXH64)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%016x", xxhash.Sum64String("hello world")), got)
}

func TestSum_UnknownAlgorithm(t *testing.T) {
	memFs := afero.NewMemMapFs()
	writeMem(t, memFs, "/a", []byte("a"))

	_, _, err := NewHasher(memFs, nil).Sum("/a", Algorithm("md5"))
	assert.True(t, errors.Is(err, ErrUnknownAlgorithm))
}

func TestHashFile_NotFound(t *testing.T) {
	_, err := NewHasher(afero.NewMemMapFs(), nil).HashFile("/missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.True(t, IsRecoverable(err))
}

func TestHashFile_OsFs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.bin")
	content := patterned(3 << 20)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	want := sha256.Sum256(content)

	got, err := NewHasher(nil, nil).HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(want[:]), got)
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		input   string
		want    Algorithm
		wantErr bool
	}{
		{"", SHA256, false},
		{"SHA256", SHA256, false},
		{"xxh64", XXH64, false},
		{"md5", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAlgorithm(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseAlgorithm(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
