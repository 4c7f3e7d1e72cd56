package filesystem

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/spf13/afero"
)

func TestReadText(t *testing.T) {
	memFs := afero.NewMemMapFs()
	if err := afero.WriteFile(memFs, "/data/readme.txt", []byte("hello world"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	r := NewReader(memFs)
	got, err := r.ReadText("/data/readme.txt")
	if err != nil {
		t.Fatalf("ReadText() error = %v", err)
	}
	if got != "hello world" {
		t.Errorf("ReadText() = %q, want %q", got, "hello world")
	}
}

func TestReadText_Invalid(t *testing.T) {
	memFs := afero.NewMemMapFs()
	if err := afero.WriteFile(memFs, "/bin.dat", []byte{0xff, 0xfe, 0x00}, 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := NewReader(memFs).ReadText("/bin.dat")
	if !errors.Is(err, ErrNotText) {
		t.Errorf("ReadText() error = %v, want ErrNotText", err)
	}
}

func TestReadBlob(t *testing.T) {
	content := []byte{0x00, 0x01, 0xff}
	memFs := afero.NewMemMapFs()
	if err := afero.WriteFile(memFs, "/blob.bin", content, 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	r := NewReader(memFs)
	got, err := r.ReadBlob("/blob.bin")
	if err != nil {
		t.Fatalf("ReadBlob() error = %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("ReadBlob() = %v, want %v", got, content)
	}
	if !r.Exists("/blob.bin") {
		t.Error("Exists() = false, want true")
	}
}

func TestReadBlob_NonExistent(t *testing.T) {
	_, err := NewReader(afero.NewMemMapFs()).ReadBlob("/nonexistent/file.bin")
	if err == nil {
		t.Fatal("ReadBlob() expected error for non-existent file, got nil")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadBlob() error = %v, want fs.ErrNotExist", err)
	}
}

func TestReadBlob_EmptyFile(t *testing.T) {
	memFs := afero.NewMemMapFs()
	if err := afero.WriteFile(memFs, "/empty.txt", nil, 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	got, err := NewReader(memFs).ReadBlob("/empty.txt")
	if err != nil {
		t.Fatalf("ReadBlob() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Empty file content length = %d, want 0", len(got))
	}
}
