package models

import (
	"testing"
	"time"
)

func TestToMicros(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected int64
	}{
		{"Epoch", time.Unix(0, 0), 0},
		{"Zero time", time.Time{}, 0},
		{"Before epoch", time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC), 0},
		{"Microsecond floor", time.Unix(1, 1999), 1_000_001},
		{"Regular", time.Date(2024, 1, 2, 3, 4, 5, 6000, time.UTC), 1704164645000006},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToMicros(tt.input); got != tt.expected {
				t.Errorf("ToMicros(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFileRecord_Times(t *testing.T) {
	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	rec := &FileRecord{
		ModifiedTime: ts.UnixMicro(),
		AccessedTime: ts.UnixMicro(),
		CreatedTime:  ts.UnixMicro(),
	}

	if !rec.Modified().Equal(ts) {
		t.Errorf("Modified() = %v, want %v", rec.Modified(), ts)
	}
	if !rec.Created().Equal(ts) {
		t.Errorf("Created() = %v, want %v", rec.Created(), ts)
	}
	if rec.HasHash() {
		t.Error("HasHash() = true for record without hash")
	}
}

func TestCollectResult_AddRecord(t *testing.T) {
	res := &CollectResult{}
	res.AddRecord(&FileRecord{Path: "a", IsFile: true})
	res.AddRecord(&FileRecord{Path: "b", IsDir: true})
	res.AddRecord(&FileRecord{Path: "c", IsFile: true, IsSymlink: true})

	if res.Stats.Files != 2 {
		t.Errorf("Files = %d, want 2", res.Stats.Files)
	}
	if res.Stats.Dirs != 1 {
		t.Errorf("Dirs = %d, want 1", res.Stats.Dirs)
	}
	if res.Stats.Symlinks != 1 {
		t.Errorf("Symlinks = %d, want 1", res.Stats.Symlinks)
	}

	paths := res.Paths()
	if len(paths) != 3 || paths[0] != "a" || paths[2] != "c" {
		t.Errorf("Paths() = %v, want [a b c]", paths)
	}
}
