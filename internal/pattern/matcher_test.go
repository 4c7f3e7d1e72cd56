package pattern

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		ignoreCase bool
		path       string
		want       bool
	}{
		{"Star in directory", "data/*.csv", false, "data/a.csv", true},
		{"Star does not cross separator", "data/*.csv", false, "data/x/a.csv", false},
		{"Recursive", "data/**/*.csv", false, "data/x/y/a.csv", true},
		{"Recursive zero dirs", "data/**/*.csv", false, "data/a.csv", true},
		{"Trailing recursive marker", "data/**", false, "data/x/y.bin", true},
		{"Trailing recursive excludes root", "data/**", false, "data", false},
		{"Case sensitive miss", "data/*.CSV", false, "data/a.csv", false},
		{"Case insensitive hit", "data/*.CSV", true, "DATA/A.csv", true},
		{"Dot prefix cleaned", "./data/*.csv", false, "data/a.csv", true},
		{"Hidden files match star", "data/*", false, "data/.env", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMatcher(tt.pattern, tt.ignoreCase)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Match(tt.path))
		})
	}
}

func TestNewMatcher_Invalid(t *testing.T) {
	_, err := NewMatcher("data/[", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadPattern))
}

func TestExcludeSet(t *testing.T) {
	set, err := NewExcludeSet([]string{"*.log"}, false)
	require.NoError(t, err)

	assert.False(t, set.Excluded("a/b.txt"))
	assert.True(t, set.Excluded("a/c.log"))
	assert.True(t, set.Excluded("deep/nested/dir/c.log"))
	assert.False(t, set.Excluded("a/c.LOG"))
}

func TestExcludeSet_FullPath(t *testing.T) {
	set, err := NewExcludeSet([]string{"build/**"}, false)
	require.NoError(t, err)

	assert.True(t, set.Excluded("build/out/x.o"))
	assert.False(t, set.Excluded("src/build.go"))
}

func TestExcludeSet_IgnoreCase(t *testing.T) {
	set, err := NewExcludeSet([]string{"*.LOG"}, true)
	require.NoError(t, err)

	assert.True(t, set.Excluded("a/c.log"))
	assert.True(t, set.Excluded("a/C.Log"))
}

func TestExcludeSet_Empty(t *testing.T) {
	set, err := NewExcludeSet(nil, false)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	assert.False(t, set.Excluded("anything"))

	var nilSet *ExcludeSet
	assert.False(t, nilSet.Excluded("anything"))
}

func TestExcludeSet_Invalid(t *testing.T) {
	_, err := NewExcludeSet([]string{"ok", "[bad"}, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadPattern))
}
