package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nicad/duckdb-file-tools/internal/agecrypt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with args and returns what commands wrote to
// their own output stream
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&app{})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

type jsonReport struct {
	Rows    []map[string]any `json:"rows"`
	Summary map[string]any   `json:"summary"`
}

func readReport(t *testing.T, path string) jsonReport {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc jsonReport
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestFunctionsCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "functions.json")
	_, err := run(t, "functions", "-f", "json", "-o", out)
	require.NoError(t, err)

	doc := readReport(t, out)
	names := make([]string, 0, len(doc.Rows))
	for _, row := range doc.Rows {
		names = append(names, row["name"].(string))
	}
	assert.Contains(t, names, "glob_stat_sha256_jwalk")
	assert.Contains(t, names, "age_decrypt_passphrase")
	assert.Len(t, names, 23)
}

func TestGlobCommand(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.log"), []byte("b"), 0o644))
	pattern := filepath.Join(root, "*")

	for _, strategy := range []string{"sequential", "parallel", "walk"} {
		t.Run(strategy, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "glob.json")
			_, err := run(t, "glob", pattern, "--strategy", strategy, "--exclude", "*.log", "-f", "json", "-o", out)
			require.NoError(t, err)

			doc := readReport(t, out)
			require.Len(t, doc.Rows, 1)
			assert.Equal(t, filepath.Join(root, "a.txt"), doc.Rows[0]["path"])
			assert.Equal(t, strategy, doc.Summary["Strategy"])

			_, hashed := doc.Rows[0]["hash"]
			assert.Equal(t, strategy != "sequential", hashed)
		})
	}

	_, err := run(t, "glob", pattern, "--strategy", "bogus")
	assert.Error(t, err)
}

func TestCompareCommand(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "x.txt"), []byte("x"), 0o644))

	out := filepath.Join(t.TempDir(), "compare.json")
	_, err := run(t, "compare", filepath.Join(root, "**", "*.txt"), "-f", "json", "-o", out)
	require.NoError(t, err)

	doc := readReport(t, out)
	assert.Empty(t, doc.Rows)
	assert.Equal(t, float64(1), doc.Summary["Parallel"])
	assert.Equal(t, float64(1), doc.Summary["Walk"])
	assert.Equal(t, float64(0), doc.Summary["Mismatched"])
}

func TestCompressRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "plain.txt")
	payload := []byte(strings.Repeat("file tools ", 50))
	require.NoError(t, os.WriteFile(src, payload, 0o644))

	for _, algo := range []string{"gzip", "zstd", "lz4"} {
		t.Run(algo, func(t *testing.T) {
			packed := filepath.Join(dir, "packed."+algo)
			unpacked := filepath.Join(dir, "unpacked."+algo)

			_, err := run(t, "compress", src, packed, "--algorithm", algo)
			require.NoError(t, err)
			_, err = run(t, "decompress", packed, unpacked)
			require.NoError(t, err)

			got, err := os.ReadFile(unpacked)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}

	_, err := run(t, "compress", filepath.Join(dir, "missing"), filepath.Join(dir, "out"))
	assert.Error(t, err)
}

func TestAgeCommands(t *testing.T) {
	out, err := run(t, "age", "keygen", "--secret", "backup")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "CREATE SECRET backup (TYPE age"))

	kp, err := agecrypt.GenerateKeyPair()
	require.NoError(t, err)

	dir := t.TempDir()
	src := filepath.Join(dir, "secret.txt")
	enc := filepath.Join(dir, "secret.age")
	dec := filepath.Join(dir, "secret.out")
	require.NoError(t, os.WriteFile(src, []byte("top secret"), 0o600))

	_, err = run(t, "age", "encrypt", src, enc, "-r", kp.PublicKey)
	require.NoError(t, err)
	_, err = run(t, "age", "decrypt", enc, dec, "-i", kp.PrivateKey)
	require.NoError(t, err)

	got, err := os.ReadFile(dec)
	require.NoError(t, err)
	assert.Equal(t, "top secret", string(got))

	_, err = run(t, "age", "encrypt", src, enc)
	assert.Error(t, err)
}

func TestAgeKeyring(t *testing.T) {
	kp, err := agecrypt.GenerateKeyPair()
	require.NoError(t, err)

	dir := t.TempDir()
	ring := filepath.Join(dir, "keys.yaml")
	doc := "team:\n  public_key: " + kp.PublicKey + "\n  private_key: " + kp.PrivateKey + "\n"
	require.NoError(t, os.WriteFile(ring, []byte(doc), 0o600))

	src := filepath.Join(dir, "in.txt")
	enc := filepath.Join(dir, "in.age")
	dec := filepath.Join(dir, "in.out")
	require.NoError(t, os.WriteFile(src, []byte("named key"), 0o600))

	_, err = run(t, "--keyring", ring, "age", "encrypt", src, enc, "-r", "team")
	require.NoError(t, err)
	_, err = run(t, "--keyring", ring, "age", "decrypt", enc, dec, "-i", "team")
	require.NoError(t, err)

	got, err := os.ReadFile(dec)
	require.NoError(t, err)
	assert.Equal(t, "named key", string(got))
}

func TestPathCommands(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "hello.txt")
	require.NoError(t, os.WriteFile(file, []byte("hello world"), 0o644))

	out := filepath.Join(dir, "hash.json")
	_, err := run(t, "hash", file, filepath.Join(dir, "missing"), "-f", "json", "-o", out)
	require.NoError(t, err)
	doc := readReport(t, out)
	require.Len(t, doc.Rows, 2)
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", doc.Rows[0]["hash"])
	assert.Nil(t, doc.Rows[1]["hash"])

	out = filepath.Join(dir, "stat.json")
	_, err = run(t, "stat", file, "-f", "json", "-o", out)
	require.NoError(t, err)
	doc = readReport(t, out)
	require.Len(t, doc.Rows, 1)
	assert.Equal(t, float64(11), doc.Rows[0]["size"])
	assert.Equal(t, true, doc.Rows[0]["is_file"])

	out = filepath.Join(dir, "parts.json")
	_, err = run(t, "parts", "archive.tar.gz", "-f", "json", "-o", out)
	require.NoError(t, err)
	doc = readReport(t, out)
	require.Len(t, doc.Rows, 1)
	assert.Equal(t, "archive.tar", doc.Rows[0]["stem"])
	assert.Equal(t, ".gz", doc.Rows[0]["suffix"])
}
