// Package codec implements the gzip, zstd and size-prefixed LZ4 block
// transforms behind the compress and decompress functions.
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm names a compression codec
type Algorithm string

const (
	Gzip Algorithm = "gzip"
	Zstd Algorithm = "zstd"
	LZ4  Algorithm = "lz4"

	// Auto selects the codec from the data header on decompression
	Auto Algorithm = ""
)

// zstdLevel matches the reference zstd CLI default
const zstdLevel = 3

// maxLZ4Size bounds the declared size of an LZ4 payload
const maxLZ4Size = 1 << 30

var (
	// ErrUnknownAlgorithm is returned for unsupported codec names
	ErrUnknownAlgorithm = errors.New("unsupported compression algorithm")

	// ErrCorrupt is returned when data cannot be decoded by the chosen codec
	ErrCorrupt = errors.New("corrupt compressed data")
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// ParseAlgorithm maps a case-insensitive codec name. The empty string and
// "auto" map to Auto.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return Auto, nil
	case "gzip", "gz":
		return Gzip, nil
	case "zstd", "zst":
		return Zstd, nil
	case "lz4":
		return LZ4, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
	}
}

// Detect picks the codec from the data header. Anything that is not gzip
// or zstd is assumed to be LZ4.
func Detect(data []byte) Algorithm {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return Gzip
	case bytes.HasPrefix(data, zstdMagic):
		return Zstd
	default:
		return LZ4
	}
}

// Compress encodes data; Auto compresses with gzip
func Compress(data []byte, algo Algorithm) ([]byte, error) {
	switch algo {
	case Gzip, Auto:
		return compressGzip(data)
	case Zstd:
		return compressZstd(data)
	case LZ4:
		return compressLZ4(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, algo)
	}
}

// Decompress decodes data; Auto detects the codec from the header
func Decompress(data []byte, algo Algorithm) ([]byte, error) {
	if algo == Auto {
		algo = Detect(data)
	}
	switch algo {
	case Gzip:
		return decompressGzip(data)
	case Zstd:
		return decompressZstd(data)
	case LZ4:
		return decompressLZ4(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, algo)
	}
}

func compressGzip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, gzip.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("gzip compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip compression failed: %w", err)
	}
	return buf.Bytes(), nil
}

func decompressGzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %w", ErrCorrupt, err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %w", ErrCorrupt, err)
	}
	return out, nil
}

// EncodeAll and DecodeAll are safe for concurrent use, so one encoder and
// one decoder serve every call
var (
	zstdEncoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(zstdLevel)),
			zstd.WithEncoderConcurrency(1))
	})
	zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	})
)

func compressZstd(data []byte) ([]byte, error) {
	enc, err := zstdEncoder()
	if err != nil {
		return nil, fmt.Errorf("zstd compression failed: %w", err)
	}
	return enc.EncodeAll(data, nil), nil
}

func decompressZstd(data []byte) ([]byte, error) {
	dec, err := zstdDecoder()
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %w", ErrCorrupt, err)
	}
	return out, nil
}

// compressLZ4 writes the uncompressed length as a little-endian uint32
// followed by one raw LZ4 block
func compressLZ4(data []byte) ([]byte, error) {
	out := make([]byte, 4+lz4.CompressBlockBound(len(data)))
	binary.LittleEndian.PutUint32(out, uint32(len(data)))

	n, err := lz4.CompressBlock(data, out[4:], nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}
	return out[:4+n], nil
}

func decompressLZ4(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: lz4: missing size prefix", ErrCorrupt)
	}
	size := binary.LittleEndian.Uint32(data)
	if size > maxLZ4Size {
		return nil, fmt.Errorf("%w: lz4: declared size %d too large", ErrCorrupt, size)
	}
	if size == 0 {
		return []byte{}, nil
	}

	out := make([]byte, size)
	n, err := lz4.UncompressBlock(data[4:], out)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4: %w", ErrCorrupt, err)
	}
	if n != int(size) {
		return nil, fmt.Errorf("%w: lz4: got %d bytes, want %d", ErrCorrupt, n, size)
	}
	return out, nil
}
