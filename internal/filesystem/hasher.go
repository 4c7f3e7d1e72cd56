package filesystem

import (
	_ "crypto/sha256" // registers SHA-256 for go-digest
	"errors"
	"fmt"
	"hash"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/opencontainers/go-digest"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Algorithm names a content digest
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	XXH64  Algorithm = "xxh64"
)

// ErrUnknownAlgorithm is returned for unsupported digest names
var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

// ParseAlgorithm maps a case-insensitive name to an Algorithm; "" means SHA256
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sha256", "sha-256":
		return SHA256, nil
	case "xxh64", "xxhash", "xxhash64":
		return XXH64, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

const (
	defaultInitialChunk = 1 << 20 // 1 MiB
	defaultMaxChunk     = 8 << 20 // 8 MiB

	defaultSlowRead = 50 * time.Millisecond
)

// Hasher streams file content into a digest with adaptive read sizes: the
// first read uses the initial chunk size, and each non-empty read doubles
// the next one up to the maximum.
type Hasher struct {
	fs       afero.Fs
	logger   *zap.Logger
	initial  int
	max      int
	slowRead time.Duration
	pools    sync.Map // chunk size -> *sync.Pool
}

// HasherOption configures a Hasher
type HasherOption func(*Hasher)

// WithChunkSizes overrides the adaptive chunk schedule
func WithChunkSizes(initial, maxSize int) HasherOption {
	return func(h *Hasher) {
		if initial > 0 {
			h.initial = initial
		}
		if maxSize >= h.initial {
			h.max = maxSize
		}
	}
}

// WithSlowReadThreshold sets the read time above which a debug line is logged
func WithSlowReadThreshold(d time.Duration) HasherOption {
	return func(h *Hasher) {
		if d > 0 {
			h.slowRead = d
		}
	}
}

// NewHasher creates a Hasher reading from fsys (the OS filesystem when nil)
func NewHasher(fsys afero.Fs, logger *zap.Logger, opts ...HasherOption) *Hasher {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hasher{
		fs:       fsys,
		logger:   logger,
		initial:  defaultInitialChunk,
		max:      defaultMaxChunk,
		slowRead: defaultSlowRead,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HashFile returns the lowercase hex SHA-256 of the file at path
func (h *Hasher) HashFile(path string) (string, error) {
	sum, _, err := h.Sum(path, SHA256)
	return sum, err
}

// Sum returns the lowercase hex digest of the file at path and the number of
// bytes read
func (h *Hasher) Sum(path string, algo Algorithm) (string, uint64, error) {
	start := time.Now()

	f, err := h.fs.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	var (
		w      hash.Hash
		render func() string
	)
	switch algo {
	case SHA256, "":
		d := digest.SHA256.Digester()
		w = d.Hash()
		render = func() string { return d.Digest().Encoded() }
	case XXH64:
		x := xxhash.New()
		w = x
		render = func() string { return fmt.Sprintf("%016x", x.Sum64()) }
	default:
		return "", 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algo)
	}

	total, reads, err := h.stream(f, w, path)
	if err != nil {
		return "", total, err
	}

	if total > 1<<20 {
		elapsed := time.Since(start)
		h.logger.Debug("Hashed file",
			zap.String("path", path),
			zap.String("size", humanize.IBytes(total)),
			zap.Int("reads", reads),
			zap.Duration("duration", elapsed),
			zap.String("throughput", throughput(total, elapsed)))
	}

	return render(), total, nil
}

// stream copies r into w using the adaptive chunk schedule
func (h *Hasher) stream(r io.Reader, w io.Writer, path string) (uint64, int, error) {
	var total uint64
	reads := 0
	chunk := h.initial

	for {
		pool := h.pool(chunk)
		bufPtr := pool.Get().(*[]byte)
		buf := *bufPtr

		readStart := time.Now()
		n, err := r.Read(buf)
		readTime := time.Since(readStart)

		if n > 0 {
			_, _ = w.Write(buf[:n])
			total += uint64(n)
			reads++
			if readTime > h.slowRead {
				h.logger.Debug("Slow read",
					zap.String("path", path),
					zap.Int("bytes", n),
					zap.Duration("duration", readTime))
			}
		}
		pool.Put(bufPtr)

		if err != nil {
			if errors.Is(err, io.EOF) {
				return total, reads, nil
			}
			return total, reads, err
		}
		if n == 0 {
			return total, reads, nil
		}

		if chunk < h.max {
			chunk = min(chunk*2, h.max)
		}
	}
}

// pool returns the buffer pool for one chunk size
func (h *Hasher) pool(size int) *sync.Pool {
	if p, ok := h.pools.Load(size); ok {
		return p.(*sync.Pool)
	}
	p, _ := h.pools.LoadOrStore(size, &sync.Pool{
		New: func() any {
			buf := make([]byte, size)
			return &buf
		},
	})
	return p.(*sync.Pool)
}

func throughput(bytes uint64, d time.Duration) string {
	if d <= 0 {
		return "n/a"
	}
	perSec := float64(bytes) / d.Seconds()
	return humanize.IBytes(uint64(perSec)) + "/s"
}
