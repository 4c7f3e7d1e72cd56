// Package extension exposes every capability under its stable host name.
//
// A host registers scalar functions, which map one input row to one value,
// and table functions, which materialize a result set at bind time and then
// emit it in chunks until an empty chunk signals completion. Expected
// absence (missing file, permission denied) yields NULL; misuse yields an
// error that aborts the chunk.
package extension

import (
	"errors"
	"fmt"

	"github.com/nicad/duckdb-file-tools/internal/agecrypt"
	"github.com/nicad/duckdb-file-tools/internal/collector"
	"github.com/nicad/duckdb-file-tools/internal/config"
	"github.com/nicad/duckdb-file-tools/internal/filesystem"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var (
	// ErrUnknownFunction is returned when no capability has the given name
	ErrUnknownFunction = errors.New("unknown function")

	// ErrArgument is returned for malformed or mistyped arguments
	ErrArgument = errors.New("invalid argument")

	// ErrDuplicateFunction is returned when a name is registered twice
	ErrDuplicateFunction = errors.New("function already registered")
)

// Kind distinguishes scalar from table functions
type Kind string

const (
	KindScalar Kind = "scalar"
	KindTable  Kind = "table"
)

// FunctionInfo describes one registered capability
type FunctionInfo struct {
	Name        string `json:"name" yaml:"name"`
	Kind        Kind   `json:"kind" yaml:"kind"`
	Signature   string `json:"signature" yaml:"signature"`
	Description string `json:"description" yaml:"description"`
}

// Registry holds every capability and the collaborators they share
type Registry struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *collector.Metrics
	fs      afero.Fs
	keyring *agecrypt.Keyring
	hasher  *filesystem.Hasher
	reader  *filesystem.Reader

	scalars map[string]*ScalarFunction
	tables  map[string]*TableFunction
}

// Option configures a Registry
type Option func(*Registry)

// WithMetrics records collection metrics
func WithMetrics(m *collector.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// WithKeyring resolves secret names in age recipient and identity lists
func WithKeyring(k *agecrypt.Keyring) Option {
	return func(r *Registry) {
		r.keyring = k
	}
}

// WithFs sets the filesystem used by the hashing and reading functions
func WithFs(fsys afero.Fs) Option {
	return func(r *Registry) {
		r.fs = fsys
	}
}

// NewRegistry creates a registry with every built-in capability
func NewRegistry(cfg *config.Config, logger *zap.Logger, opts ...Option) *Registry {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Registry{
		cfg:     cfg,
		logger:  logger,
		fs:      afero.NewOsFs(),
		scalars: make(map[string]*ScalarFunction),
		tables:  make(map[string]*TableFunction),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.hasher = filesystem.NewHasher(r.fs, logger, filesystem.WithSlowReadThreshold(cfg.SlowReadThreshold))
	r.reader = filesystem.NewReader(r.fs)

	r.registerEnumeration()
	r.registerFiles()
	r.registerCodec()
	r.registerAge()

	logger.Debug("Registered functions",
		zap.Int("scalar", len(r.scalars)),
		zap.Int("table", len(r.tables)))

	return r
}

// RegisterScalar adds a scalar function
func (r *Registry) RegisterScalar(f *ScalarFunction) error {
	if _, ok := r.scalars[f.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateFunction, f.Name)
	}
	if _, ok := r.tables[f.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateFunction, f.Name)
	}
	r.scalars[f.Name] = f
	return nil
}

// RegisterTable adds a table function
func (r *Registry) RegisterTable(f *TableFunction) error {
	if _, ok := r.tables[f.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateFunction, f.Name)
	}
	if _, ok := r.scalars[f.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateFunction, f.Name)
	}
	if f.batchSize == 0 {
		f.batchSize = r.cfg.BatchSize
	}
	r.tables[f.Name] = f
	return nil
}

func (r *Registry) mustScalar(f *ScalarFunction) {
	if err := r.RegisterScalar(f); err != nil {
		panic(err)
	}
}

func (r *Registry) mustTable(f *TableFunction) {
	if err := r.RegisterTable(f); err != nil {
		panic(err)
	}
}

// Scalar looks up a scalar function by name
func (r *Registry) Scalar(name string) (*ScalarFunction, error) {
	f, ok := r.scalars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	return f, nil
}

// Table looks up a table function by name
func (r *Registry) Table(name string) (*TableFunction, error) {
	f, ok := r.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	return f, nil
}

// Functions lists every capability, table functions first, each group
// sorted by name
func (r *Registry) Functions() []FunctionInfo {
	infos := make([]FunctionInfo, 0, len(r.tables)+len(r.scalars))
	for _, name := range sortedNames(r.tables) {
		f := r.tables[name]
		infos = append(infos, FunctionInfo{Name: name, Kind: KindTable, Signature: f.Signature(), Description: f.Description})
	}
	for _, name := range sortedNames(r.scalars) {
		f := r.scalars[name]
		infos = append(infos, FunctionInfo{Name: name, Kind: KindScalar, Signature: f.Signature(), Description: f.Description})
	}
	return infos
}
