package extension

import (
	"context"
	"fmt"

	"github.com/nicad/duckdb-file-tools/internal/filesystem"
	"github.com/nicad/duckdb-file-tools/internal/pathparts"
	"github.com/nicad/duckdb-file-tools/pkg/models"
	"go.uber.org/zap"
)

var statColumn = Column{Name: "stat", Type: TypeStruct, Children: recordColumns(false)[1:]}

var partsColumn = Column{Name: "parts", Type: TypeStruct, Children: []Column{
	varchar("drive"),
	varchar("root"),
	varchar("anchor"),
	varchar("parent"),
	varchar("name"),
	varchar("stem"),
	varchar("suffix"),
	varcharList("suffixes"),
	varcharList("parts"),
	boolean("is_absolute"),
}}

// StatFields converts a record into the file_stat struct value
func StatFields(rec *models.FileRecord) map[string]any {
	row := recordRow(rec, false)
	out := make(map[string]any, len(statColumn.Children))
	for i, child := range statColumn.Children {
		out[child.Name] = row[i+1]
	}
	return out
}

// PartsFields converts a decomposition into the path_parts struct value
func PartsFields(p *models.PathParts) map[string]any {
	return map[string]any{
		"drive":       p.Drive,
		"root":        p.Root,
		"anchor":      p.Anchor,
		"parent":      p.Parent,
		"name":        p.Name,
		"stem":        p.Stem,
		"suffix":      p.Suffix,
		"suffixes":    p.Suffixes,
		"parts":       p.Parts,
		"is_absolute": p.IsAbsolute,
	}
}

func (r *Registry) registerFiles() {
	r.mustScalar(&ScalarFunction{
		Name:        "file_stat",
		Description: "Metadata of one path, following symlinks; NULL when absent or unreadable",
		Args:        []Column{varchar("path")},
		Returns:     statColumn,
		fn:          r.fileStat,
	})
	r.mustScalar(&ScalarFunction{
		Name:        "file_sha256",
		Description: "Lowercase hex SHA-256 of a file; NULL when absent or unreadable",
		Args:        []Column{varchar("path")},
		Returns:     varchar("sha256"),
		fn: func(ctx context.Context, args []any) (any, error) {
			return r.fileHash(args[0], string(filesystem.SHA256))
		},
	})
	r.mustScalar(&ScalarFunction{
		Name:        "file_hash",
		Description: "Lowercase hex digest of a file with sha256 or xxh64",
		Args:        []Column{varchar("path")},
		Optional:    []Param{{Column: varchar("algorithm"), Default: string(filesystem.SHA256)}},
		Returns:     varchar("hash"),
		fn: func(ctx context.Context, args []any) (any, error) {
			return r.fileHash(args[0], args[1])
		},
	})
	r.mustScalar(&ScalarFunction{
		Name:        "file_read_text",
		Description: "File content as UTF-8 text; NULL on any read failure",
		Args:        []Column{varchar("path")},
		Returns:     varchar("content"),
		fn: func(ctx context.Context, args []any) (any, error) {
			path, err := asString("path", args[0])
			if err != nil {
				return nil, err
			}
			text, err := r.reader.ReadText(path)
			if err != nil {
				r.logger.Debug("file_read_text returned NULL", zap.String("path", path), zap.Error(err))
				return nil, nil
			}
			return text, nil
		},
	})
	r.mustScalar(&ScalarFunction{
		Name:        "file_read_blob",
		Description: "File content as bytes; NULL on any read failure",
		Args:        []Column{varchar("path")},
		Returns:     blob("content"),
		fn: func(ctx context.Context, args []any) (any, error) {
			path, err := asString("path", args[0])
			if err != nil {
				return nil, err
			}
			content, err := r.reader.ReadBlob(path)
			if err != nil {
				r.logger.Debug("file_read_blob returned NULL", zap.String("path", path), zap.Error(err))
				return nil, nil
			}
			return content, nil
		},
	})
	r.mustScalar(&ScalarFunction{
		Name:        "path_parts",
		Description: "Decompose a path string into drive, root, parent, name, stem and suffixes",
		Args:        []Column{varchar("path")},
		Returns:     partsColumn,
		fn: func(ctx context.Context, args []any) (any, error) {
			path, err := asString("path", args[0])
			if err != nil {
				return nil, err
			}
			return PartsFields(pathparts.Parse(path)), nil
		},
	})
	r.mustScalar(&ScalarFunction{
		Name:        "blob_substr",
		Description: "Bytes of a blob from a 1-based start for length bytes",
		Args:        []Column{blob("data"), bigint("start"), bigint("length")},
		Returns:     blob("slice"),
		fn: func(ctx context.Context, args []any) (any, error) {
			data, err := asBytes("data", args[0])
			if err != nil {
				return nil, err
			}
			start, err := asInt64("start", args[1])
			if err != nil {
				return nil, err
			}
			length, err := asInt64("length", args[2])
			if err != nil {
				return nil, err
			}
			return BlobSubstr(data, start, length), nil
		},
	})
}

func (r *Registry) fileStat(ctx context.Context, args []any) (any, error) {
	path, err := asString("path", args[0])
	if err != nil {
		return nil, err
	}
	rec, err := filesystem.Extract(path, true)
	if err != nil {
		if filesystem.IsRecoverable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return StatFields(rec), nil
}

func (r *Registry) fileHash(pathArg, algoArg any) (any, error) {
	path, err := asString("path", pathArg)
	if err != nil {
		return nil, err
	}
	name, err := asString("algorithm", algoArg)
	if err != nil {
		return nil, err
	}
	algo, err := filesystem.ParseAlgorithm(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArgument, err)
	}

	sum, _, err := r.hasher.Sum(path, algo)
	if err != nil {
		if filesystem.IsRecoverable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("hash %s: %w", path, err)
	}
	return sum, nil
}

// BlobSubstr returns length bytes of data starting at the 1-based start.
// A start below 1 is treated as 1, a start past the end or a zero length
// yields an empty slice, and a negative or oversized length takes the
// remainder.
func BlobSubstr(data []byte, start, length int64) []byte {
	if length == 0 || len(data) == 0 {
		return []byte{}
	}
	if start < 1 {
		start = 1
	}
	offset := start - 1
	if offset >= int64(len(data)) {
		return []byte{}
	}

	end := int64(len(data))
	if length > 0 && length < end-offset {
		end = offset + length
	}

	out := make([]byte, end-offset)
	copy(out, data[offset:end])
	return out
}
