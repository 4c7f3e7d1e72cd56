package extension

import (
	"fmt"
	"math"
	"strings"
)

// Argument coercion follows the host's implicit casts: integers widen,
// VARCHAR is accepted where BLOB is expected, and lists may arrive as []any.

func asString(name string, v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return "", fmt.Errorf("%w: %s must be VARCHAR, got %T", ErrArgument, name, v)
	}
}

func asBytes(name string, v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	default:
		return nil, fmt.Errorf("%w: %s must be BLOB, got %T", ErrArgument, name, v)
	}
}

func asBool(name string, v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch strings.ToLower(b) {
		case "true", "t", "1":
			return true, nil
		case "false", "f", "0":
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: %s must be BOOLEAN, got %v", ErrArgument, name, v)
}

func asInt64(name string, v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return math.MaxInt64, nil
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("%w: %s must be an integer, got %T", ErrArgument, name, v)
	}
}

func asStringList(name string, v any) ([]string, error) {
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for i, item := range list {
			s, err := asString(fmt.Sprintf("%s[%d]", name, i+1), item)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		return []string{list}, nil
	default:
		return nil, fmt.Errorf("%w: %s must be VARCHAR[], got %T", ErrArgument, name, v)
	}
}
