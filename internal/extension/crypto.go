package extension

import (
	"context"
	"errors"
	"fmt"

	"github.com/nicad/duckdb-file-tools/internal/agecrypt"
	"github.com/nicad/duckdb-file-tools/internal/codec"
	"go.uber.org/zap"
)

var keyPairColumn = Column{Name: "keypair", Type: TypeStruct, Children: []Column{
	varchar("public_key"),
	varchar("private_key"),
}}

func (r *Registry) registerCodec() {
	r.mustScalar(&ScalarFunction{
		Name:        "compress",
		Description: "Compress bytes with gzip, zstd or lz4",
		Args:        []Column{blob("data")},
		Optional:    []Param{{Column: varchar("algorithm"), Default: string(codec.Gzip)}},
		Returns:     blob("compressed"),
		fn: func(ctx context.Context, args []any) (any, error) {
			return compressWith(args[0], args[1])
		},
	})
	r.mustScalar(&ScalarFunction{
		Name:        "compress_zstd",
		Description: "Compress bytes with zstd level 3",
		Args:        []Column{blob("data")},
		Returns:     blob("compressed"),
		fn: func(ctx context.Context, args []any) (any, error) {
			return compressWith(args[0], string(codec.Zstd))
		},
	})
	r.mustScalar(&ScalarFunction{
		Name:        "compress_lz4",
		Description: "Compress bytes into a size-prefixed LZ4 block",
		Args:        []Column{blob("data")},
		Returns:     blob("compressed"),
		fn: func(ctx context.Context, args []any) (any, error) {
			return compressWith(args[0], string(codec.LZ4))
		},
	})
	r.mustScalar(&ScalarFunction{
		Name:        "decompress",
		Description: "Decompress bytes, detecting the codec from the header unless one is given",
		Args:        []Column{blob("data")},
		Optional:    []Param{{Column: varchar("algorithm"), Default: string(codec.Auto)}},
		Returns:     blob("data"),
		fn: func(ctx context.Context, args []any) (any, error) {
			data, err := asBytes("data", args[0])
			if err != nil {
				return nil, err
			}
			algo, err := parseCodec(args[1])
			if err != nil {
				return nil, err
			}
			return codec.Decompress(data, algo)
		},
	})
}

func parseCodec(v any) (codec.Algorithm, error) {
	name, err := asString("algorithm", v)
	if err != nil {
		return "", err
	}
	algo, err := codec.ParseAlgorithm(name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrArgument, err)
	}
	return algo, nil
}

func compressWith(dataArg, algoArg any) (any, error) {
	data, err := asBytes("data", dataArg)
	if err != nil {
		return nil, err
	}
	algo, err := parseCodec(algoArg)
	if err != nil {
		return nil, err
	}
	return codec.Compress(data, algo)
}

func (r *Registry) registerAge() {
	r.mustScalar(&ScalarFunction{
		Name:        "age_keygen",
		Description: "Generate an age X25519 key pair; the argument is ignored",
		Args:        []Column{integer("dummy")},
		Returns:     keyPairColumn,
		NullArgs:    true,
		fn: func(ctx context.Context, args []any) (any, error) {
			kp, err := agecrypt.GenerateKeyPair()
			if err != nil {
				return nil, err
			}
			return map[string]any{"public_key": kp.PublicKey, "private_key": kp.PrivateKey}, nil
		},
	})
	r.mustScalar(&ScalarFunction{
		Name:        "age_keygen_secret",
		Description: "Generate a key pair and render the CREATE SECRET statement storing it",
		Args:        []Column{varchar("name")},
		Returns:     varchar("sql"),
		fn: func(ctx context.Context, args []any) (any, error) {
			name, err := asString("name", args[0])
			if err != nil {
				return nil, err
			}
			kp, err := agecrypt.GenerateKeyPair()
			if err != nil {
				return nil, err
			}
			sql, err := agecrypt.SecretSQL(name, kp)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrArgument, err)
			}
			return sql, nil
		},
	})

	r.mustScalar(&ScalarFunction{
		Name:        "age_encrypt",
		Description: "Encrypt bytes to comma-separated age recipients or secret names",
		Args:        []Column{blob("data"), varchar("recipients")},
		Returns:     blob("ciphertext"),
		fn: func(ctx context.Context, args []any) (any, error) {
			list, err := asString("recipients", args[1])
			if err != nil {
				return nil, err
			}
			return r.ageEncrypt(args[0], agecrypt.SplitList(list))
		},
	})
	r.mustScalar(&ScalarFunction{
		Name:        "age_encrypt_multi",
		Description: "Encrypt bytes to a list of age recipients or secret names",
		Args:        []Column{blob("data"), varcharList("recipients")},
		Returns:     blob("ciphertext"),
		fn: func(ctx context.Context, args []any) (any, error) {
			list, err := asStringList("recipients", args[1])
			if err != nil {
				return nil, err
			}
			return r.ageEncrypt(args[0], list)
		},
	})
	r.mustScalar(&ScalarFunction{
		Name:        "age_encrypt_passphrase",
		Description: "Encrypt bytes with an scrypt passphrase",
		Args:        []Column{blob("data"), varchar("passphrase")},
		Returns:     blob("ciphertext"),
		fn: func(ctx context.Context, args []any) (any, error) {
			data, err := asBytes("data", args[0])
			if err != nil {
				return nil, err
			}
			pass, err := asString("passphrase", args[1])
			if err != nil {
				return nil, err
			}
			return r.ageResult("age_encrypt_passphrase", func() ([]byte, error) {
				return agecrypt.EncryptPassphrase(data, pass)
			})
		},
	})

	r.mustScalar(&ScalarFunction{
		Name:        "age_decrypt",
		Description: "Decrypt bytes with comma-separated age identities or secret names",
		Args:        []Column{blob("data"), varchar("identities")},
		Returns:     blob("plaintext"),
		fn: func(ctx context.Context, args []any) (any, error) {
			list, err := asString("identities", args[1])
			if err != nil {
				return nil, err
			}
			return r.ageDecrypt(args[0], agecrypt.SplitList(list))
		},
	})
	r.mustScalar(&ScalarFunction{
		Name:        "age_decrypt_multi",
		Description: "Decrypt bytes with a list of age identities or secret names",
		Args:        []Column{blob("data"), varcharList("identities")},
		Returns:     blob("plaintext"),
		fn: func(ctx context.Context, args []any) (any, error) {
			list, err := asStringList("identities", args[1])
			if err != nil {
				return nil, err
			}
			return r.ageDecrypt(args[0], list)
		},
	})
	r.mustScalar(&ScalarFunction{
		Name:        "age_decrypt_passphrase",
		Description: "Decrypt scrypt passphrase-encrypted bytes",
		Args:        []Column{blob("data"), varchar("passphrase")},
		Returns:     blob("plaintext"),
		fn: func(ctx context.Context, args []any) (any, error) {
			data, err := asBytes("data", args[0])
			if err != nil {
				return nil, err
			}
			pass, err := asString("passphrase", args[1])
			if err != nil {
				return nil, err
			}
			return r.ageResult("age_decrypt_passphrase", func() ([]byte, error) {
				return agecrypt.DecryptPassphrase(data, pass)
			})
		},
	})
}

// ageEncrypt resolves secret names through the keyring. A name that cannot
// be resolved produces NULL; malformed keys and empty lists are errors.
func (r *Registry) ageEncrypt(dataArg any, recipients []string) (any, error) {
	data, err := asBytes("data", dataArg)
	if err != nil {
		return nil, err
	}
	return r.ageResult("age_encrypt", func() ([]byte, error) {
		resolved, err := r.keyring.Recipients(recipients)
		if err != nil {
			return nil, err
		}
		return agecrypt.Encrypt(data, resolved)
	})
}

func (r *Registry) ageDecrypt(dataArg any, identities []string) (any, error) {
	data, err := asBytes("data", dataArg)
	if err != nil {
		return nil, err
	}
	return r.ageResult("age_decrypt", func() ([]byte, error) {
		resolved, err := r.keyring.Identities(identities)
		if err != nil {
			return nil, err
		}
		return agecrypt.Decrypt(data, resolved)
	})
}

func (r *Registry) ageResult(name string, fn func() ([]byte, error)) (any, error) {
	out, err := fn()
	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, agecrypt.ErrUnknownSecret):
		r.logger.Debug("Returning NULL", zap.String("function", name), zap.Error(err))
		return nil, nil
	case errors.Is(err, agecrypt.ErrNoRecipients),
		errors.Is(err, agecrypt.ErrNoIdentities),
		errors.Is(err, agecrypt.ErrInvalidRecipient),
		errors.Is(err, agecrypt.ErrInvalidIdentity):
		return nil, fmt.Errorf("%w: %w", ErrArgument, err)
	default:
		return nil, err
	}
}
