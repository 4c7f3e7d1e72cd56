// Package agecrypt wraps filippo.io/age for key generation and for
// recipient, identity and passphrase based encryption of byte slices.
package agecrypt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"filippo.io/age"

	"github.com/nicad/duckdb-file-tools/pkg/models"
)

const (
	// RecipientPrefix starts every X25519 public key
	RecipientPrefix = "age1"
	// IdentityPrefix starts every X25519 private key
	IdentityPrefix = "AGE-SECRET-KEY-1"
)

var (
	ErrNoRecipients     = errors.New("no recipients provided")
	ErrNoIdentities     = errors.New("no identities provided")
	ErrInvalidRecipient = errors.New("invalid age recipient")
	ErrInvalidIdentity  = errors.New("invalid age identity")
	ErrUnknownSecret    = errors.New("unknown age secret")
	ErrInvalidSecret    = errors.New("invalid secret name")
)

// secretName is an unquoted SQL identifier
var secretName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// scryptWorkFactor is the log2 scrypt cost used for passphrase encryption
var scryptWorkFactor = 18

// GenerateKeyPair creates a fresh X25519 key pair
func GenerateKeyPair() (*models.KeyPair, error) {
	id, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("failed to generate age identity: %w", err)
	}
	return &models.KeyPair{
		PublicKey:  id.Recipient().String(),
		PrivateKey: id.String(),
	}, nil
}

// SecretSQL renders the statement that stores kp as a named age secret.
// The name is emitted unquoted, so it must be a plain identifier.
func SecretSQL(name string, kp *models.KeyPair) (string, error) {
	if !secretName.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSecret, name)
	}
	return fmt.Sprintf("CREATE SECRET %s (TYPE age, PUBLIC_KEY '%s', PRIVATE_KEY '%s');",
		name, kp.PublicKey, kp.PrivateKey), nil
}

// IsSecretName reports whether s is neither a public nor a private key
// and must therefore be resolved by name
func IsSecretName(s string) bool {
	return !strings.HasPrefix(s, RecipientPrefix) && !strings.HasPrefix(s, IdentityPrefix)
}

// SplitList splits a comma-separated key list, trimming blanks
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Encrypt encrypts data to every recipient
func Encrypt(data []byte, recipients []string) ([]byte, error) {
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	parsed := make([]age.Recipient, 0, len(recipients))
	for _, r := range recipients {
		rcpt, err := age.ParseX25519Recipient(r)
		if err != nil {
			return nil, fmt.Errorf("%w '%s': %w", ErrInvalidRecipient, r, err)
		}
		parsed = append(parsed, rcpt)
	}
	return encrypt(data, parsed...)
}

// EncryptPassphrase encrypts data with an scrypt passphrase recipient
func EncryptPassphrase(data []byte, passphrase string) ([]byte, error) {
	rcpt, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecipient, err)
	}
	rcpt.SetWorkFactor(scryptWorkFactor)
	return encrypt(data, rcpt)
}

// Decrypt decrypts data with the first identity that unwraps a stanza
func Decrypt(data []byte, identities []string) ([]byte, error) {
	if len(identities) == 0 {
		return nil, ErrNoIdentities
	}

	parsed := make([]age.Identity, 0, len(identities))
	for _, i := range identities {
		id, err := age.ParseX25519Identity(i)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidIdentity, err)
		}
		parsed = append(parsed, id)
	}
	return decrypt(data, parsed...)
}

// DecryptPassphrase decrypts passphrase-encrypted data
func DecryptPassphrase(data []byte, passphrase string) ([]byte, error) {
	id, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIdentity, err)
	}
	return decrypt(data, id)
}

func encrypt(data []byte, recipients ...age.Recipient) ([]byte, error) {
	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipients...)
	if err != nil {
		return nil, fmt.Errorf("failed to create age writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write data for encryption: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize age encryption: %w", err)
	}
	return buf.Bytes(), nil
}

func decrypt(data []byte, identities ...age.Identity) ([]byte, error) {
	r, err := age.Decrypt(bytes.NewReader(data), identities...)
	if err != nil {
		return nil, fmt.Errorf("age decryption failed: %w", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read decrypted data: %w", err)
	}
	return out, nil
}
