package agecrypt

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/nicad/duckdb-file-tools/pkg/models"
)

// Keyring holds named key pairs so recipient and identity lists can refer
// to keys by secret name
type Keyring struct {
	mu   sync.RWMutex
	keys map[string]models.KeyPair
}

// NewKeyring creates an empty keyring
func NewKeyring() *Keyring {
	return &Keyring{keys: make(map[string]models.KeyPair)}
}

// LoadKeyring reads a YAML document mapping secret names to key pairs:
//
//	backup:
//	  public_key: age1...
//	  private_key: AGE-SECRET-KEY-1...
func LoadKeyring(path string) (*Keyring, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyring: %w", err)
	}

	keys := make(map[string]models.KeyPair)
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("failed to parse keyring %s: %w", path, err)
	}
	return &Keyring{keys: keys}, nil
}

// Add stores kp under name, replacing any previous entry
func (k *Keyring) Add(name string, kp models.KeyPair) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys[name] = kp
}

// Lookup returns the key pair stored under name
func (k *Keyring) Lookup(name string) (models.KeyPair, bool) {
	if k == nil {
		return models.KeyPair{}, false
	}
	k.mu.RLock()
	defer k.mu.RUnlock()
	kp, ok := k.keys[name]
	return kp, ok
}

// Recipients replaces secret names in list with their public keys
func (k *Keyring) Recipients(list []string) ([]string, error) {
	return k.resolve(list, func(kp models.KeyPair) string { return kp.PublicKey })
}

// Identities replaces secret names in list with their private keys
func (k *Keyring) Identities(list []string) ([]string, error) {
	return k.resolve(list, func(kp models.KeyPair) string { return kp.PrivateKey })
}

func (k *Keyring) resolve(list []string, pick func(models.KeyPair) string) ([]string, error) {
	out := make([]string, 0, len(list))
	for _, entry := range list {
		if !IsSecretName(entry) {
			out = append(out, entry)
			continue
		}
		kp, ok := k.Lookup(entry)
		if !ok || pick(kp) == "" {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSecret, entry)
		}
		out = append(out, pick(kp))
	}
	return out, nil
}
