package credential

import (
	"fmt"
	"strings"

	"github.com/99designs/keyring"

	"github.com/nhle/exchange-connect/internal/model"
)

// refPrefix marks a password value that names a keyring entry instead of
// holding the secret itself.
const refPrefix = "keyring:"

// Open returns a configured keyring instance.
func Open(cfg model.KeyringConfig) (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: cfg.ServiceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  cfg.FileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt(cfg.ServiceName + "-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Resolver reads and writes secrets in a keyring.
type Resolver struct {
	ring keyring.Keyring
}

// NewResolver wraps an opened keyring.
func NewResolver(ring keyring.Keyring) *Resolver {
	return &Resolver{ring: ring}
}

// Get retrieves a credential value by key.
func (r *Resolver) Get(key string) (string, error) {
	item, err := r.ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

// Set stores a credential value by key.
func (r *Resolver) Set(key string, value string) error {
	err := r.ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

// Delete removes a credential by key. Deleting a missing key returns an
// error wrapping keyring.ErrKeyNotFound.
func (r *Resolver) Delete(key string) error {
	if _, err := r.ring.Get(key); err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	if err := r.ring.Remove(key); err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}

// ResolvePassword returns raw unchanged unless it is a "keyring:<key>"
// reference, in which case the referenced secret is returned.
func (r *Resolver) ResolvePassword(raw string) (string, error) {
	key, ok := Ref(raw)
	if !ok {
		return raw, nil
	}
	return r.Get(key)
}

// Ref reports whether raw is a keyring reference and returns its key.
func Ref(raw string) (string, bool) {
	key, ok := strings.CutPrefix(raw, refPrefix)
	if !ok || strings.TrimSpace(key) == "" {
		return "", false
	}
	return key, true
}

// RefFor builds the reference string for key.
func RefFor(key string) string {
	return refPrefix + key
}
