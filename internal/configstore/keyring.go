package configstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/99designs/keyring"
)

// keyLabel is shown by keyring backends that display item labels.
const keyLabel = "exchange connection"

// KeyringStore keeps configuration items in a system keyring under the key
// <directory>/<name>. Records carry passwords, so this is the backend to
// prefer on desktops.
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore wraps an opened keyring.
func NewKeyringStore(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

// Lookup retrieves an item from the keyring.
func (s *KeyringStore) Lookup(_ context.Context, directory, name string) (*Item, error) {
	key, err := keyringKey(directory, name)
	if err != nil {
		return nil, err
	}

	ki, err := s.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, fmt.Errorf("getting credential %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting credential %q: %w", key, err)
	}

	return &Item{Directory: directory, Name: name, Value: string(ki.Data)}, nil
}

// Put stores an item in the keyring, replacing any existing value.
func (s *KeyringStore) Put(_ context.Context, item Item) error {
	key, err := keyringKey(item.Directory, item.Name)
	if err != nil {
		return err
	}

	err = s.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(item.Value),
		Label: keyLabel + " " + key,
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

// Delete removes an item from the keyring.
func (s *KeyringStore) Delete(ctx context.Context, directory, name string) error {
	if _, err := s.Lookup(ctx, directory, name); err != nil {
		return err
	}

	key, _ := keyringKey(directory, name)
	if err := s.ring.Remove(key); err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}

// List returns the items stored under directory ordered by name.
func (s *KeyringStore) List(ctx context.Context, directory string) ([]Item, error) {
	keys, err := s.ring.Keys()
	if err != nil {
		return nil, fmt.Errorf("listing keyring: %w", err)
	}

	prefix := strings.TrimSuffix(directory, "/") + "/"
	var names []string
	for _, k := range keys {
		name, ok := strings.CutPrefix(k, prefix)
		if !ok || !validName(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]Item, 0, len(names))
	for _, name := range names {
		item, err := s.Lookup(ctx, directory, name)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

func keyringKey(directory, name string) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return strings.TrimSuffix(directory, "/") + "/" + name, nil
}
