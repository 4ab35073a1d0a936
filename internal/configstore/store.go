package configstore

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned by Lookup when no item exists for the
	// directory and name.
	ErrNotFound = errors.New("configuration item not found")

	// ErrInvalidName is returned for blank names or names that would
	// escape their directory.
	ErrInvalidName = errors.New("invalid configuration item name")
)

// Item is a named configuration record. Value is the record text.
type Item struct {
	Directory string
	Name      string
	Value     string
}

// Store looks up configuration items.
type Store interface {
	Lookup(ctx context.Context, directory, name string) (*Item, error)
}

// WritableStore is a Store that can also create, list and remove items.
type WritableStore interface {
	Store

	// Put creates or replaces an item.
	Put(ctx context.Context, item Item) error

	// Delete removes an item. Deleting a missing item returns ErrNotFound.
	Delete(ctx context.Context, directory, name string) error

	// List returns the items in a directory ordered by name.
	List(ctx context.Context, directory string) ([]Item, error)
}

// validName rejects names that are blank or contain path separators.
func validName(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	if name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
