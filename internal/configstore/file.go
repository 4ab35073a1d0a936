package configstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// fileExtension is appended to item names to form the record file name.
const fileExtension = ".config"

// FileStore keeps each item as a plain text file named <name>.config under
// its directory. Directories are filesystem paths, resolved relative to
// Root when they are not absolute.
type FileStore struct {
	Root string
}

// NewFileStore returns a FileStore rooted at root. An empty root resolves
// relative directories against the working directory.
func NewFileStore(root string) *FileStore {
	return &FileStore{Root: root}
}

// Lookup reads the record file for directory and name.
func (s *FileStore) Lookup(_ context.Context, directory, name string) (*Item, error) {
	path, err := s.path(directory, name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return &Item{Directory: directory, Name: name, Value: string(data)}, nil
}

// Put writes the record file, creating the directory if needed. Record
// files may carry passwords and are created owner-readable only.
func (s *FileStore) Put(_ context.Context, item Item) error {
	path, err := s.path(item.Directory, item.Name)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(item.Value), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Delete removes the record file.
func (s *FileStore) Delete(_ context.Context, directory, name string) error {
	path, err := s.path(directory, name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("deleting %s: %w", path, ErrNotFound)
		}
		return fmt.Errorf("deleting %s: %w", path, err)
	}
	return nil
}

// List returns every record file in directory. A missing directory yields
// no items.
func (s *FileStore) List(_ context.Context, directory string) ([]Item, error) {
	dir := s.dir(directory)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var items []Item
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExtension) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		items = append(items, Item{
			Directory: directory,
			Name:      strings.TrimSuffix(e.Name(), fileExtension),
			Value:     string(data),
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (s *FileStore) dir(directory string) string {
	if filepath.IsAbs(directory) || s.Root == "" {
		return filepath.Clean(directory)
	}
	return filepath.Join(s.Root, directory)
}

func (s *FileStore) path(directory, name string) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return filepath.Join(s.dir(directory), name+fileExtension), nil
}
