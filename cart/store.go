package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists draft carts between terminal restarts, keyed per table or
// takeaway workstation.
type Store interface {
	Load(key string) ([]Item, error)
	Save(key string, items []Item) error
	Delete(key string) error
}

// FileStore keeps one JSON file per cart key under a directory, the terminal
// equivalent of browser local storage.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cart store: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) path(key string) string {
	return filepath.Join(fs.dir, key+".json")
}

func (fs *FileStore) Load(key string) ([]Item, error) {
	data, err := os.ReadFile(fs.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		// A corrupt cart file is treated as empty rather than blocking the
		// terminal.
		return nil, nil
	}
	return items, nil
}

func (fs *FileStore) Save(key string, items []Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return os.WriteFile(fs.path(key), data, 0o644)
}

func (fs *FileStore) Delete(key string) error {
	err := os.Remove(fs.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
