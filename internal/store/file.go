package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// FileStore keeps the document in a single JSON file, the original
// deployment format.
type FileStore struct {
	path string
}

// NewFileStore creates a store at path. The file is created lazily on the
// first Load.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the document, seeding and persisting the default one when the
// file does not exist yet. A file that exists but does not parse is a fatal
// configuration error, not something to recover from.
func (s *FileStore) Load(_ context.Context) (*Document, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		doc := Seed()
		if err := s.Save(context.Background(), doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed database file %s: %w", s.path, err)
	}
	return &doc, nil
}

// Save writes the full document, replacing prior content. The write goes
// through a temp file and rename so readers never observe a half-written
// document.
func (s *FileStore) Save(_ context.Context, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
