// Package session persists the last viewed (directory, index) pair.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kk-code-lab/vimview/internal/apperr"
)

var (
	ErrNoSession    = errors.New("no saved session")
	ErrStaleSession = errors.New("saved session is stale")
)

// Record is the single global session. Index points into the unfiltered
// listing of Directory.
type Record struct {
	Directory string `json:"directory" yaml:"directory"`
	Index     int    `json:"index" yaml:"index"`
}

// legacyRecord accepts the older last_dir/last_index key names.
type legacyRecord struct {
	Directory string `yaml:"directory"`
	Index     *int   `yaml:"index"`
	LastDir   string `yaml:"last_dir"`
	LastIndex *int   `yaml:"last_index"`
}

// Store is the session persistence capability.
type Store interface {
	Load() (Record, error)
	Save(Record) error
}

// FileStore keeps the record in a JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the record. A missing file yields ErrNoSession; a record whose
// directory no longer exists yields ErrStaleSession along with the record.
func (s *FileStore) Load() (Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, apperr.New(apperr.Session, "load session", ErrNoSession, s.path, nil)
		}
		return Record{}, apperr.New(apperr.Session, "load session", ErrNoSession, s.path, err)
	}

	var raw legacyRecord
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Record{}, apperr.New(apperr.Session, "load session", ErrNoSession, s.path, err)
	}

	rec := Record{Directory: raw.Directory}
	switch {
	case raw.Index != nil:
		rec.Index = *raw.Index
	case raw.LastIndex != nil:
		rec.Index = *raw.LastIndex
	}
	if rec.Directory == "" {
		rec.Directory = raw.LastDir
	}
	if rec.Directory == "" {
		return Record{}, apperr.New(apperr.Session, "load session", ErrNoSession, s.path, nil)
	}
	if rec.Index < 0 {
		rec.Index = 0
	}

	info, err := os.Stat(rec.Directory)
	if err != nil || !info.IsDir() {
		return rec, apperr.New(apperr.Session, "load session", ErrStaleSession, rec.Directory, err)
	}
	return rec, nil
}

// Save writes the record atomically: a temp file in the same directory is
// renamed over the target.
func (s *FileStore) Save(rec Record) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.New(apperr.Session, "save session", nil, dir, err)
	}

	data, err := json.MarshalIndent(rec, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return apperr.New(apperr.Session, "save session", nil, dir, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		cleanup()
		return apperr.New(apperr.Session, "save session", nil, s.path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return apperr.New(apperr.Session, "save session", nil, s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return apperr.New(apperr.Session, "save session", nil, s.path, err)
	}
	return nil
}
