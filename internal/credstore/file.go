package credstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Cgriz365/inkbridge/internal/logging"
)

const documentVersion = 1

// document is the on-disk layout of a FileStore.
type document struct {
	Version    int                          `yaml:"version"`
	Namespaces map[string]map[string]string `yaml:"namespaces"`
}

func newDocument() *document {
	return &document{
		Version:    documentVersion,
		Namespaces: map[string]map[string]string{Namespace: {}},
	}
}

// FileStore persists records in a YAML file. Each operation reads the file, and each write
// replaces it atomically via a temporary file and rename.
type FileStore struct {
	path string

	mu   sync.Mutex
	init bool
}

// NewFileStore creates a store backed by the YAML file at path.
// The file and its directory are created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the filesystem path of the backing file.
func (f *FileStore) Path() string {
	return f.path
}

// Init creates the storage directory and validates the file. An unreadable document is
// erased and replaced with an empty one, the same way a device reformats a flash
// partition whose pages can no longer be parsed.
func (f *FileStore) Init() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	if _, err := f.read(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.init = true
			return nil
		}
		logging.Warn("Credential file unreadable, erasing",
			zap.String("path", f.path),
			zap.Error(err),
		)
		if err := f.write(newDocument()); err != nil {
			return fmt.Errorf("failed to reinitialize store: %w", err)
		}
	}

	f.init = true
	return nil
}

func (f *FileStore) IsInit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.init
}

func (f *FileStore) Save(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		doc = newDocument()
	}

	records := doc.Namespaces[Namespace]
	if records == nil {
		records = make(map[string]string)
		doc.Namespaces[Namespace] = records
	}
	records[key] = value

	return f.write(doc)
}

func (f *FileStore) Load(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Debug("Credential file not readable", zap.String("path", f.path), zap.Error(err))
		}
		return "", false
	}

	value, ok := doc.Namespaces[Namespace][key]
	return value, ok
}

func (f *FileStore) FactoryReset() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to erase store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return f.write(newDocument())
}

func (f *FileStore) Location() string {
	return "file://" + f.path
}

// read loads and parses the document. Callers hold f.mu.
func (f *FileStore) read() (*document, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse store file: %w", err)
	}
	if doc.Version != documentVersion {
		return nil, fmt.Errorf("unsupported store version: %d (expected %d)", doc.Version, documentVersion)
	}
	if doc.Namespaces == nil {
		doc.Namespaces = make(map[string]map[string]string)
	}
	return &doc, nil
}

// write replaces the file atomically. Callers hold f.mu.
func (f *FileStore) write(doc *document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	header := []byte("# InkBridge credential store. Contains the device API key; keep private.\n\n")
	data = append(header, data...)

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary store file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to commit store file: %w", err)
	}
	return nil
}
