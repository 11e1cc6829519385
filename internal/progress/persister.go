package progress

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// RecordFileName is the name of the record inside the data directory
const RecordFileName = "progress.json"

// Persister loads and stores the encoded record
type Persister interface {
	// Load returns os.ErrNotExist (wrapped) when nothing was saved yet
	Load() ([]byte, error)
	Save(data []byte) error
}

// FilePersister keeps the record in a JSON file
type FilePersister struct {
	filePath string
	logger   *log.Logger
}

// NewFilePersister stores the record as RecordFileName inside dataDir
func NewFilePersister(dataDir string, logger *log.Logger) *FilePersister {
	if logger == nil {
		panic("FilePersister: logger cannot be nil")
	}
	return &FilePersister{
		filePath: filepath.Join(dataDir, RecordFileName),
		logger:   logger,
	}
}

// Path returns the record file location
func (p *FilePersister) Path() string {
	return p.filePath
}

func (p *FilePersister) Load() ([]byte, error) {
	raw, err := os.ReadFile(p.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			p.logger.Printf("FilePersister: load %s (no existing file)", p.filePath)
		}
		return nil, fmt.Errorf("read %s: %w", p.filePath, err)
	}
	p.logger.Printf("FilePersister: load %s (%d bytes)", p.filePath, len(raw))
	return raw, nil
}

// Save writes to a temporary file and renames it over the record, so a
// reader never sees a partially written file.
func (p *FilePersister) Save(data []byte) error {
	dir := filepath.Dir(p.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, RecordFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, p.filePath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename to %s: %w", p.filePath, err)
	}
	p.logger.Printf("FilePersister: save %s (%d bytes)", p.filePath, len(data))
	return nil
}

// MemoryPersister keeps the record in memory. Used where no data
// directory is available and in tests.
type MemoryPersister struct {
	Data    []byte
	LoadErr error
	SaveErr error
	Saves   int
}

func (m *MemoryPersister) Load() ([]byte, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Data == nil {
		return nil, fmt.Errorf("memory record: %w", os.ErrNotExist)
	}
	return append([]byte(nil), m.Data...), nil
}

func (m *MemoryPersister) Save(data []byte) error {
	m.Saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Data = append([]byte(nil), data...)
	return nil
}
