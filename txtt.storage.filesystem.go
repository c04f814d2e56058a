package txtt

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Filesystem storage layout
const (
	FilesystemDirPermissions  = 0o755
	FilesystemFilePermissions = 0o644
	FilesystemStateSuffix     = ".yaml"
	filesystemTempPattern     = ".txtt-state-*"
)

// Filesystem storage error messages
const (
	ErrMsgInvalidStorageRoot = "invalid storage root directory"
	ErrMsgCreateStorageDir   = "failed to create storage directory"
	ErrMsgReadStorageDir     = "failed to read storage directory"
	ErrMsgReadStateFile      = "failed to read content state file"
	ErrMsgWriteStateFile     = "failed to write content state file"
	ErrMsgDeleteStateFile    = "failed to delete content state file"
)

// FilesystemStorage stores each content state as a YAML file. The files use
// the content state document layout, so they can also be passed to
// LoadContentStateFile directly.
//
// Directory structure:
//
//	<root>/
//	  work.yaml
//	  private.yaml
type FilesystemStorage struct {
	mu     sync.RWMutex
	root   string
	closed bool
}

// filesystemStateDocument is the on-disk form of a stored state.
type filesystemStateDocument struct {
	CreatedAt    time.Time `yaml:"created_at"`
	UpdatedAt    time.Time `yaml:"updated_at"`
	ContentState `yaml:",inline"`
}

// FilesystemStorageDriver is the driver for creating FilesystemStorage instances.
type FilesystemStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameFilesystem, &FilesystemStorageDriver{})
}

// Open creates a new FilesystemStorage instance.
// The connection string is the root directory path.
func (d *FilesystemStorageDriver) Open(connectionString string) (ContentStateStorage, error) {
	return NewFilesystemStorage(connectionString)
}

// NewFilesystemStorage creates a new filesystem-based storage.
// The root directory will be created if it doesn't exist.
func NewFilesystemStorage(root string) (*FilesystemStorage, error) {
	if root == "" {
		return nil, &StorageError{Message: ErrMsgInvalidStorageRoot}
	}
	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, &StorageError{
			Message: ErrMsgCreateStorageDir,
			Name:    root,
			Cause:   err,
		}
	}
	return &FilesystemStorage{root: root}, nil
}

// Root returns the storage directory.
func (s *FilesystemStorage) Root() string {
	return s.root
}

func (s *FilesystemStorage) statePath(name string) string {
	return filepath.Join(s.root, name+FilesystemStateSuffix)
}

// Get retrieves a content state by name.
func (s *FilesystemStorage) Get(ctx context.Context, name string) (*StoredContentState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateStateName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	doc, err := s.load(name)
	if err != nil {
		return nil, err
	}
	return &StoredContentState{
		Name:      name,
		State:     doc.ContentState.Clone(),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func (s *FilesystemStorage) load(name string) (*filesystemStateDocument, error) {
	data, err := os.ReadFile(s.statePath(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewStateNotFoundError(name)
		}
		return nil, &StorageError{Message: ErrMsgReadStateFile, Name: name, Cause: err}
	}

	var doc filesystemStateDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &StorageError{Message: ErrMsgReadStateFile, Name: name, Cause: err}
	}
	if err := doc.ContentState.Validate(); err != nil {
		return nil, &StorageError{Message: ErrMsgReadStateFile, Name: name, Cause: err}
	}
	return &doc, nil
}

// Save writes a content state, replacing any state with the same name.
// The file is written to a temporary name first and renamed into place.
func (s *FilesystemStorage) Save(ctx context.Context, stored *StoredContentState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateStored(stored); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	now := time.Now().UTC()
	createdAt := now
	if existing, err := s.load(stored.Name); err == nil {
		createdAt = existing.CreatedAt
	}

	doc := filesystemStateDocument{
		CreatedAt:    createdAt,
		UpdatedAt:    now,
		ContentState: *stored.State.Clone(),
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return &StorageError{Message: ErrMsgWriteStateFile, Name: stored.Name, Cause: err}
	}
	if err := s.writeFile(stored.Name, data); err != nil {
		return err
	}

	stored.CreatedAt = createdAt
	stored.UpdatedAt = now
	return nil
}

func (s *FilesystemStorage) writeFile(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.root, filesystemTempPattern)
	if err != nil {
		return &StorageError{Message: ErrMsgWriteStateFile, Name: name, Cause: err}
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(tmpName)
		return &StorageError{Message: ErrMsgWriteStateFile, Name: name, Cause: err}
	}
	if err := os.Chmod(tmpName, FilesystemFilePermissions); err != nil {
		_ = os.Remove(tmpName)
		return &StorageError{Message: ErrMsgWriteStateFile, Name: name, Cause: err}
	}
	if err := os.Rename(tmpName, s.statePath(name)); err != nil {
		_ = os.Remove(tmpName)
		return &StorageError{Message: ErrMsgWriteStateFile, Name: name, Cause: err}
	}
	return nil
}

// Delete removes a content state file.
func (s *FilesystemStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateStateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	if err := os.Remove(s.statePath(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewStateNotFoundError(name)
		}
		return &StorageError{Message: ErrMsgDeleteStateFile, Name: name, Cause: err}
	}
	return nil
}

// List returns the names of all stored content states.
func (s *FilesystemStorage) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgReadStorageDir, Name: s.root, Cause: err}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		fileName := entry.Name()
		if entry.IsDir() || strings.HasPrefix(fileName, ".") || !strings.HasSuffix(fileName, FilesystemStateSuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(fileName, FilesystemStateSuffix))
	}
	sort.Strings(names)
	return names, nil
}

// Close marks the storage as closed. Files are left in place.
func (s *FilesystemStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
