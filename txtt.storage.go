package txtt

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// StoredContentState is a named content state held by a storage backend.
type StoredContentState struct {
	// Name identifies the state, e.g. "work" or "private".
	Name string `json:"name"`

	// State is the content state itself.
	State *ContentState `json:"state"`

	// CreatedAt is when the state was first saved.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the state was last saved.
	UpdatedAt time.Time `json:"updated_at"`
}

// ContentStateStorage is the interface for pluggable content-state backends.
// Implementations must be safe for concurrent use.
type ContentStateStorage interface {
	// Get retrieves a content state by name.
	// Returns an error wrapping ErrContentStateNotFound if it doesn't exist.
	Get(ctx context.Context, name string) (*StoredContentState, error)

	// Save stores a content state, replacing any state with the same name.
	// CreatedAt and UpdatedAt are set by the storage implementation.
	Save(ctx context.Context, stored *StoredContentState) error

	// Delete removes a content state by name.
	// Returns an error wrapping ErrContentStateNotFound if it doesn't exist.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored content states in sorted order.
	List(ctx context.Context) ([]string, error)

	// Close releases any resources held by the storage.
	Close() error
}

// StorageDriver is a factory for creating storage instances.
// Drivers register themselves during init().
type StorageDriver interface {
	// Open creates a new storage instance. The connection string is driver-specific.
	Open(connectionString string) (ContentStateStorage, error)
}

// Storage driver names
const (
	StorageDriverNameMemory     = "memory"
	StorageDriverNameFilesystem = "filesystem"
	StorageDriverNamePostgres   = "postgres"
)

// Storage error message constants
const (
	ErrMsgNilStorageDriver        = "storage driver is nil"
	ErrMsgDriverAlreadyRegistered = "storage driver already registered"
	ErrMsgStorageDriverNotFound   = "storage driver not found"
	ErrMsgStorageClosed           = "storage is closed"
	ErrMsgStateNotFound           = "content state not found"
	ErrMsgInvalidStateName        = "invalid content state name"
	ErrMsgNilContentState         = "content state is nil"
)

// Storage sentinel errors
var (
	ErrContentStateNotFound = errors.New(ErrMsgStateNotFound)
	ErrStorageClosed        = errors.New(ErrMsgStorageClosed)
)

// Storage driver registry
var (
	storageDriversMu sync.RWMutex
	storageDrivers   = make(map[string]StorageDriver)
)

// RegisterStorageDriver registers a storage driver by name.
// Panics if the driver is nil or the name is taken.
func RegisterStorageDriver(name string, driver StorageDriver) {
	storageDriversMu.Lock()
	defer storageDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgNilStorageDriver)
	}
	if _, exists := storageDrivers[name]; exists {
		panic(ErrMsgDriverAlreadyRegistered + ": " + name)
	}
	storageDrivers[name] = driver
}

// OpenStorage opens a storage connection using the named driver.
//
// Example:
//
//	storage, err := txtt.OpenStorage("memory", "")
//	storage, err := txtt.OpenStorage("filesystem", "/home/me/.txtt/states")
//	storage, err := txtt.OpenStorage("postgres", "postgres://localhost/txtt?sslmode=disable")
func OpenStorage(driverName, connectionString string) (ContentStateStorage, error) {
	storageDriversMu.RLock()
	driver, ok := storageDrivers[driverName]
	storageDriversMu.RUnlock()

	if !ok {
		return nil, NewStorageDriverNotFoundError(driverName)
	}
	return driver.Open(connectionString)
}

// ListStorageDrivers returns the names of all registered storage drivers in sorted order.
func ListStorageDrivers() []string {
	storageDriversMu.RLock()
	defer storageDriversMu.RUnlock()

	names := make([]string, 0, len(storageDrivers))
	for name := range storageDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StorageError represents a storage-related error.
type StorageError struct {
	Message string
	Name    string
	Cause   error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	msg := e.Message
	if e.Name != "" {
		msg += ": " + e.Name
	}
	if e.Cause != nil && !errors.Is(e.Cause, ErrContentStateNotFound) && !errors.Is(e.Cause, ErrStorageClosed) {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageDriverNotFoundError creates an error for a missing storage driver.
func NewStorageDriverNotFoundError(name string) error {
	return &StorageError{Message: ErrMsgStorageDriverNotFound, Name: name}
}

// NewStateNotFoundError creates an error for a content state missing from storage.
func NewStateNotFoundError(name string) error {
	return &StorageError{Message: ErrMsgStateNotFound, Name: name, Cause: ErrContentStateNotFound}
}

// NewStorageClosedError creates an error for operations on closed storage.
func NewStorageClosedError() error {
	return &StorageError{Message: ErrMsgStorageClosed, Cause: ErrStorageClosed}
}

// validateStateName rejects names that are empty or could escape a directory.
func validateStateName(name string) error {
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, "/\\:*?\"<>|") {
		return &StorageError{Message: ErrMsgInvalidStateName, Name: name}
	}
	return nil
}

// validateStored checks a state before it is written.
func validateStored(stored *StoredContentState) error {
	if stored == nil || stored.State == nil {
		return &StorageError{Message: ErrMsgNilContentState}
	}
	if err := validateStateName(stored.Name); err != nil {
		return err
	}
	if err := stored.State.Validate(); err != nil {
		return &StorageError{Message: ErrMsgInvalidContent, Name: stored.Name, Cause: err}
	}
	return nil
}

// copyStored returns a deep copy so callers never share state with a backend.
func copyStored(stored *StoredContentState) *StoredContentState {
	return &StoredContentState{
		Name:      stored.Name,
		State:     stored.State.Clone(),
		CreatedAt: stored.CreatedAt,
		UpdatedAt: stored.UpdatedAt,
	}
}
