package storage

import "errors"

var (
	// ErrSlotNotFound is returned when a slot has never been written
	ErrSlotNotFound = errors.New("slot not found")
	// ErrNotLoaded is returned when a provider is used before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
	// ErrAlreadyInitialized is returned by Init when the store file exists
	ErrAlreadyInitialized = errors.New("storage already initialized")
)

// Provider persists opaque blobs under named slots.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Slots
	ReadSlot(name string) ([]byte, error)
	WriteSlot(name string, data []byte) error
	DeleteSlot(name string) error

	// Utils
	GetConfigPath() string
}

// SchemaValidator is implemented by providers backed by a migrated schema.
type SchemaValidator interface {
	ValidateSchema() error
}
