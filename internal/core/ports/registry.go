// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/folio/internal/core/domain"

// Registry maps document keys to source paths and back.
// Paths are relative to the source root.
//
//go:generate mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks
type Registry interface {
	// Register assigns or refreshes the key of every path and returns the keys in order.
	Register(paths ...string) []domain.Key

	// RegisterKey records key as the canonical key of path.
	RegisterKey(key domain.Key, path string)

	// Path resolves a key to its source path.
	Path(key domain.Key) (string, bool)

	// Key resolves a source path to its key.
	Key(path string) (domain.Key, bool)

	// Remove drops the mapping of key in both directions.
	Remove(key domain.Key)
}
