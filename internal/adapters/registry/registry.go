// Package registry implements the in-memory mapping between document keys and source paths.
package registry

import (
	"path"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/folio/internal/core/domain"
	"go.trai.ch/folio/internal/core/ports"
)

var _ ports.Registry = (*Registry)(nil)

// Registry implements ports.Registry with two maps guarded by one lock.
// Keys drop the document extension only, so "b.md" and "b.txt" never share a key.
type Registry struct {
	mu     sync.RWMutex
	ext    string
	byKey  map[domain.Key]string
	byPath map[string]domain.Key
}

// New creates an empty Registry for documents with the default extension.
func New() *Registry {
	return NewWithExt(domain.DefaultDocumentExt)
}

// NewWithExt creates an empty Registry for documents ending in ext.
func NewWithExt(ext string) *Registry {
	return &Registry{
		ext:    ext,
		byKey:  make(map[domain.Key]string),
		byPath: make(map[string]domain.Key),
	}
}

// SetDocumentExt changes the extension stripped from newly registered paths.
func (r *Registry) SetDocumentExt(ext string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ext = ext
}

// Register assigns a key to every path. A path that is already registered
// keeps its key.
func (r *Registry) Register(paths ...string) []domain.Key {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]domain.Key, 0, len(paths))
	for _, p := range paths {
		p = normalize(p)
		if key, ok := r.byPath[p]; ok {
			keys = append(keys, key)
			continue
		}
		key := r.keyFor(p)
		r.bind(key, p)
		keys = append(keys, key)
	}
	return keys
}

// RegisterKey records key as the canonical key of p, replacing any previous
// binding of either side.
func (r *Registry) RegisterKey(key domain.Key, p string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bind(key, normalize(p))
}

// Path resolves a key to its source path.
func (r *Registry) Path(key domain.Key) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byKey[key]
	return p, ok
}

// Key resolves a source path to its key.
func (r *Registry) Key(p string) (domain.Key, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key, ok := r.byPath[normalize(p)]
	return key, ok
}

// Remove drops key in both directions. Unknown keys are ignored.
func (r *Registry) Remove(key domain.Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byKey[key]; ok {
		delete(r.byPath, p)
		delete(r.byKey, key)
	}
}

// Len returns the number of registered keys.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKey)
}

// keyFor must be called with the lock held.
func (r *Registry) keyFor(p string) domain.Key {
	ext := path.Ext(p)
	if r.ext == "" || !strings.EqualFold(ext, r.ext) {
		ext = ""
	}
	return domain.KeyFromPath(p, ext)
}

// bind must be called with the write lock held.
func (r *Registry) bind(key domain.Key, p string) {
	if old, ok := r.byKey[key]; ok && old != p {
		delete(r.byPath, old)
	}
	if old, ok := r.byPath[p]; ok && old != key {
		delete(r.byKey, old)
	}
	r.byKey[key] = p
	r.byPath[p] = key
}

func normalize(p string) string {
	return path.Clean(filepath.ToSlash(p))
}
