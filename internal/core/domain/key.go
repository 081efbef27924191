package domain

import (
	"path"
	"strings"
	"unique"
)

// Key is the stable identity of one document.
// It wraps a unique.Handle[string] so keys are cheap to compare and hash,
// and stays stable across runs as long as the source path does not change.
type Key struct {
	h unique.Handle[string]
}

// NewKey creates a Key from its string form.
func NewKey(s string) Key {
	return Key{
		h: unique.Make(s),
	}
}

// KeyFromPath derives the Key for a source path relative to the source root.
// The document extension is stripped and separators are normalized to slashes,
// so "posts/hello.md" becomes "posts/hello".
func KeyFromPath(rel, ext string) Key {
	p := path.Clean(strings.ReplaceAll(rel, "\\", "/"))
	p = strings.TrimPrefix(p, "./")
	if ext != "" {
		p = strings.TrimSuffix(p, ext)
	}
	return NewKey(p)
}

// String returns the underlying string value.
func (k Key) String() string {
	var zero unique.Handle[string]
	if k.h == zero {
		return ""
	}
	return k.h.Value()
}

// IsZero reports whether the key was never assigned.
func (k Key) IsZero() bool {
	var zero unique.Handle[string]
	return k.h == zero
}

// MarshalText implements encoding.TextMarshaler.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Key) UnmarshalText(text []byte) error {
	k.h = unique.Make(string(text))
	return nil
}

// Compare orders keys by their string form. It is meant for slices.SortFunc.
func (k Key) Compare(other Key) int {
	return strings.Compare(k.String(), other.String())
}
