package domain

import (
	"path/filepath"
	"strings"
)

// Workspace describes where a project keeps its sources, configuration,
// cache and output. All directories are absolute once loaded.
type Workspace struct {
	Root        string
	SourceRoot  string
	ConfigRoot  string
	CacheRoot   string
	OutputRoot  string
	DocumentExt string
}

// NewWorkspace builds a Workspace from directories relative to root.
// Empty values fall back to the defaults.
func NewWorkspace(root, source, config, cache, output, ext string) Workspace {
	if source == "" {
		source = DefaultSourceDir
	}
	if config == "" {
		config = DefaultConfigDir
	}
	if cache == "" {
		cache = DefaultCachePath()
	}
	if output == "" {
		output = DefaultOutputDir
	}
	if ext == "" {
		ext = DefaultDocumentExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return Workspace{
		Root:        root,
		SourceRoot:  join(root, source),
		ConfigRoot:  join(root, config),
		CacheRoot:   join(root, cache),
		OutputRoot:  join(root, output),
		DocumentExt: ext,
	}
}

// OptionsPath returns the path of the project options file.
func (w Workspace) OptionsPath() string {
	return filepath.Join(w.ConfigRoot, OptionsFileName)
}

// ComponentsPath returns the path of the components directory.
func (w Workspace) ComponentsPath() string {
	return filepath.Join(w.ConfigRoot, ComponentsDirName)
}

// IsDocument reports whether a path names a source document.
func (w Workspace) IsDocument(path string) bool {
	return strings.EqualFold(filepath.Ext(path), w.DocumentExt)
}

// KeyFor returns the document key for a source path relative to the source root.
func (w Workspace) KeyFor(rel string) Key {
	return KeyFromPath(rel, w.DocumentExt)
}

func join(root, dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(root, dir)
}

// Options are the project options loaded once per run. A single *Options is
// shared by every document built during the run and is never mutated after
// loading.
type Options struct {
	Title string

	// LibraryPaths are source paths, relative to the source root, that hold
	// shared library content rather than standalone documents.
	LibraryPaths map[string]struct{}

	// AssetsRoot is the absolute directory holding static assets.
	AssetsRoot string
}

// IsLibrary reports whether rel, relative to the source root, is a library path.
func (o *Options) IsLibrary(rel string) bool {
	if o == nil {
		return false
	}
	_, ok := o.LibraryPaths[filepath.ToSlash(rel)]
	return ok
}
