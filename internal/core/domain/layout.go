package domain

import (
	"path"
	"path/filepath"
	"strings"
)

const (
	// FolioDirName is the name of the default cache directory.
	FolioDirName = ".folio"

	// ArticleDirName is the directory under the cache root holding document records.
	ArticleDirName = "article"

	// HTMLDirName is the directory under the cache root used to derive output paths.
	HTMLDirName = "html"

	// SnapshotFileName is the name of the monitor snapshot file.
	SnapshotFileName = "monitor.json"

	// WorkspaceFileName is the name of the workspace configuration file.
	WorkspaceFileName = "folio.yaml"

	// OptionsFileName is the name of the project options file inside the config directory.
	OptionsFileName = "options.toml"

	// ComponentsDirName is the name of the components directory inside the config directory.
	ComponentsDirName = "components"

	// DefaultSourceDir is the default directory holding source documents.
	DefaultSourceDir = "docs"

	// DefaultConfigDir is the default directory holding project configuration.
	DefaultConfigDir = "config"

	// DefaultOutputDir is the default directory receiving rendered output.
	DefaultOutputDir = "public"

	// DefaultAssetsDir is the default assets directory, relative to the config directory.
	DefaultAssetsDir = "assets"

	// DefaultDocumentExt is the default extension of source documents.
	DefaultDocumentExt = ".md"

	// RecordExt is appended to a source path to name its persisted record.
	RecordExt = ".json"

	// OutputExt is the extension of rendered output.
	OutputExt = ".html"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCachePath returns the default cache root, relative to the workspace.
func DefaultCachePath() string {
	return FolioDirName
}

// RecordsPath returns the directory holding persisted document records.
func RecordsPath(cacheRoot string) string {
	return filepath.Join(cacheRoot, ArticleDirName)
}

// HTMLPath returns the directory output paths are derived from.
func HTMLPath(cacheRoot string) string {
	return filepath.Join(cacheRoot, HTMLDirName)
}

// SnapshotPath returns the path of the monitor snapshot.
func SnapshotPath(cacheRoot string) string {
	return filepath.Join(cacheRoot, SnapshotFileName)
}

// OutputPath returns where the page of the source document rel is rendered,
// for example "posts/a.md" becomes "<cache>/html/posts/a.html".
func OutputPath(cacheRoot, rel string) string {
	return filepath.Join(HTMLPath(cacheRoot), filepath.FromSlash(trimExt(rel))+OutputExt)
}

// RecordPath returns the path of the persisted record of rel.
func RecordPath(cacheRoot, rel string) string {
	return filepath.Join(RecordsPath(cacheRoot), filepath.FromSlash(rel)+RecordExt)
}

func trimExt(rel string) string {
	return strings.TrimSuffix(rel, path.Ext(rel))
}
