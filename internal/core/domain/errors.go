package domain

import "go.trai.ch/zerr"

var (
	// ErrDocumentNotCached is returned when a cache update names a document that is not in the cache.
	ErrDocumentNotCached = zerr.New("document not found in cache")

	// ErrReferenceNotFound is the cause recorded for documents that reference a failed or missing document.
	ErrReferenceNotFound = zerr.New("referenced document not found")

	// ErrKeyNotRegistered is returned when a key has no path in the registry.
	ErrKeyNotRegistered = zerr.New("key not registered")

	// ErrPathOutsideRoot is returned when a path does not live under the expected root.
	ErrPathOutsideRoot = zerr.New("path is outside root")

	// ErrRecordReadFailed is returned when a persisted record cannot be read.
	ErrRecordReadFailed = zerr.New("failed to read document record")

	// ErrRecordParseFailed is returned when a persisted record cannot be parsed.
	ErrRecordParseFailed = zerr.New("failed to parse document record")

	// ErrRecordMarshalFailed is returned when a record cannot be serialized.
	ErrRecordMarshalFailed = zerr.New("failed to serialize document record")

	// ErrRecordWriteFailed is returned when a record cannot be written to disk.
	ErrRecordWriteFailed = zerr.New("failed to write document record")

	// ErrRecordDeleteFailed is returned when a record file cannot be removed.
	ErrRecordDeleteFailed = zerr.New("failed to delete document record")

	// ErrConfigLoadFailed is returned when the project configuration cannot be loaded.
	ErrConfigLoadFailed = zerr.New("failed to load project configuration")

	// ErrConfigNotFound is returned when no workspace file can be found.
	ErrConfigNotFound = zerr.New("could not find folio.yaml")

	// ErrConfigReadFailed is returned when a config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when a config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrProjectAlreadyInitialized is returned by init when options already exist.
	ErrProjectAlreadyInitialized = zerr.New("project already initialized")

	// ErrSnapshotReadFailed is returned when the monitor snapshot cannot be read.
	ErrSnapshotReadFailed = zerr.New("failed to read monitor snapshot")

	// ErrSnapshotWriteFailed is returned when the monitor snapshot cannot be written.
	ErrSnapshotWriteFailed = zerr.New("failed to write monitor snapshot")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrWalkFailed is returned when a directory tree cannot be walked.
	ErrWalkFailed = zerr.New("failed to walk directory")

	// ErrCompileFailed is returned when a source document fails to compile.
	ErrCompileFailed = zerr.New("failed to compile document")

	// ErrRenderFailed is returned when an output page cannot be written.
	ErrRenderFailed = zerr.New("failed to render output")

	// ErrBuildFailed is returned when a build run finishes with document errors.
	ErrBuildFailed = zerr.New("build finished with errors")
)
