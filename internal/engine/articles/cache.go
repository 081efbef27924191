// Package articles holds compiled documents between runs and invalidates
// documents whose dependencies failed.
package articles

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"iter"
	"maps"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/folio/internal/core/domain"
	"go.trai.ch/folio/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Cache is the in-memory map of compiled documents for one run, backed by
// records under the cache root.
type Cache struct {
	cacheRoot string
	opts      *domain.Options
	registry  ports.Registry
	logger    ports.Logger

	mu   sync.RWMutex
	docs map[domain.Key]*domain.Document
}

// New creates an empty Cache. Restored documents share opts.
func New(cacheRoot string, opts *domain.Options, registry ports.Registry, logger ports.Logger) *Cache {
	return &Cache{
		cacheRoot: cacheRoot,
		opts:      opts,
		registry:  registry,
		logger:    logger,
		docs:      make(map[domain.Key]*domain.Document),
	}
}

// restored is the outcome of restoring one record.
type restored struct {
	key domain.Key
	doc *domain.Document
	err error
}

// Load drops the records of deleted source paths, restores every remaining
// record and invalidates documents that cannot be restored together with
// everything depending on them. The returned report maps output paths to
// error messages.
func (c *Cache) Load(ctx context.Context, deleted []string) domain.ErrorReport {
	for _, rel := range deleted {
		c.removeRecord(rel)
		if key, ok := c.registry.Key(rel); ok {
			c.registry.Remove(key)
		}
	}

	records := c.readRecords(ctx)

	paths := make([]string, len(records))
	for i, rec := range records {
		paths[i] = rec.Path
	}
	c.registry.Register(paths...)

	results := make([]restored, len(records))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, rec := range records {
		g.Go(func() error {
			results[i] = c.restore(rec)
			return nil
		})
	}
	_ = g.Wait()

	docs := make(map[domain.Key]*domain.Document, len(results))
	failures := make(map[domain.Key]error)
	for _, res := range results {
		if res.err != nil {
			failures[res.key] = res.err
			continue
		}
		docs[res.key] = res.doc
	}

	c.mu.Lock()
	c.docs = docs
	c.mu.Unlock()

	return c.Fail(failures)
}

// Fail invalidates the given documents and, transitively, every cached
// document that depends on one of them. Each invalidated document is removed
// from the cache and the registry and its record is deleted.
func (c *Cache) Fail(failures map[domain.Key]error) domain.ErrorReport {
	c.mu.Lock()
	defer c.mu.Unlock()

	report := make(domain.ErrorReport)
	frontier := make(map[domain.Key]*domain.DocumentError, len(failures))
	for key, err := range failures {
		var docErr *domain.DocumentError
		if !errors.As(err, &docErr) || docErr.Key != key {
			docErr = domain.NewDocumentError(key, err)
		}
		frontier[key] = docErr
	}

	for len(frontier) > 0 {
		round := make(map[domain.Key]struct{}, len(frontier))
		for _, key := range slices.SortedFunc(maps.Keys(frontier), domain.Key.Compare) {
			rec := c.invalidate(key, frontier[key])
			if rec.OutputPath != "" {
				report[rec.OutputPath] = rec.Err.Error()
			}
			round[key] = struct{}{}
		}

		next := make(map[domain.Key]*domain.DocumentError)
		for key, doc := range c.docs {
			if !doc.DependsOnAny(round) {
				continue
			}
			var causes []error
			for _, dep := range doc.Dependencies() {
				if _, failed := round[dep]; failed {
					causes = append(causes, zerr.Wrap(domain.ErrReferenceNotFound, "depends on "+dep.String()))
				}
			}
			next[key] = domain.NewDocumentError(key, causes...)
		}
		frontier = next
	}

	return report
}

// invalidate must be called with the write lock held.
func (c *Cache) invalidate(key domain.Key, err *domain.DocumentError) domain.ErrorRecord {
	delete(c.docs, key)

	rel, ok := c.registry.Path(key)
	c.registry.Remove(key)
	if !ok {
		return domain.ErrorRecord{Key: key, Err: err}
	}

	c.removeRecord(rel)
	return domain.ErrorRecord{
		Key:        key,
		OutputPath: domain.OutputPath(c.cacheRoot, rel),
		Err:        err,
	}
}

// WriteCache takes each listed document out of the cache and persists it
// with its annotations. Keys that are not cached fail with
// ErrDocumentNotCached; failures never stop the other writes.
func (c *Cache) WriteCache(ctx context.Context, updates map[domain.Key]domain.Annotations) map[domain.Key]error {
	type pending struct {
		key    domain.Key
		record domain.Record
	}

	errs := make(map[domain.Key]error)
	var writes []pending

	c.mu.Lock()
	for _, key := range slices.SortedFunc(maps.Keys(updates), domain.Key.Compare) {
		doc, ok := c.docs[key]
		if !ok {
			errs[key] = zerr.With(zerr.Wrap(domain.ErrDocumentNotCached, "write cache"), "key", key.String())
			continue
		}
		delete(c.docs, key)
		writes = append(writes, pending{key: key, record: domain.NewRecord(doc, updates[key])})
	}
	c.mu.Unlock()

	for _, err := range errs {
		c.logger.Error(err)
	}

	var mu sync.Mutex
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, w := range writes {
		g.Go(func() error {
			if err := c.writeRecord(w.record); err != nil {
				c.logger.Error(err)
				mu.Lock()
				errs[w.key] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errs
}

// Get returns the cached document of key.
func (c *Cache) Get(key domain.Key) (*domain.Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[key]
	return doc, ok
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

// Drain empties the cache and yields what it held in key order.
func (c *Cache) Drain() iter.Seq2[domain.Key, *domain.Document] {
	c.mu.Lock()
	docs := c.docs
	c.docs = make(map[domain.Key]*domain.Document)
	c.mu.Unlock()

	return func(yield func(domain.Key, *domain.Document) bool) {
		for _, key := range slices.SortedFunc(maps.Keys(docs), domain.Key.Compare) {
			if !yield(key, docs[key]) {
				return
			}
		}
	}
}

// Refresh inserts freshly compiled documents, registering each key as the
// canonical key of its path.
func (c *Cache) Refresh(docs ...*domain.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, doc := range docs {
		c.registry.RegisterKey(doc.Key, doc.Path)
		c.docs[doc.Key] = doc
	}
}

// readRecords parses every record under the records root. Unreadable and
// malformed records are logged and skipped.
func (c *Cache) readRecords(ctx context.Context) []domain.Record {
	root := domain.RecordsPath(c.cacheRoot)

	var files []string
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				c.logger.Error(zerr.With(zerr.Wrap(err, domain.ErrWalkFailed.Error()), "path", p))
			}
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(p, domain.RecordExt) {
			files = append(files, p)
		}
		return nil
	})

	parsed := make([]*domain.Record, len(files))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, file := range files {
		g.Go(func() error {
			rec, err := c.readRecord(root, file)
			if err != nil {
				c.logger.Error(err)
				return nil
			}
			parsed[i] = rec
			return nil
		})
	}
	_ = g.Wait()

	records := make([]domain.Record, 0, len(parsed))
	for _, rec := range parsed {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records
}

func (c *Cache) readRecord(root, file string) (*domain.Record, error) {
	//nolint:gosec // file comes from a walk of the records root
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRecordReadFailed.Error()), "path", file)
	}

	var rec domain.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRecordParseFailed.Error()), "path", file)
	}

	if rec.Path == "" {
		rel, relErr := filepath.Rel(root, file)
		if relErr != nil {
			return nil, zerr.With(zerr.Wrap(relErr, domain.ErrRecordParseFailed.Error()), "path", file)
		}
		rec.Path = strings.TrimSuffix(filepath.ToSlash(rel), domain.RecordExt)
	}

	local, ok := localPath(rec.Path)
	if !ok {
		err := zerr.Wrap(domain.ErrPathOutsideRoot, domain.ErrRecordParseFailed.Error())
		return nil, zerr.With(zerr.With(err, "path", file), "record_path", rec.Path)
	}
	rec.Path = local
	return &rec, nil
}

// localPath cleans a slash-separated source path and reports whether it
// stays inside the root it is relative to.
func localPath(p string) (string, bool) {
	p = path.Clean(filepath.ToSlash(p))
	return p, filepath.IsLocal(filepath.FromSlash(p))
}

// restore rebuilds a document from its record. References must resolve
// through the registry.
func (c *Cache) restore(rec domain.Record) restored {
	key, ok := c.registry.Key(rec.Path)
	if !ok {
		return restored{key: domain.NewKey(rec.Path), err: zerr.With(domain.ErrKeyNotRegistered, "path", rec.Path)}
	}

	refs := make([]domain.Reference, 0, len(rec.References))
	var causes []error
	for _, ref := range rec.References {
		refKey, found := c.registry.Key(ref)
		if !found {
			causes = append(causes, zerr.Wrap(domain.ErrReferenceNotFound, "depends on "+ref))
			continue
		}
		refs = append(refs, domain.Reference{Key: refKey, Path: ref})
	}
	if len(causes) > 0 {
		return restored{key: key, err: domain.NewDocumentError(key, causes...)}
	}

	return restored{key: key, doc: domain.NewDocument(key, rec.Path, rec.Title, rec.Content, refs, c.opts)}
}

func (c *Cache) writeRecord(rec domain.Record) error {
	path := domain.RecordPath(c.cacheRoot, rec.Path)

	data, err := json.Marshal(rec)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRecordMarshalFailed.Error()), "path", rec.Path)
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRecordWriteFailed.Error()), "path", path)
	}
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRecordWriteFailed.Error()), "path", path)
	}
	return nil
}

// removeRecord deletes the record of rel. A missing record is fine.
func (c *Cache) removeRecord(rel string) {
	if _, ok := localPath(rel); !ok {
		c.logger.Error(zerr.With(zerr.Wrap(domain.ErrPathOutsideRoot, domain.ErrRecordDeleteFailed.Error()), "path", rel))
		return
	}
	path := domain.RecordPath(c.cacheRoot, rel)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.logger.Error(zerr.With(zerr.Wrap(err, domain.ErrRecordDeleteFailed.Error()), "path", path))
	}
}
