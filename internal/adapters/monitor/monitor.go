// Package monitor detects source and configuration changes against a
// persisted snapshot of content hashes.
package monitor

import (
	"context"
	"errors"
	"io/fs"
	"maps"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"

	folioFS "go.trai.ch/folio/internal/adapters/fs"
	"go.trai.ch/folio/internal/core/domain"
	"go.trai.ch/folio/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.Monitor = (*Monitor)(nil)

// Monitor implements ports.Monitor. A scan is held in memory until Commit
// writes it to the snapshot file.
type Monitor struct {
	walker *folioFS.Walker
	hasher *folioFS.Hasher

	mu      sync.Mutex
	pending *snapshot
}

// New creates a Monitor.
func New(walker *folioFS.Walker, hasher *folioFS.Hasher) *Monitor {
	return &Monitor{walker: walker, hasher: hasher}
}

// Scan hashes the source and config trees of ws and compares them with the
// last committed snapshot.
func (m *Monitor) Scan(ctx context.Context, ws domain.Workspace) (*domain.Changes, error) {
	prev, err := readSnapshot(domain.SnapshotPath(ws.CacheRoot))
	if err != nil {
		return nil, err
	}

	ignores := m.sourceIgnores(ws)
	var sources, config map[string]string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var hashErr error
		sources, hashErr = m.hashTree(gctx, ws.SourceRoot, ignores)
		return hashErr
	})
	g.Go(func() error {
		var hashErr error
		config, hashErr = m.hashTree(gctx, ws.ConfigRoot, nil)
		return hashErr
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	next := &snapshot{
		Documents:    make(map[string]string),
		NonDocuments: make(map[string]string),
		Config:       config,
	}
	for rel, hash := range sources {
		if ws.IsDocument(rel) {
			next.Documents[rel] = hash
		} else {
			next.NonDocuments[rel] = hash
		}
	}

	changes := &domain.Changes{
		AllDocuments: slices.Sorted(maps.Keys(next.Documents)),
		Documents:    diff(prev.Documents, next.Documents),
		NonDocuments: diff(prev.NonDocuments, next.NonDocuments),
		Config:       absolute(ws.ConfigRoot, diff(prev.Config, next.Config)),
		Retry:        slices.Clone(prev.Retry),
	}

	m.mu.Lock()
	m.pending = next
	m.mu.Unlock()

	return changes, nil
}

// Commit persists the last scanned state and the retry set. Without a prior
// Scan only the retry set is updated.
func (m *Monitor) Commit(ws domain.Workspace, retry []string) error {
	path := domain.SnapshotPath(ws.CacheRoot)

	m.mu.Lock()
	next := m.pending
	m.pending = nil
	m.mu.Unlock()

	if next == nil {
		prev, err := readSnapshot(path)
		if err != nil {
			return err
		}
		next = prev
	}

	next.Retry = slices.Sorted(slices.Values(retry))
	return writeSnapshot(path, next)
}

// sourceIgnores excludes the cache and output directories when they live
// inside the source root.
func (m *Monitor) sourceIgnores(ws domain.Workspace) []string {
	var ignores []string
	for _, dir := range []string{ws.CacheRoot, ws.OutputRoot, ws.ConfigRoot} {
		if rel, err := filepath.Rel(ws.SourceRoot, dir); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
			ignores = append(ignores, filepath.Base(dir))
		}
	}
	return ignores
}

// hashTree hashes every file under root. Files that vanish between the walk
// and the hash are treated as absent.
func (m *Monitor) hashTree(ctx context.Context, root string, ignores []string) (map[string]string, error) {
	var mu sync.Mutex
	hashes := make(map[string]string)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for rel := range m.walker.WalkRelative(root, ignores) {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			sum, err := m.hasher.ComputeFileHash(filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return err
			}
			mu.Lock()
			hashes[rel] = strconv.FormatUint(sum, 16)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrWalkFailed.Error())
	}
	return hashes, nil
}

// diff lists the paths that are new or whose hash changed, and the paths
// that disappeared. Both lists are sorted.
func diff(prev, next map[string]string) domain.ChangeSet {
	var set domain.ChangeSet
	for rel, hash := range next {
		if old, ok := prev[rel]; !ok || old != hash {
			set.Changed = append(set.Changed, rel)
		}
	}
	for rel := range prev {
		if _, ok := next[rel]; !ok {
			set.Deleted = append(set.Deleted, rel)
		}
	}
	slices.Sort(set.Changed)
	slices.Sort(set.Deleted)
	return set
}

func absolute(root string, set domain.ChangeSet) domain.ChangeSet {
	for i, rel := range set.Changed {
		set.Changed[i] = filepath.Join(root, filepath.FromSlash(rel))
	}
	for i, rel := range set.Deleted {
		set.Deleted[i] = filepath.Join(root, filepath.FromSlash(rel))
	}
	return set
}
