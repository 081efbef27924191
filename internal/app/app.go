// Package app implements the application layer for folio.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"go.trai.ch/folio/internal/adapters/watcher" //nolint:depguard // Debouncer drives watch cycles
	"go.trai.ch/folio/internal/core/domain"
	"go.trai.ch/folio/internal/core/ports"
	"go.trai.ch/folio/internal/engine/articles"
	"go.trai.ch/folio/internal/engine/initializer"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	loader      ports.ConfigLoader
	initializer *initializer.Initializer
	monitor     ports.Monitor
	registry    ports.Registry
	compiler    ports.Compiler
	renderer    ports.Renderer
	telemetry   ports.Telemetry
	logger      ports.Logger
	watcher     ports.Watcher
	debounce    time.Duration
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	ini *initializer.Initializer,
	monitor ports.Monitor,
	registry ports.Registry,
	compiler ports.Compiler,
	renderer ports.Renderer,
	telemetry ports.Telemetry,
	log ports.Logger,
	w ports.Watcher,
) *App {
	return &App{
		loader:      loader,
		initializer: ini,
		monitor:     monitor,
		registry:    registry,
		compiler:    compiler,
		renderer:    renderer,
		telemetry:   telemetry,
		logger:      log,
		watcher:     w,
		debounce:    watcher.DefaultDebounceWindow,
	}
}

// WithDebounceWindow sets how long watch mode waits for events to settle.
func (a *App) WithDebounceWindow(d time.Duration) *App {
	a.debounce = d
	return a
}

// SetJSONLogs switches the logger to JSON output when it supports it.
func (a *App) SetJSONLogs(enable bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(enable)
	}
}

// Result summarizes one build run.
type Result struct {
	Unchanged bool
	Compiled  int
	Rendered  int
	Errors    domain.ErrorReport
}

// Build runs one incremental build of the workspace containing cwd.
func (a *App) Build(ctx context.Context, cwd string) error {
	ws, err := a.loader.LoadWorkspace(cwd)
	if err != nil {
		return err
	}

	res, err := a.run(ctx, ws, false)
	if err != nil {
		return err
	}
	if len(res.Errors) > 0 {
		return zerr.With(zerr.Wrap(domain.ErrBuildFailed, "build"), "documents", len(res.Errors))
	}
	return nil
}

// Watch builds the workspace and rebuilds it whenever files change until ctx is done.
func (a *App) Watch(ctx context.Context, cwd string) error {
	ws, err := a.loader.LoadWorkspace(cwd)
	if err != nil {
		return err
	}

	if _, err := a.run(ctx, ws, true); err != nil {
		return err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	if err := a.watcher.Start(watchCtx, ws.Root); err != nil {
		cancel()
		return err
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	trigger := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(a.debounce, func([]string) {
		select {
		case trigger <- struct{}{}:
		default:
		}
	})

	var wg sync.WaitGroup
	wg.Go(func() {
		for event := range a.watcher.Events() {
			if relevant(ws, event.Path) {
				debouncer.Add(event.Path)
			}
		}
	})
	defer wg.Wait()
	defer cancel()

	a.logger.Info("Watching " + ws.Root)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-trigger:
			if _, err := a.run(ctx, ws, true); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				a.logger.Error(err)
			}
		}
	}
}

// Init scaffolds a new project in dir.
func (a *App) Init(_ context.Context, dir string) error {
	_, err := a.loader.InitProject(dir)
	return err
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Output bool
}

// Clean removes the cache root and, optionally, the output root.
func (a *App) Clean(_ context.Context, cwd string, options CleanOptions) error {
	ws, err := a.loader.LoadWorkspace(cwd)
	if err != nil {
		return err
	}

	var errs error
	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)), "path", path))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	remove(ws.CacheRoot, "cache")
	if options.Output {
		remove(ws.OutputRoot, "output")
	}
	return errs
}

// compiled is the outcome of compiling one source document.
type compiled struct {
	rel string
	doc *domain.Document
	ann domain.Annotations
	err error
}

// run performs one build cycle.
//
//nolint:cyclop,funlen // orchestration function
func (a *App) run(ctx context.Context, ws domain.Workspace, continuous bool) (*Result, error) {
	if r, ok := a.registry.(interface{ SetDocumentExt(ext string) }); ok {
		r.SetDocumentExt(ws.DocumentExt)
	}

	var in *domain.Input
	err := a.phase(ctx, "initialize", func(ctx context.Context) error {
		var err error
		in, err = a.initializer.Initialize(ctx, ws, continuous)
		return err
	})
	if err != nil {
		return nil, err
	}

	if in.Unchanged() {
		_, v := a.telemetry.Record(ctx, "build")
		v.Cached()
		a.logger.Info("Nothing changed")
		return &Result{Unchanged: true, Errors: domain.ErrorReport{}}, nil
	}

	cache := articles.New(ws.CacheRoot, in.Options, a.registry, a.logger)
	retry := retrySources(ws, in)

	var report domain.ErrorReport
	_ = a.phase(ctx, "load", func(ctx context.Context) error {
		report = cache.Load(ctx, in.Documents.Deleted)
		return nil
	})

	var results []compiled
	_ = a.phase(ctx, "compile", func(ctx context.Context) error {
		results = a.compileAll(ctx, ws, in.Options, compileSet(in, retry))
		return nil
	})

	fresh := make([]*domain.Document, 0, len(results))
	failures := make(map[domain.Key]error)
	for _, r := range results {
		if r.err != nil {
			a.logger.Error(r.err)
			failures[a.registry.Register(r.rel)[0]] = r.err
			continue
		}
		fresh = append(fresh, r.doc)
	}
	cache.Refresh(fresh...)
	maps.Copy(report, cache.Fail(failures))

	res := &Result{Errors: report}
	annotations := make(map[domain.Key]domain.Annotations, len(results))

	_ = a.phase(ctx, "render", func(ctx context.Context) error {
		for _, r := range results {
			if r.err != nil {
				continue
			}
			if _, ok := cache.Get(r.doc.Key); !ok {
				continue
			}
			out := domain.OutputPath(ws.CacheRoot, r.rel)
			delete(report, out)
			if err := a.renderer.RenderDocument(ctx, ws, r.doc); err != nil {
				a.logger.Error(err)
				report[out] = err.Error()
				continue
			}
			annotations[r.doc.Key] = r.ann
			res.Compiled++
			res.Rendered++
		}
		return nil
	})

	_ = a.phase(ctx, "write", func(ctx context.Context) error {
		paths := make(map[domain.Key]string, len(annotations))
		for key := range annotations {
			if doc, ok := cache.Get(key); ok {
				paths[key] = doc.Path
			}
		}
		for key, err := range cache.WriteCache(ctx, annotations) {
			if rel, ok := paths[key]; ok {
				report[domain.OutputPath(ws.CacheRoot, rel)] = err.Error()
			}
		}
		return nil
	})

	err = a.phase(ctx, "publish", func(ctx context.Context) error {
		for _, doc := range cache.Drain() {
			out := domain.OutputPath(ws.CacheRoot, doc.Path)
			if exists(out) {
				continue
			}
			if err := a.renderer.RenderDocument(ctx, ws, doc); err != nil {
				a.logger.Error(err)
				report[out] = err.Error()
				continue
			}
			res.Rendered++
		}

		for _, out := range slices.Sorted(maps.Keys(report)) {
			a.logger.Warn(fmt.Sprintf("%s: %s", out, report[out]))
			if err := a.renderer.RenderError(ctx, out, report[out]); err != nil {
				a.logger.Error(err)
			}
		}

		for _, rel := range in.Documents.Deleted {
			if err := a.renderer.Remove(ctx, ws, rel); err != nil {
				a.logger.Error(err)
			}
		}

		return a.renderer.Publish(ctx, ws, in.Options)
	})
	if err != nil {
		return nil, err
	}

	if err := a.monitor.Commit(ws, slices.Sorted(maps.Keys(report))); err != nil {
		return nil, err
	}

	a.logger.Info(fmt.Sprintf("Compiled %d documents, rendered %d, %d errors", res.Compiled, res.Rendered, len(report)))
	return res, nil
}

// phase records fn as one telemetry vertex.
func (a *App) phase(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, v := a.telemetry.Record(ctx, name)
	err := fn(ctx)
	v.Complete(err)
	return err
}

func (a *App) compileAll(ctx context.Context, ws domain.Workspace, opts *domain.Options, rels []string) []compiled {
	results := make([]compiled, len(rels))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, rel := range rels {
		g.Go(func() error {
			doc, ann, err := a.compiler.Compile(gctx, ws, opts, rel)
			results[i] = compiled{rel: rel, doc: doc, ann: ann, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// compileSet returns the changed documents plus the retried ones, sorted and unique.
func compileSet(in *domain.Input, retry []string) []string {
	set := slices.Concat(in.Documents.Changed, retry)
	slices.Sort(set)
	return slices.Compact(set)
}

// retrySources maps retried output paths back to existing source documents.
func retrySources(ws domain.Workspace, in *domain.Input) []string {
	htmlRoot := domain.HTMLPath(ws.CacheRoot)

	var rels []string
	for _, out := range in.Retry {
		rel, err := filepath.Rel(htmlRoot, out)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(strings.TrimSuffix(rel, domain.OutputExt) + ws.DocumentExt)
		if in.Options.IsLibrary(rel) || !exists(filepath.Join(ws.SourceRoot, filepath.FromSlash(rel))) {
			continue
		}
		rels = append(rels, rel)
	}
	return rels
}

// relevant reports whether a watch event may change the next build.
func relevant(ws domain.Workspace, path string) bool {
	for _, root := range []string{ws.CacheRoot, ws.OutputRoot} {
		rel, err := filepath.Rel(root, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return false
		}
	}
	return true
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
