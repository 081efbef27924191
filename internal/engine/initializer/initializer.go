// Package initializer decides what a build run has to compile.
package initializer

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/folio/internal/core/domain"
	"go.trai.ch/folio/internal/core/ports"
	"go.trai.ch/zerr"
)

// InitHint is attached to configuration failures.
const InitHint = "run `folio init` to initialize the project"

// Initializer turns monitor deltas and project options into a domain.Input.
type Initializer struct {
	loader  ports.ConfigLoader
	monitor ports.Monitor
	logger  ports.Logger
}

// New creates an Initializer.
func New(loader ports.ConfigLoader, monitor ports.Monitor, logger ports.Logger) *Initializer {
	return &Initializer{loader: loader, monitor: monitor, logger: logger}
}

// Initialize scans the workspace and produces the decision record of the run.
// A configuration that cannot be loaded is fatal.
func (i *Initializer) Initialize(ctx context.Context, ws domain.Workspace, continuous bool) (*domain.Input, error) {
	changes, err := i.monitor.Scan(ctx, ws)
	if err != nil {
		return nil, err
	}

	opts, err := i.loader.LoadOptions(ws)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigLoadFailed.Error()), "hint", InitHint)
	}

	in := &domain.Input{
		Workspace:    ws,
		Options:      opts,
		Config:       changes.Config,
		NonDocuments: changes.NonDocuments,
		Retry:        slices.Clone(changes.Retry),
		Continuous:   continuous,
	}

	in.OptionsChanged, in.ComponentsChanged = configChanges(ws, changes.Config)
	if in.OptionsChanged {
		i.logger.Info("Options changed, reloading...")
	}
	if in.ComponentsChanged {
		i.logger.Info("Components changed, reloading...")
	}

	in.LibsChanged = slices.ContainsFunc(changes.Documents.Changed, opts.IsLibrary) ||
		slices.ContainsFunc(changes.Documents.Deleted, opts.IsLibrary)
	if in.LibsChanged {
		i.logger.Info("Library files changed, reloading...")
	}

	in.OverallCompileNeeded = !exists(ws.CacheRoot) ||
		in.OptionsChanged || in.ComponentsChanged || in.LibsChanged

	changed := changes.Documents.Changed
	if in.OverallCompileNeeded {
		changed = changes.AllDocuments
	}

	in.Documents.Changed, in.Libraries.Changed = splitLibraries(opts, changed)
	in.Documents.Deleted, in.Libraries.Deleted = splitLibraries(opts, changes.Documents.Deleted)

	in.Assets = domain.ChangeSet{
		Changed: assets(opts, changes.Config.Changed),
		Deleted: assets(opts, changes.Config.Deleted),
	}

	return in, nil
}

// configChanges reports whether the options file or anything under the
// components directory is among the changed or deleted config paths.
func configChanges(ws domain.Workspace, config domain.ChangeSet) (options, components bool) {
	optionsPath := filepath.Clean(ws.OptionsPath())
	componentsPath := filepath.Clean(ws.ComponentsPath())

	for _, p := range slices.Concat(config.Changed, config.Deleted) {
		p = filepath.Clean(p)
		if !options && p == optionsPath {
			options = true
		}
		if !components && isUnder(componentsPath, p) {
			components = true
		}
		if options && components {
			break
		}
	}
	return options, components
}

// splitLibraries separates library paths from document paths, keeping order.
func splitLibraries(opts *domain.Options, paths []string) (docs, libs []string) {
	docs = make([]string, 0, len(paths))
	for _, p := range paths {
		if opts.IsLibrary(p) {
			libs = append(libs, p)
			continue
		}
		docs = append(docs, p)
	}
	return docs, libs
}

// assets keeps the config paths under the assets root that are not rendered output.
func assets(opts *domain.Options, paths []string) []string {
	if opts == nil || opts.AssetsRoot == "" {
		return nil
	}
	var out []string
	for _, p := range paths {
		if !isUnder(opts.AssetsRoot, p) {
			continue
		}
		if strings.EqualFold(filepath.Ext(p), domain.OutputExt) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func isUnder(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
