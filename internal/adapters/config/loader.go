// Package config loads the folio workspace file and project options.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.trai.ch/folio/internal/core/domain"
	"go.trai.ch/folio/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader with a YAML workspace file and TOML
// project options.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// LoadWorkspace walks up from cwd to the nearest folio.yaml.
func (l *Loader) LoadWorkspace(cwd string) (domain.Workspace, error) {
	configPath, err := findWorkfile(cwd)
	if err != nil {
		return domain.Workspace{}, err
	}

	var wf Workfile
	if err := readAndUnmarshalYAML(configPath, &wf); err != nil {
		return domain.Workspace{}, zerr.With(err, "path", configPath)
	}

	root := filepath.Dir(configPath)
	return domain.NewWorkspace(root, wf.Source, wf.Config, wf.Cache, wf.Output, wf.Ext), nil
}

// LoadOptions reads options.toml from the config root with a private viper instance.
func (l *Loader) LoadOptions(ws domain.Workspace) (*domain.Options, error) {
	optionsPath := ws.OptionsPath()

	v := viper.New()
	v.SetConfigFile(optionsPath)
	v.SetConfigType("toml")
	v.SetDefault("assets.root", domain.DefaultAssetsDir)
	v.SetDefault("library.paths", []string{})

	if err := v.ReadInConfig(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", optionsPath)
	}

	var file optionsFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", optionsPath)
	}

	assets := strings.TrimSpace(file.Assets.Root)
	if assets == "" {
		assets = domain.DefaultAssetsDir
	}

	opts := &domain.Options{
		Title:        file.Title,
		LibraryPaths: make(map[string]struct{}, len(file.Library.Paths)),
		AssetsRoot:   resolveDir(ws.ConfigRoot, assets),
	}

	for _, p := range file.Library.Paths {
		rel := path.Clean(strings.TrimPrefix(filepath.ToSlash(p), "/"))
		opts.LibraryPaths[rel] = struct{}{}
		if _, err := os.Stat(filepath.Join(ws.SourceRoot, filepath.FromSlash(rel))); err != nil {
			l.Logger.Warn(fmt.Sprintf("library path %s does not exist", rel))
		}
	}

	return opts, nil
}

// InitProject writes folio.yaml, options.toml, the components directory and
// a starter document under root. Existing options make it fail.
func (l *Loader) InitProject(root string) (domain.Workspace, error) {
	workfilePath := filepath.Join(root, domain.WorkspaceFileName)
	if _, err := os.Stat(workfilePath); errors.Is(err, fs.ErrNotExist) {
		if err := writeFile(workfilePath, defaultWorkfile); err != nil {
			return domain.Workspace{}, err
		}
	}

	ws, err := l.LoadWorkspace(root)
	if err != nil {
		return domain.Workspace{}, err
	}

	if _, err := os.Stat(ws.OptionsPath()); err == nil {
		return domain.Workspace{}, zerr.With(domain.ErrProjectAlreadyInitialized, "path", ws.OptionsPath())
	}

	if err := writeFile(ws.OptionsPath(), defaultOptions); err != nil {
		return domain.Workspace{}, err
	}
	if err := os.MkdirAll(ws.ComponentsPath(), domain.DirPerm); err != nil {
		return domain.Workspace{}, zerr.With(zerr.Wrap(err, domain.ErrConfigLoadFailed.Error()), "path", ws.ComponentsPath())
	}

	index := filepath.Join(ws.SourceRoot, "index"+ws.DocumentExt)
	if _, err := os.Stat(index); errors.Is(err, fs.ErrNotExist) {
		if err := writeFile(index, defaultIndex); err != nil {
			return domain.Workspace{}, err
		}
	}

	l.Logger.Info(fmt.Sprintf("Initialized folio project in %s", ws.Root))
	return ws, nil
}

func findWorkfile(cwd string) (string, error) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.WorkspaceFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is validated by caller
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}

func resolveDir(base, dir string) string {
	if dir == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(base, dir)
}

func writeFile(p, content string) error {
	if err := os.MkdirAll(filepath.Dir(p), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigLoadFailed.Error()), "path", p)
	}
	if err := os.WriteFile(p, []byte(content), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigLoadFailed.Error()), "path", p)
	}
	return nil
}
