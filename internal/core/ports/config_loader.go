package ports

import "go.trai.ch/folio/internal/core/domain"

// ConfigLoader defines the interface for loading workspace and project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// LoadWorkspace walks up from cwd to the nearest folio.yaml and returns the workspace it describes.
	LoadWorkspace(cwd string) (domain.Workspace, error)

	// LoadOptions reads the project options of the workspace.
	LoadOptions(ws domain.Workspace) (*domain.Options, error)

	// InitProject writes a default workspace file and project options under root.
	InitProject(root string) (domain.Workspace, error)
}
