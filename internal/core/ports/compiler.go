package ports

import (
	"context"

	"go.trai.ch/folio/internal/core/domain"
)

// Compiler turns one source document into its compiled form.
//
//go:generate mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	// Compile compiles the document at rel, relative to the workspace source root.
	// References are resolved through the registry.
	Compile(ctx context.Context, ws domain.Workspace, opts *domain.Options, rel string) (*domain.Document, domain.Annotations, error)
}
