package ports

import (
	"context"

	"go.trai.ch/folio/internal/core/domain"
)

// Renderer writes the final output of a run.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// RenderDocument writes the page of a compiled document to its output path.
	RenderDocument(ctx context.Context, ws domain.Workspace, doc *domain.Document) error

	// RenderError writes an error page in place of the output at outputPath.
	RenderError(ctx context.Context, outputPath, message string) error

	// Remove deletes the page of the source document rel.
	Remove(ctx context.Context, ws domain.Workspace, rel string) error

	// Publish mirrors the rendered pages and the assets into the output root.
	Publish(ctx context.Context, ws domain.Workspace, opts *domain.Options) error
}
