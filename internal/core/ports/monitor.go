package ports

import (
	"context"

	"go.trai.ch/folio/internal/core/domain"
)

// Monitor detects filesystem changes since the last committed snapshot.
//
//go:generate mockgen -source=monitor.go -destination=mocks/mock_monitor.go -package=mocks
type Monitor interface {
	// Scan compares the workspace against the last committed snapshot.
	// The new state is held until Commit is called.
	Scan(ctx context.Context, ws domain.Workspace) (*domain.Changes, error)

	// Commit persists the state observed by the last Scan together with the
	// output paths that should be retried on the next run.
	Commit(ws domain.Workspace, retry []string) error
}
