// Package store persists discovery runs. Two backends share one
// interface: SQLite for local single-user use, Postgres for shared
// deployments.
package store

import (
	"context"

	"github.com/sells-group/prospect-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status   model.RunStatus `json:"status,omitempty"`
	Business string          `json:"business,omitempty"`
	Limit    int             `json:"limit,omitempty"`
	Offset   int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for discovery runs.
type Store interface {
	CreateRun(ctx context.Context, biz model.Business) (*model.DiscoveryRun, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	CompleteRun(ctx context.Context, runID string, result *model.DiscoveryResult) error
	FailRun(ctx context.Context, runID string, cause string) error
	GetRun(ctx context.Context, runID string) (*model.DiscoveryRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.DiscoveryRun, error)

	Migrate(ctx context.Context) error
	Close() error
}
