package model

import "time"

// RunStatus represents the current state of a discovery run.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// DiscoveryRun is the persisted record of a single discovery invocation.
type DiscoveryRun struct {
	ID        string           `json:"id"`
	Business  Business         `json:"business"`
	Status    RunStatus        `json:"status"`
	Result    *DiscoveryResult `json:"result,omitempty"`
	Error     string           `json:"error,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
