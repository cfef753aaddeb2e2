package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer
var (
	ErrWorkflowNotFound = goerr.New("workflow not found")

	// Configuration errors, these fail a run before any item work
	ErrMissingCredentials = goerr.New("provider credentials are missing")

	// Serialization errors
	ErrSyncAlreadyRunning = goerr.New("a sync run is already in progress for this workflow")
)

// Context keys for error values
const (
	WorkflowIDKey = "workflow_id"
	ActionIDKey   = "action_id"
	ExternalIDKey = "external_id"
)
