package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Action() ActionRepository
	SyncLink() SyncLinkRepository
	Project() ProjectRepository
	Workflow() WorkflowRepository
	WorkflowRun() WorkflowRunRepository
	UserMapping() UserMappingRepository

	Close() error
}
