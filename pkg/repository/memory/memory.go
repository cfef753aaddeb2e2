package memory

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/positonic/exponential-sync/pkg/domain/interfaces"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = goerr.New("record not found")

type Memory struct {
	action      *actionRepository
	syncLink    *syncLinkRepository
	project     *projectRepository
	workflow    *workflowRepository
	workflowRun *workflowRunRepository
	userMapping *userMappingRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		action:      newActionRepository(),
		syncLink:    newSyncLinkRepository(),
		project:     newProjectRepository(),
		workflow:    newWorkflowRepository(),
		workflowRun: newWorkflowRunRepository(),
		userMapping: newUserMappingRepository(),
	}
}

func (m *Memory) Action() interfaces.ActionRepository {
	return m.action
}

func (m *Memory) SyncLink() interfaces.SyncLinkRepository {
	return m.syncLink
}

func (m *Memory) Project() interfaces.ProjectRepository {
	return m.project
}

func (m *Memory) Workflow() interfaces.WorkflowRepository {
	return m.workflow
}

func (m *Memory) WorkflowRun() interfaces.WorkflowRunRepository {
	return m.workflowRun
}

func (m *Memory) UserMapping() interfaces.UserMappingRepository {
	return m.userMapping
}

func (m *Memory) Close() error {
	return nil
}
