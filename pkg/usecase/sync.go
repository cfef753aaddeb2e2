package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/positonic/exponential-sync/pkg/domain/interfaces"
	"github.com/positonic/exponential-sync/pkg/domain/model"
	"github.com/positonic/exponential-sync/pkg/domain/model/config"
	"github.com/positonic/exponential-sync/pkg/domain/types"
	"github.com/positonic/exponential-sync/pkg/utils/errutil"
	"github.com/positonic/exponential-sync/pkg/utils/logging"
)

// ClientFactory builds the provider client for one run. Injected so
// tests can substitute a fake provider.
type ClientFactory func(p types.Provider, token string, scopeID string, projectProperty string) (interfaces.ProviderClient, error)

// SyncUseCase orchestrates one sync invocation: run ledger handling,
// engine sequencing per strategy, and same-workflow serialization.
type SyncUseCase struct {
	repo    interfaces.Repository
	clients ClientFactory
	pull    *PullUseCase
	push    *PushUseCase

	mu      sync.Mutex
	running map[string]bool
}

func NewSyncUseCase(repo interfaces.Repository, clients ClientFactory) *SyncUseCase {
	return &SyncUseCase{
		repo:    repo,
		clients: clients,
		pull:    NewPullUseCase(repo),
		push:    NewPushUseCase(repo),
		running: make(map[string]bool),
	}
}

// SyncOptions narrows one invocation. The token is supplied per run and
// never persisted.
type SyncOptions struct {
	Token         string
	ProjectID     *int64
	ActionIDs     []int64
	OverwriteMode bool
}

type syncMode int

const (
	modeStrategy syncMode = iota
	modePullOnly
	modePushOnly
)

// RunSync executes a workflow end to end according to its sync strategy.
func (uc *SyncUseCase) RunSync(ctx context.Context, workflowID string, opts *SyncOptions) (*model.SyncResult, error) {
	return uc.run(ctx, workflowID, opts, modeStrategy)
}

// RunPull executes only the pull engine for a workflow.
func (uc *SyncUseCase) RunPull(ctx context.Context, workflowID string, opts *SyncOptions) (*model.SyncResult, error) {
	return uc.run(ctx, workflowID, opts, modePullOnly)
}

// RunPush executes only the push engine for a workflow.
func (uc *SyncUseCase) RunPush(ctx context.Context, workflowID string, opts *SyncOptions) (*model.SyncResult, error) {
	return uc.run(ctx, workflowID, opts, modePushOnly)
}

func (uc *SyncUseCase) run(ctx context.Context, workflowID string, opts *SyncOptions, mode syncMode) (*model.SyncResult, error) {
	if opts == nil {
		opts = &SyncOptions{}
	}

	workflow, err := uc.repo.Workflow().Get(ctx, workflowID)
	if err != nil {
		return nil, goerr.Wrap(ErrWorkflowNotFound, "workflow not found",
			goerr.V(WorkflowIDKey, workflowID))
	}
	if err := workflow.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid workflow configuration",
			goerr.V(WorkflowIDKey, workflowID))
	}

	if !uc.acquire(workflowID) {
		return nil, goerr.Wrap(ErrSyncAlreadyRunning, "refusing concurrent run",
			goerr.V(WorkflowIDKey, workflowID))
	}
	defer uc.release(workflowID)

	run, err := uc.repo.WorkflowRun().Create(ctx, &model.WorkflowRun{
		ID:         uuid.NewString(),
		WorkflowID: workflowID,
		Status:     types.RunStatusRunning,
		StartedAt:  time.Now().UTC(),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create workflow run",
			goerr.V(WorkflowIDKey, workflowID))
	}

	result := &model.SyncResult{RunID: run.ID}
	logger := logging.From(ctx).With("workflow_id", workflowID, "run_id", run.ID)

	client, err := uc.buildClient(workflow, opts.Token)
	if err != nil {
		return result, uc.failRun(ctx, run, result, err)
	}

	strategy := workflow.Strategy()
	metadata := map[string]any{
		"strategy": strategy.String(),
	}
	if canonical, ok := strategy.CanonicalProvider(); ok {
		metadata["canonical_provider"] = canonical.String()
		metadata["conflict_policy"] = workflow.Conflict().String()
	}

	runPull, runPush := uc.plan(workflow, strategy, mode)

	var engines, failures int
	var firstErr error

	if runPull {
		engines++
		pullResult, err := uc.pull.Run(ctx, workflow, client)
		if err != nil {
			// Best effort: a transient external read failure must not
			// block exporting pending local changes.
			failures++
			firstErr = err
			metadata["pull_error"] = err.Error()
			errutil.Handle(ctx, err, "pull failed")
		} else {
			result.Merge(pullResult)
		}
	}

	if runPush {
		engines++
		pushResult, err := uc.push.Run(ctx, workflow, client, &PushOptions{
			ProjectID:     opts.ProjectID,
			ActionIDs:     opts.ActionIDs,
			OverwriteMode: opts.OverwriteMode,
		})
		if err != nil {
			failures++
			if firstErr == nil {
				firstErr = err
			}
			metadata["push_error"] = err.Error()
			errutil.Handle(ctx, err, "push failed")
		} else {
			result.Merge(pushResult)
		}
	}

	if len(result.SkipReasons) > 0 {
		metadata["skip_reasons"] = result.SkipReasons
	}
	run.Metadata = metadata

	// Partial engine failure does not fail the run; only the case where
	// nothing ran to completion does.
	if engines == 0 || failures == engines {
		if firstErr == nil {
			firstErr = goerr.New("no engine eligible for this workflow",
				goerr.V(WorkflowIDKey, workflowID))
		}
		return result, uc.failRun(ctx, run, result, firstErr)
	}

	uc.finalize(ctx, run, result, types.RunStatusCompleted, "")
	result.Success = true
	logger.Info("sync run completed",
		"processed", result.ItemsProcessed,
		"created", result.ItemsCreated,
		"updated", result.ItemsUpdated,
		"skipped", result.ItemsSkipped,
		"deleted", result.ItemsDeleted,
		"failed", result.ItemsFailedToSync,
	)
	return result, nil
}

// plan decides which engines run. The strategy sequences pull before
// push; the workflow direction caps which sides are allowed at all.
func (uc *SyncUseCase) plan(workflow *model.Workflow, strategy types.SyncStrategy, mode syncMode) (runPull, runPush bool) {
	switch mode {
	case modePullOnly:
		return true, false
	case modePushOnly:
		return false, true
	}

	switch workflow.Direction {
	case types.SyncDirectionPull:
		return true, false
	case types.SyncDirectionPush:
		return false, true
	default:
		return strategy.RunsPull(), true
	}
}

// ValidateWorkflow checks a workflow configuration and verifies the
// credentials reach the provider.
func (uc *SyncUseCase) ValidateWorkflow(ctx context.Context, workflow *model.Workflow, token string) error {
	if err := workflow.Validate(); err != nil {
		return err
	}
	client, err := uc.buildClient(workflow, token)
	if err != nil {
		return err
	}
	return client.TestConnection(ctx)
}

func (uc *SyncUseCase) buildClient(workflow *model.Workflow, token string) (interfaces.ProviderClient, error) {
	if token == "" {
		return nil, goerr.Wrap(ErrMissingCredentials, "no token for provider",
			goerr.V("provider", workflow.Provider))
	}
	projectProperty, _ := workflow.Mapping().PropertyFor(config.FieldProject)
	client, err := uc.clients(workflow.Provider, token, workflow.ScopeID, projectProperty)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build provider client",
			goerr.V("provider", workflow.Provider))
	}
	return client, nil
}

// failRun finalizes the run as FAILED and returns the cause. Zero
// partial credit: the counters reflect whatever completed before the
// failure, but Success stays false.
func (uc *SyncUseCase) failRun(ctx context.Context, run *model.WorkflowRun, result *model.SyncResult, cause error) error {
	uc.finalize(ctx, run, result, types.RunStatusFailed, cause.Error())
	return cause
}

func (uc *SyncUseCase) finalize(ctx context.Context, run *model.WorkflowRun, result *model.SyncResult, status types.RunStatus, errorMessage string) {
	now := time.Now().UTC()
	run.Status = status
	run.CompletedAt = &now
	run.ErrorMessage = errorMessage
	run.ItemsProcessed = result.ItemsProcessed
	run.ItemsCreated = result.ItemsCreated
	run.ItemsUpdated = result.ItemsUpdated
	run.ItemsSkipped = result.ItemsSkipped + result.ItemsAlreadySynced
	run.ItemsDeleted = result.ItemsDeleted
	run.ItemsFailed = result.ItemsFailedToSync

	if _, err := uc.repo.WorkflowRun().Update(ctx, run); err != nil {
		errutil.Handle(ctx, err, "failed to finalize workflow run")
	}
}

func (uc *SyncUseCase) acquire(workflowID string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.running[workflowID] {
		return false
	}
	uc.running[workflowID] = true
	return true
}

func (uc *SyncUseCase) release(workflowID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	delete(uc.running, workflowID)
}
