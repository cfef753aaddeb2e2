package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/positonic/exponential-sync/pkg/domain/interfaces"
	"github.com/positonic/exponential-sync/pkg/domain/model"
	"github.com/positonic/exponential-sync/pkg/domain/model/config"
	"github.com/positonic/exponential-sync/pkg/domain/types"
	"github.com/positonic/exponential-sync/pkg/utils/errutil"
)

// PushUseCase exports local actions to an external provider. Items are
// processed one at a time with no batch transaction: a remote call can
// fail per item, and the run must make maximal progress and report
// exactly which items need attention.
type PushUseCase struct {
	repo interfaces.Repository
}

func NewPushUseCase(repo interfaces.Repository) *PushUseCase {
	return &PushUseCase{repo: repo}
}

// PushOptions narrows one push invocation.
type PushOptions struct {
	// ProjectID overrides the workflow's project scope.
	ProjectID *int64
	// ActionIDs selects explicit actions instead of scope selection.
	ActionIDs []int64
	// OverwriteMode declares the local store canonical: synced records
	// are rewritten, deleted_remotely records are recreated, and orphan
	// external records are archived.
	OverwriteMode bool
}

func (uc *PushUseCase) Run(ctx context.Context, workflow *model.Workflow, client interfaces.ProviderClient, opts *PushOptions) (*model.SyncResult, error) {
	if opts == nil {
		opts = &PushOptions{}
	}

	mapper := NewFieldMapper(workflow.Mapping())
	users := NewUserMapper(uc.repo.UserMapping(), workflow.Provider.String())
	result := &model.SyncResult{}

	candidates, err := uc.selectCandidates(ctx, workflow, opts, result)
	if err != nil {
		return nil, err
	}

	var filter *model.RecordFilter
	if workflow.ExternalProjectID != "" {
		filter = &model.RecordFilter{ExternalProjectID: workflow.ExternalProjectID}
	}
	records, err := client.ListRecords(ctx, workflow.ScopeID, filter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list external records",
			goerr.V(WorkflowIDKey, workflow.ID))
	}
	remote := make(map[string]bool, len(records))
	for _, record := range records {
		remote[record.ID] = true
	}

	uc.markVanished(ctx, workflow, effectiveProjectID(workflow, opts), remote, result)

	if opts.OverwriteMode {
		uc.archiveOrphans(ctx, workflow, client, records, result)
	}

	for _, action := range candidates {
		if err := ctx.Err(); err != nil {
			return result, goerr.Wrap(err, "push cancelled", goerr.V(WorkflowIDKey, workflow.ID))
		}

		result.ItemsProcessed++
		uc.pushAction(ctx, workflow, mapper, users, client, action, opts.OverwriteMode, result)
	}

	return result, nil
}

func (uc *PushUseCase) selectCandidates(ctx context.Context, workflow *model.Workflow, opts *PushOptions, result *model.SyncResult) ([]*model.Action, error) {
	if len(opts.ActionIDs) > 0 {
		candidates := make([]*model.Action, 0, len(opts.ActionIDs))
		for _, id := range opts.ActionIDs {
			action, err := uc.repo.Action().Get(ctx, id)
			if err != nil {
				result.ItemsFailedToSync++
				result.SkipReasons = append(result.SkipReasons,
					fmt.Sprintf("action %d: not found", id))
				continue
			}
			candidates = append(candidates, action)
		}
		return candidates, nil
	}

	projectID := effectiveProjectID(workflow, opts)

	var actions []*model.Action
	var err error
	if projectID != nil {
		actions, err = uc.repo.Action().ListByProject(ctx, *projectID)
	} else {
		actions, err = uc.repo.Action().List(ctx)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list candidate actions",
			goerr.V(WorkflowIDKey, workflow.ID))
	}

	candidates := make([]*model.Action, 0, len(actions))
	for _, action := range actions {
		if action.Status == types.ActionStatusCompleted ||
			action.Status == types.ActionStatusDeleted {
			continue
		}
		// Actions imported from the provider itself are not re-exported
		// when the workflow says so.
		if workflow.SkipProviderSourced && action.Source == workflow.Provider.String() {
			continue
		}
		candidates = append(candidates, action)
	}
	return candidates, nil
}

// effectiveProjectID resolves the project scope for one invocation: an
// explicit option overrides the workflow's own binding.
func effectiveProjectID(workflow *model.Workflow, opts *PushOptions) *int64 {
	if opts.ProjectID != nil {
		return opts.ProjectID
	}
	return workflow.ProjectID
}

// markVanished transitions synced links whose external record no longer
// exists, so the push below does not treat a vanished record as current.
// Links of other scopes are invisible to this run's listing and stay
// untouched.
func (uc *PushUseCase) markVanished(ctx context.Context, workflow *model.Workflow, projectID *int64, remote map[string]bool, result *model.SyncResult) {
	links, err := uc.repo.SyncLink().ListByProvider(ctx, workflow.Provider)
	if err != nil {
		errutil.Handle(ctx, err, "failed to list sync links for remote existence check")
		return
	}

	for _, link := range links {
		if link.ScopeID != workflow.ScopeID {
			continue
		}
		if link.Status != types.SyncLinkSynced || remote[link.ExternalID] {
			continue
		}
		if projectID != nil {
			action, err := uc.repo.Action().Get(ctx, link.ActionID)
			if err != nil {
				continue
			}
			if action.ProjectID == nil || *action.ProjectID != *projectID {
				continue
			}
		}
		if err := uc.repo.SyncLink().MarkDeletedRemotely(ctx, link.ID); err != nil {
			errutil.Handle(ctx, err, "failed to mark vanished sync link")
		}
	}
}

// archiveOrphans removes external records with no active local link.
// Only meaningful in overwrite mode, where the local store is canonical.
func (uc *PushUseCase) archiveOrphans(ctx context.Context, workflow *model.Workflow, client interfaces.ProviderClient, records []*model.ExternalRecord, result *model.SyncResult) {
	for _, record := range records {
		if _, err := uc.repo.SyncLink().FindByExternalID(ctx, workflow.Provider, record.ID); err == nil {
			continue
		}
		if err := client.ArchiveRecord(ctx, record.ID); err != nil {
			result.ItemsFailedToSync++
			result.SkipReasons = append(result.SkipReasons,
				fmt.Sprintf("record %s: failed to archive orphan: %v", record.ID, err))
			errutil.Handle(ctx, err, "failed to archive orphan record")
			continue
		}
		result.ItemsDeleted++
	}
}

func (uc *PushUseCase) pushAction(ctx context.Context, workflow *model.Workflow, mapper *FieldMapper, users *UserMapper, client interfaces.ProviderClient, action *model.Action, overwrite bool, result *model.SyncResult) {
	link, err := uc.repo.SyncLink().Find(ctx, action.ID, workflow.Provider)
	if err != nil {
		uc.createRecord(ctx, workflow, mapper, users, client, action, result)
		return
	}

	switch link.Status {
	case types.SyncLinkFailed:
		// Retry as if no link existed; the new link supersedes this one.
		uc.createRecord(ctx, workflow, mapper, users, client, action, result)

	case types.SyncLinkDeletedRemotely:
		if !overwrite {
			// Terminal: recreating silently would duplicate a record the
			// user deleted on purpose.
			result.ItemsSkipped++
			result.SkipReasons = append(result.SkipReasons,
				fmt.Sprintf("action %d: deleted_remotely, not recreated without overwrite", action.ID))
			return
		}
		uc.createRecord(ctx, workflow, mapper, users, client, action, result)

	case types.SyncLinkSynced:
		if !overwrite {
			result.ItemsAlreadySynced++
			return
		}
		uc.updateRecord(ctx, workflow, mapper, users, client, action, link, result)
	}
}

func (uc *PushUseCase) createRecord(ctx context.Context, workflow *model.Workflow, mapper *FieldMapper, users *UserMapper, client interfaces.ProviderClient, action *model.Action, result *model.SyncResult) {
	properties := uc.buildProperties(ctx, workflow, mapper, users, action)

	record, err := client.CreateRecord(ctx, workflow.ScopeID, action.Name, properties)
	if err != nil {
		uc.recordFailure(ctx, workflow, action, err, result)
		return
	}

	if _, err := uc.repo.SyncLink().Upsert(ctx, &model.SyncLink{
		ActionID:   action.ID,
		Provider:   workflow.Provider,
		ScopeID:    workflow.ScopeID,
		ExternalID: record.ID,
		Status:     types.SyncLinkSynced,
	}); err != nil {
		result.ItemsFailedToSync++
		result.SkipReasons = append(result.SkipReasons,
			fmt.Sprintf("action %d: record created but link not persisted: %v", action.ID, err))
		errutil.Handle(ctx, err, "failed to persist sync link after create")
		return
	}

	result.ItemsCreated++
}

func (uc *PushUseCase) updateRecord(ctx context.Context, workflow *model.Workflow, mapper *FieldMapper, users *UserMapper, client interfaces.ProviderClient, action *model.Action, link *model.SyncLink, result *model.SyncResult) {
	properties := uc.buildProperties(ctx, workflow, mapper, users, action)

	if err := client.UpdateRecord(ctx, link.ExternalID, properties); err != nil {
		uc.recordFailure(ctx, workflow, action, err, result)
		return
	}

	if _, err := uc.repo.SyncLink().Upsert(ctx, &model.SyncLink{
		ActionID:   action.ID,
		Provider:   workflow.Provider,
		ScopeID:    workflow.ScopeID,
		ExternalID: link.ExternalID,
		Status:     types.SyncLinkSynced,
	}); err != nil {
		errutil.Handle(ctx, err, "failed to refresh sync link after update")
	}

	result.ItemsUpdated++
}

func (uc *PushUseCase) buildProperties(ctx context.Context, workflow *model.Workflow, mapper *FieldMapper, users *UserMapper, action *model.Action) map[string]any {
	var externalAssignee string
	if action.AssignedToID != nil {
		externalAssignee = users.ResolveExternal(ctx, *action.AssignedToID)
	}
	properties := mapper.BuildProperties(action, externalAssignee, workflow.ExternalProjectID)

	// The title rides the same payload; clients encode it with their
	// native property kind.
	if prop, ok := workflow.Mapping().PropertyFor(config.FieldName); ok {
		properties[prop] = model.Title(action.Name)
	}
	return properties
}

// recordFailure persists a failed link so the next push retries, and
// accounts the item without aborting the run.
func (uc *PushUseCase) recordFailure(ctx context.Context, workflow *model.Workflow, action *model.Action, cause error, result *model.SyncResult) {
	if _, err := uc.repo.SyncLink().Upsert(ctx, &model.SyncLink{
		ActionID: action.ID,
		Provider: workflow.Provider,
		ScopeID:  workflow.ScopeID,
		Status:   types.SyncLinkFailed,
	}); err != nil {
		errutil.Handle(ctx, err, "failed to persist failed sync link")
	}

	result.ItemsFailedToSync++
	result.SkipReasons = append(result.SkipReasons,
		fmt.Sprintf("action %d: %v", action.ID, cause))
	errutil.Handle(ctx, cause, "failed to push action")
}
