package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/positonic/exponential-sync/pkg/domain/interfaces"
	"github.com/positonic/exponential-sync/pkg/domain/model"
	"github.com/positonic/exponential-sync/pkg/domain/types"
	"github.com/positonic/exponential-sync/pkg/utils/errutil"
)

// PullUseCase imports external records into the local action store.
// The remote value wins on every field diff; that is the definition of
// a pull.
type PullUseCase struct {
	repo interfaces.Repository
}

func NewPullUseCase(repo interfaces.Repository) *PullUseCase {
	return &PullUseCase{repo: repo}
}

// Run fetches every external record in the workflow's scope and
// reconciles each against the local store. Per-record failures are
// counted and the run continues; only the initial scope listing is
// fatal.
func (uc *PullUseCase) Run(ctx context.Context, workflow *model.Workflow, client interfaces.ProviderClient) (*model.SyncResult, error) {
	mapper := NewFieldMapper(workflow.Mapping())
	users := NewUserMapper(uc.repo.UserMapping(), workflow.Provider.String())
	result := &model.SyncResult{}

	var filter *model.RecordFilter
	if workflow.ExternalProjectID != "" {
		filter = &model.RecordFilter{ExternalProjectID: workflow.ExternalProjectID}
	}

	records, err := client.ListRecords(ctx, workflow.ScopeID, filter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list external records",
			goerr.V(WorkflowIDKey, workflow.ID))
	}

	seen := make(map[string]bool, len(records))
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return result, goerr.Wrap(err, "pull cancelled", goerr.V(WorkflowIDKey, workflow.ID))
		}

		seen[record.ID] = true
		result.ItemsProcessed++
		if err := uc.pullRecord(ctx, workflow, mapper, users, record, result); err != nil {
			result.ItemsFailedToSync++
			result.SkipReasons = append(result.SkipReasons,
				fmt.Sprintf("record %s: %v", record.ID, err))
			errutil.Handle(ctx, err, "failed to pull record")
		}
	}

	if workflow.Deletion() != types.DeletionPolicyIgnore {
		uc.detectDeletions(ctx, workflow, seen, result)
	}

	return result, nil
}

func (uc *PullUseCase) pullRecord(ctx context.Context, workflow *model.Workflow, mapper *FieldMapper, users *UserMapper, record *model.ExternalRecord, result *model.SyncResult) error {
	fields := mapper.ParseRecord(record)

	var assignee *string
	if fields.ExternalAssigneeID != nil {
		assignee = users.ResolveLocal(ctx, *fields.ExternalAssigneeID)
	}

	link, err := uc.repo.SyncLink().FindByExternalID(ctx, workflow.Provider, record.ID)
	if err != nil {
		return uc.createFromRecord(ctx, workflow, mapper, fields, assignee, record, result)
	}

	action, err := uc.repo.Action().Get(ctx, link.ActionID)
	if err != nil || action.Status == types.ActionStatusDeleted {
		// The local action is gone; retire the stale link and import
		// the record as new.
		if invErr := uc.repo.SyncLink().Invalidate(ctx, link.ID); invErr != nil {
			return goerr.Wrap(invErr, "failed to invalidate stale sync link",
				goerr.V(ExternalIDKey, record.ID))
		}
		return uc.createFromRecord(ctx, workflow, mapper, fields, assignee, record, result)
	}

	desired := *action
	mapper.Apply(&desired, fields)
	if fields.ExternalAssigneeID != nil {
		desired.AssignedToID = assignee
	}

	if action.SyncedFieldsEqual(&desired) {
		result.ItemsSkipped++
		return nil
	}

	if _, err := uc.repo.Action().Update(ctx, &desired); err != nil {
		return goerr.Wrap(err, "failed to update action",
			goerr.V(ActionIDKey, action.ID), goerr.V(ExternalIDKey, record.ID))
	}
	if _, err := uc.repo.SyncLink().Upsert(ctx, &model.SyncLink{
		ActionID:   action.ID,
		Provider:   workflow.Provider,
		ScopeID:    workflow.ScopeID,
		ExternalID: record.ID,
		Status:     types.SyncLinkSynced,
	}); err != nil {
		return goerr.Wrap(err, "failed to refresh sync link",
			goerr.V(ActionIDKey, action.ID), goerr.V(ExternalIDKey, record.ID))
	}

	result.ItemsUpdated++
	return nil
}

func (uc *PullUseCase) createFromRecord(ctx context.Context, workflow *model.Workflow, mapper *FieldMapper, fields *MappedFields, assignee *string, record *model.ExternalRecord, result *model.SyncResult) error {
	action := &model.Action{
		Status:    types.ActionStatusActive,
		ProjectID: workflow.ProjectID,
		Source:    workflow.Provider.String(),
	}
	mapper.Apply(action, fields)
	if fields.ExternalAssigneeID != nil {
		action.AssignedToID = assignee
	}
	if action.Name == "" {
		action.Name = record.ID
	}

	created, err := uc.repo.Action().Create(ctx, action)
	if err != nil {
		return goerr.Wrap(err, "failed to create action", goerr.V(ExternalIDKey, record.ID))
	}

	if _, err := uc.repo.SyncLink().Upsert(ctx, &model.SyncLink{
		ActionID:   created.ID,
		Provider:   workflow.Provider,
		ScopeID:    workflow.ScopeID,
		ExternalID: record.ID,
		Status:     types.SyncLinkSynced,
	}); err != nil {
		return goerr.Wrap(err, "failed to create sync link",
			goerr.V(ActionIDKey, created.ID), goerr.V(ExternalIDKey, record.ID))
	}

	result.ItemsCreated++
	return nil
}

// detectDeletions transitions local actions whose external record
// vanished. Only links currently in synced state are considered; failed
// and deleted_remotely links carry no claim that the record exists. A
// link whose record lives in a different scope is invisible to this
// run's listing and must never be touched.
func (uc *PullUseCase) detectDeletions(ctx context.Context, workflow *model.Workflow, seen map[string]bool, result *model.SyncResult) {
	links, err := uc.repo.SyncLink().ListByProvider(ctx, workflow.Provider)
	if err != nil {
		errutil.Handle(ctx, err, "failed to list sync links for deletion detection")
		return
	}

	target := types.ActionStatusDeleted
	if workflow.Deletion() == types.DeletionPolicyArchive {
		target = types.ActionStatusCancelled
	}

	for _, link := range links {
		if link.ScopeID != workflow.ScopeID {
			continue
		}
		if link.Status != types.SyncLinkSynced || seen[link.ExternalID] {
			continue
		}

		action, err := uc.repo.Action().Get(ctx, link.ActionID)
		if err != nil {
			continue
		}
		if !uc.inScope(workflow, action) {
			continue
		}

		if action.Status != target {
			action.Status = target
			if _, err := uc.repo.Action().Update(ctx, action); err != nil {
				errutil.Handle(ctx, err, "failed to transition action for remote deletion")
				continue
			}
		}
		if err := uc.repo.SyncLink().MarkDeletedRemotely(ctx, link.ID); err != nil {
			errutil.Handle(ctx, err, "failed to mark sync link deleted remotely")
			continue
		}
		result.ItemsDeleted++
	}
}

// inScope restricts deletion detection to the workflow's own project
// when one is configured, so two workflows sharing one scope with
// different project filters never touch each other's actions.
func (uc *PullUseCase) inScope(workflow *model.Workflow, action *model.Action) bool {
	if workflow.ProjectID == nil {
		return true
	}
	return action.ProjectID != nil && *action.ProjectID == *workflow.ProjectID
}
