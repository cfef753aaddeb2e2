package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/positonic/exponential-sync/pkg/domain/model"
	"github.com/positonic/exponential-sync/pkg/domain/types"
	"github.com/positonic/exponential-sync/pkg/repository/memory"
	"github.com/positonic/exponential-sync/pkg/usecase"
)

func TestPullCreatesThenNoOps(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	fake := newFakeProvider()
	fake.addRecord("rec-1", "Write report", nil)
	fake.addRecord("rec-2", "Review budget", nil)

	pull := usecase.NewPullUseCase(repo)
	workflow := testWorkflow()

	result := gt.R1(pull.Run(ctx, workflow, fake)).NoError(t)
	gt.Value(t, result.ItemsCreated).Equal(2)
	gt.Value(t, result.ItemsUpdated).Equal(0)

	actions := gt.R1(repo.Action().List(ctx)).NoError(t)
	gt.Array(t, actions).Length(2)
	for _, action := range actions {
		gt.Value(t, action.Status).Equal(types.ActionStatusActive)
		gt.Value(t, action.Source).Equal("notion")
	}

	link := gt.R1(repo.SyncLink().FindByExternalID(ctx, types.ProviderNotion, "rec-1")).NoError(t)
	gt.Value(t, link.Status).Equal(types.SyncLinkSynced)

	// No remote changes: second pull is a pure no-op
	again := gt.R1(pull.Run(ctx, workflow, fake)).NoError(t)
	gt.Value(t, again.ItemsCreated).Equal(0)
	gt.Value(t, again.ItemsUpdated).Equal(0)
	gt.Value(t, again.ItemsSkipped).Equal(2)
}

func TestPullUpdatesOnRemoteChange(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	fake := newFakeProvider()
	fake.addRecord("rec-1", "Write report", nil)

	pull := usecase.NewPullUseCase(repo)
	workflow := testWorkflow()

	gt.R1(pull.Run(ctx, workflow, fake)).NoError(t)

	fake.record("rec-1").Title = "Write quarterly report"

	result := gt.R1(pull.Run(ctx, workflow, fake)).NoError(t)
	gt.Value(t, result.ItemsUpdated).Equal(1)
	gt.Value(t, result.ItemsCreated).Equal(0)

	link := gt.R1(repo.SyncLink().FindByExternalID(ctx, types.ProviderNotion, "rec-1")).NoError(t)
	action := gt.R1(repo.Action().Get(ctx, link.ActionID)).NoError(t)
	gt.Value(t, action.Name).Equal("Write quarterly report")
}

func TestPullDeletionDetection(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	fake := newFakeProvider()
	fake.addRecord("rec-1", "Keep me", nil)
	fake.addRecord("rec-2", "Delete me", nil)

	pull := usecase.NewPullUseCase(repo)
	workflow := testWorkflow()

	gt.R1(pull.Run(ctx, workflow, fake)).NoError(t)

	deletedLink := gt.R1(repo.SyncLink().FindByExternalID(ctx, types.ProviderNotion, "rec-2")).NoError(t)
	fake.removeRecord("rec-2")

	result := gt.R1(pull.Run(ctx, workflow, fake)).NoError(t)
	gt.Value(t, result.ItemsDeleted).Equal(1)

	action := gt.R1(repo.Action().Get(ctx, deletedLink.ActionID)).NoError(t)
	gt.Value(t, action.Status).Equal(types.ActionStatusDeleted)

	refreshed := gt.R1(repo.SyncLink().Find(ctx, deletedLink.ActionID, types.ProviderNotion)).NoError(t)
	gt.Value(t, refreshed.Status).Equal(types.SyncLinkDeletedRemotely)

	// The surviving record's link is untouched
	kept := gt.R1(repo.SyncLink().FindByExternalID(ctx, types.ProviderNotion, "rec-1")).NoError(t)
	gt.Value(t, kept.Status).Equal(types.SyncLinkSynced)
}

func TestPullDeletionPolicies(t *testing.T) {
	testCases := map[string]struct {
		policy     types.DeletionPolicy
		wantStatus types.ActionStatus
		wantCount  int
	}{
		"mark_deleted": {
			policy:     types.DeletionPolicyMarkDeleted,
			wantStatus: types.ActionStatusDeleted,
			wantCount:  1,
		},
		"archive": {
			policy:     types.DeletionPolicyArchive,
			wantStatus: types.ActionStatusCancelled,
			wantCount:  1,
		},
		"ignore": {
			policy:     types.DeletionPolicyIgnore,
			wantStatus: types.ActionStatusActive,
			wantCount:  0,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := memory.New()
			fake := newFakeProvider()
			fake.addRecord("rec-1", "Task", nil)

			pull := usecase.NewPullUseCase(repo)
			workflow := testWorkflow()
			workflow.DeletionPolicy = tc.policy

			gt.R1(pull.Run(ctx, workflow, fake)).NoError(t)
			link := gt.R1(repo.SyncLink().FindByExternalID(ctx, types.ProviderNotion, "rec-1")).NoError(t)
			fake.removeRecord("rec-1")

			result := gt.R1(pull.Run(ctx, workflow, fake)).NoError(t)
			gt.Value(t, result.ItemsDeleted).Equal(tc.wantCount)

			action := gt.R1(repo.Action().Get(ctx, link.ActionID)).NoError(t)
			gt.Value(t, action.Status).Equal(tc.wantStatus)
		})
	}
}

func TestPullAssigneeResolution(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	gt.R1(repo.UserMapping().Put(ctx, &model.UserMapping{
		IntegrationID:  "notion",
		ExternalUserID: "notion-user-1",
		LocalUserID:    "alice",
	})).NoError(t)

	fake := newFakeProvider()
	fake.addRecord("rec-1", "Mapped assignee", map[string]any{"Assignee": "notion-user-1"})
	fake.addRecord("rec-2", "Unmapped assignee", map[string]any{"Assignee": "notion-user-2"})

	pull := usecase.NewPullUseCase(repo)
	result := gt.R1(pull.Run(ctx, testWorkflow(), fake)).NoError(t)
	gt.Value(t, result.ItemsCreated).Equal(2)
	gt.Value(t, result.ItemsFailedToSync).Equal(0)

	mapped := gt.R1(repo.SyncLink().FindByExternalID(ctx, types.ProviderNotion, "rec-1")).NoError(t)
	action := gt.R1(repo.Action().Get(ctx, mapped.ActionID)).NoError(t)
	gt.Value(t, action.AssignedToID).NotNil()
	gt.Value(t, *action.AssignedToID).Equal("alice")

	// Unmapped external user syncs unassigned, never errors
	unmapped := gt.R1(repo.SyncLink().FindByExternalID(ctx, types.ProviderNotion, "rec-2")).NoError(t)
	unassigned := gt.R1(repo.Action().Get(ctx, unmapped.ActionID)).NoError(t)
	gt.Value(t, unassigned.AssignedToID).Nil()
}

func TestPullRecreatesAfterLocalDelete(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	fake := newFakeProvider()
	fake.addRecord("rec-1", "Resilient task", nil)

	pull := usecase.NewPullUseCase(repo)
	workflow := testWorkflow()

	gt.R1(pull.Run(ctx, workflow, fake)).NoError(t)
	oldLink := gt.R1(repo.SyncLink().FindByExternalID(ctx, types.ProviderNotion, "rec-1")).NoError(t)

	action := gt.R1(repo.Action().Get(ctx, oldLink.ActionID)).NoError(t)
	action.Status = types.ActionStatusDeleted
	gt.R1(repo.Action().Update(ctx, action)).NoError(t)

	result := gt.R1(pull.Run(ctx, workflow, fake)).NoError(t)
	gt.Value(t, result.ItemsCreated).Equal(1)

	newLink := gt.R1(repo.SyncLink().FindByExternalID(ctx, types.ProviderNotion, "rec-1")).NoError(t)
	gt.Value(t, newLink.ActionID).NotEqual(oldLink.ActionID)

	recreated := gt.R1(repo.Action().Get(ctx, newLink.ActionID)).NoError(t)
	gt.Value(t, recreated.Status).Equal(types.ActionStatusActive)
	gt.Value(t, recreated.Name).Equal("Resilient task")
}

func TestPullCompositeScenario(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	fake := newFakeProvider()
	fake.addRecord("rec-a", "Task A", nil)
	fake.addRecord("rec-c", "Task C", nil)

	pull := usecase.NewPullUseCase(repo)
	workflow := testWorkflow()

	// Seed: A and C synced previously
	gt.R1(pull.Run(ctx, workflow, fake)).NoError(t)

	// B appears, C's backing record is deleted, A is unchanged
	fake.addRecord("rec-b", "Task B", nil)
	fake.removeRecord("rec-c")

	result := gt.R1(pull.Run(ctx, workflow, fake)).NoError(t)
	gt.Value(t, result.ItemsCreated).Equal(1)
	gt.Value(t, result.ItemsUpdated).Equal(0)
	gt.Value(t, result.ItemsSkipped).Equal(1)
	gt.Value(t, result.ItemsDeleted).Equal(1)
}

func TestPullPerRecordFailureIsolation(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	fake := newFakeProvider()
	fake.addRecord("rec-1", "Fine", nil)
	// A record that maps to an empty action still imports under its ID
	fake.addRecord("rec-2", "", nil)

	pull := usecase.NewPullUseCase(repo)
	result := gt.R1(pull.Run(ctx, testWorkflow(), fake)).NoError(t)
	gt.Value(t, result.ItemsCreated).Equal(2)

	link := gt.R1(repo.SyncLink().FindByExternalID(ctx, types.ProviderNotion, "rec-2")).NoError(t)
	action := gt.R1(repo.Action().Get(ctx, link.ActionID)).NoError(t)
	gt.B(t, strings.TrimSpace(action.Name) != "").True()
}

func TestPullListFailureIsFatal(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	fake := newFakeProvider()
	fake.failListCalls = 1

	pull := usecase.NewPullUseCase(repo)
	_, err := pull.Run(ctx, testWorkflow(), fake)
	gt.Error(t, err)
}

func TestPullDeletionScopedToOwnBoard(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	pull := usecase.NewPullUseCase(repo)

	wfA := testWorkflow()
	wfB := &model.Workflow{
		ID:        "wf-2",
		Name:      "Second board",
		Provider:  types.ProviderNotion,
		Direction: types.SyncDirectionBidirectional,
		ScopeID:   "db-2",
	}

	fakeA := newFakeProvider()
	fakeA.addRecord("rec-a", "Board A task", nil)
	fakeB := newFakeProvider()
	fakeB.addRecord("rec-b", "Board B task", nil)

	gt.R1(pull.Run(ctx, wfA, fakeA)).NoError(t)
	gt.R1(pull.Run(ctx, wfB, fakeB)).NoError(t)

	// rec-b never appears in board A's listing, but it lives on another
	// board: pulling board A again must not declare it deleted
	again := gt.R1(pull.Run(ctx, wfA, fakeA)).NoError(t)
	gt.Value(t, again.ItemsDeleted).Equal(0)

	linkB := gt.R1(repo.SyncLink().FindByExternalID(ctx, types.ProviderNotion, "rec-b")).NoError(t)
	gt.Value(t, linkB.Status).Equal(types.SyncLinkSynced)
	actionB := gt.R1(repo.Action().Get(ctx, linkB.ActionID)).NoError(t)
	gt.Value(t, actionB.Status).Equal(types.ActionStatusActive)

	// A genuine deletion on board A still fires, still without crossing
	// into board B
	fakeA.removeRecord("rec-a")
	afterDelete := gt.R1(pull.Run(ctx, wfA, fakeA)).NoError(t)
	gt.Value(t, afterDelete.ItemsDeleted).Equal(1)

	untouched := gt.R1(repo.SyncLink().FindByExternalID(ctx, types.ProviderNotion, "rec-b")).NoError(t)
	gt.Value(t, untouched.Status).Equal(types.SyncLinkSynced)
}
