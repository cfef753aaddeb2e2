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

func seedAction(t *testing.T, repo *memory.Memory, name string) *model.Action {
	t.Helper()
	created := gt.R1(repo.Action().Create(context.Background(), &model.Action{
		Name:   name,
		Status: types.ActionStatusActive,
	})).NoError(t)
	return created
}

func TestPushCreatesThenAlreadySynced(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	fake := newFakeProvider()
	push := usecase.NewPushUseCase(repo)
	workflow := testWorkflow()

	seedAction(t, repo, "Draft proposal")
	seedAction(t, repo, "Book venue")

	result := gt.R1(push.Run(ctx, workflow, fake, nil)).NoError(t)
	gt.Value(t, result.ItemsCreated).Equal(2)
	gt.Value(t, result.ItemsFailedToSync).Equal(0)

	// Unchanged state: the second run creates nothing and reports every
	// item as already synced
	again := gt.R1(push.Run(ctx, workflow, fake, nil)).NoError(t)
	gt.Value(t, again.ItemsCreated).Equal(0)
	gt.Value(t, again.ItemsAlreadySynced).Equal(2)
	gt.Value(t, fake.createCalls).Equal(2)
}

func TestPushPerItemIsolation(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	fake := newFakeProvider()
	fake.failCreateTitles["Cursed task"] = true
	push := usecase.NewPushUseCase(repo)
	workflow := testWorkflow()

	seedAction(t, repo, "First task")
	cursed := seedAction(t, repo, "Cursed task")
	seedAction(t, repo, "Third task")

	result := gt.R1(push.Run(ctx, workflow, fake, nil)).NoError(t)
	gt.Value(t, result.ItemsCreated).Equal(2)
	gt.Value(t, result.ItemsFailedToSync).Equal(1)
	gt.Array(t, result.SkipReasons).Length(1)

	link := gt.R1(repo.SyncLink().Find(ctx, cursed.ID, types.ProviderNotion)).NoError(t)
	gt.Value(t, link.Status).Equal(types.SyncLinkFailed)

	// A failed link is retry eligible: once the provider accepts the
	// item, the next push creates it
	delete(fake.failCreateTitles, "Cursed task")
	retry := gt.R1(push.Run(ctx, workflow, fake, nil)).NoError(t)
	gt.Value(t, retry.ItemsCreated).Equal(1)
	gt.Value(t, retry.ItemsAlreadySynced).Equal(2)

	retried := gt.R1(repo.SyncLink().Find(ctx, cursed.ID, types.ProviderNotion)).NoError(t)
	gt.Value(t, retried.Status).Equal(types.SyncLinkSynced)
}

func TestPushNeverResurrectsWithoutOverwrite(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	fake := newFakeProvider()
	push := usecase.NewPushUseCase(repo)
	workflow := testWorkflow()

	action := seedAction(t, repo, "Deleted externally")
	gt.R1(push.Run(ctx, workflow, fake, nil)).NoError(t)

	link := gt.R1(repo.SyncLink().Find(ctx, action.ID, types.ProviderNotion)).NoError(t)
	fake.removeRecord(link.ExternalID)

	// The pre-pass marks the vanished record; the item is terminally
	// skipped, never silently recreated
	result := gt.R1(push.Run(ctx, workflow, fake, nil)).NoError(t)
	gt.Value(t, result.ItemsCreated).Equal(0)
	gt.Value(t, result.ItemsSkipped).Equal(1)
	gt.Array(t, result.SkipReasons).Length(1)
	gt.B(t, strings.Contains(result.SkipReasons[0], "deleted_remotely")).True()
	gt.Value(t, fake.createCalls).Equal(1)

	marked := gt.R1(repo.SyncLink().Find(ctx, action.ID, types.ProviderNotion)).NoError(t)
	gt.Value(t, marked.Status).Equal(types.SyncLinkDeletedRemotely)

	// Still skipped on the run after that
	again := gt.R1(push.Run(ctx, workflow, fake, nil)).NoError(t)
	gt.Value(t, again.ItemsSkipped).Equal(1)
	gt.Value(t, fake.createCalls).Equal(1)
}

func TestPushOverwriteRecreatesDeletedRemotely(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	fake := newFakeProvider()
	push := usecase.NewPushUseCase(repo)
	workflow := testWorkflow()

	action := seedAction(t, repo, "Canonical task")
	gt.R1(push.Run(ctx, workflow, fake, nil)).NoError(t)
	link := gt.R1(repo.SyncLink().Find(ctx, action.ID, types.ProviderNotion)).NoError(t)
	fake.removeRecord(link.ExternalID)

	result := gt.R1(push.Run(ctx, workflow, fake, &usecase.PushOptions{OverwriteMode: true})).NoError(t)
	gt.Value(t, result.ItemsCreated).Equal(1)

	recreated := gt.R1(repo.SyncLink().Find(ctx, action.ID, types.ProviderNotion)).NoError(t)
	gt.Value(t, recreated.Status).Equal(types.SyncLinkSynced)
	gt.Value(t, recreated.ExternalID).NotEqual(link.ExternalID)
}

func TestPushOverwriteUpdatesAndArchivesOrphans(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	fake := newFakeProvider()
	fake.addRecord("orphan-1", "Nobody owns me", nil)
	push := usecase.NewPushUseCase(repo)
	workflow := testWorkflow()

	first := seedAction(t, repo, "First")
	seedAction(t, repo, "Second")

	// First is already synced, Second is new
	gt.R1(push.Run(ctx, workflow, fake, &usecase.PushOptions{ActionIDs: []int64{first.ID}})).NoError(t)

	result := gt.R1(push.Run(ctx, workflow, fake, &usecase.PushOptions{OverwriteMode: true})).NoError(t)
	gt.Value(t, result.ItemsDeleted).Equal(1)
	gt.Value(t, result.ItemsCreated).Equal(1)
	gt.Value(t, result.ItemsUpdated).Equal(1)
	gt.Array(t, fake.archivedIDs).Length(1)
	gt.Value(t, fake.archivedIDs[0]).Equal("orphan-1")
}

func TestPushSelectionFilters(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	fake := newFakeProvider()
	push := usecase.NewPushUseCase(repo)

	seedAction(t, repo, "Active task")

	gt.R1(repo.Action().Create(ctx, &model.Action{
		Name:   "Done already",
		Status: types.ActionStatusCompleted,
	})).NoError(t)

	gt.R1(repo.Action().Create(ctx, &model.Action{
		Name:   "Imported from Notion",
		Status: types.ActionStatusActive,
		Source: "notion",
	})).NoError(t)

	workflow := testWorkflow()
	workflow.SkipProviderSourced = true

	result := gt.R1(push.Run(ctx, workflow, fake, nil)).NoError(t)
	gt.Value(t, result.ItemsProcessed).Equal(1)
	gt.Value(t, result.ItemsCreated).Equal(1)
}

func TestPushExplicitActionIDs(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	fake := newFakeProvider()
	push := usecase.NewPushUseCase(repo)
	workflow := testWorkflow()

	wanted := seedAction(t, repo, "Wanted")
	seedAction(t, repo, "Not selected")

	result := gt.R1(push.Run(ctx, workflow, fake, &usecase.PushOptions{
		ActionIDs: []int64{wanted.ID, 9999},
	})).NoError(t)
	gt.Value(t, result.ItemsCreated).Equal(1)
	gt.Value(t, result.ItemsFailedToSync).Equal(1)
	gt.Array(t, result.SkipReasons).Length(1)
}

func TestPushProjectScope(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	fake := newFakeProvider()
	push := usecase.NewPushUseCase(repo)

	projectID := int64(7)
	gt.R1(repo.Action().Create(ctx, &model.Action{
		Name:      "In project",
		Status:    types.ActionStatusActive,
		ProjectID: &projectID,
	})).NoError(t)
	seedAction(t, repo, "Outside project")

	workflow := testWorkflow()
	workflow.ProjectID = &projectID

	result := gt.R1(push.Run(ctx, workflow, fake, nil)).NoError(t)
	gt.Value(t, result.ItemsProcessed).Equal(1)
	gt.Value(t, result.ItemsCreated).Equal(1)
}

func TestPushVanishedScopedToOwnBoard(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	push := usecase.NewPushUseCase(repo)

	wfA := testWorkflow()
	wfB := &model.Workflow{
		ID:        "wf-2",
		Name:      "Second board",
		Provider:  types.ProviderNotion,
		Direction: types.SyncDirectionBidirectional,
		ScopeID:   "db-2",
	}

	fakeA := newFakeProvider()
	fakeB := newFakeProvider()

	a := seedAction(t, repo, "Board A task")
	b := seedAction(t, repo, "Board B task")

	gt.R1(push.Run(ctx, wfA, fakeA, &usecase.PushOptions{ActionIDs: []int64{a.ID}})).NoError(t)
	gt.R1(push.Run(ctx, wfB, fakeB, &usecase.PushOptions{ActionIDs: []int64{b.ID}})).NoError(t)

	// b's record exists on board B only; pushing board A again must not
	// conclude it vanished
	gt.R1(push.Run(ctx, wfA, fakeA, &usecase.PushOptions{ActionIDs: []int64{a.ID}})).NoError(t)

	linkA := gt.R1(repo.SyncLink().Find(ctx, a.ID, types.ProviderNotion)).NoError(t)
	gt.Value(t, linkA.Status).Equal(types.SyncLinkSynced)
	linkB := gt.R1(repo.SyncLink().Find(ctx, b.ID, types.ProviderNotion)).NoError(t)
	gt.Value(t, linkB.Status).Equal(types.SyncLinkSynced)
}

func TestPushProjectOverrideScopesVanishedCheck(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	fake := newFakeProvider()
	push := usecase.NewPushUseCase(repo)
	workflow := testWorkflow()

	seven := int64(7)
	eight := int64(8)
	inSeven := gt.R1(repo.Action().Create(ctx, &model.Action{
		Name:      "Project seven task",
		Status:    types.ActionStatusActive,
		ProjectID: &seven,
	})).NoError(t)
	inEight := gt.R1(repo.Action().Create(ctx, &model.Action{
		Name:      "Project eight task",
		Status:    types.ActionStatusActive,
		ProjectID: &eight,
	})).NoError(t)

	gt.R1(push.Run(ctx, workflow, fake, nil)).NoError(t)

	linkSeven := gt.R1(repo.SyncLink().Find(ctx, inSeven.ID, types.ProviderNotion)).NoError(t)
	linkEight := gt.R1(repo.SyncLink().Find(ctx, inEight.ID, types.ProviderNotion)).NoError(t)
	fake.removeRecord(linkSeven.ExternalID)
	fake.removeRecord(linkEight.ExternalID)

	// The project override narrows the vanished check the same way it
	// narrows candidate selection
	result := gt.R1(push.Run(ctx, workflow, fake, &usecase.PushOptions{
		ProjectID: &seven,
	})).NoError(t)
	gt.Value(t, result.ItemsSkipped).Equal(1)

	afterSeven := gt.R1(repo.SyncLink().Find(ctx, inSeven.ID, types.ProviderNotion)).NoError(t)
	gt.Value(t, afterSeven.Status).Equal(types.SyncLinkDeletedRemotely)
	afterEight := gt.R1(repo.SyncLink().Find(ctx, inEight.ID, types.ProviderNotion)).NoError(t)
	gt.Value(t, afterEight.Status).Equal(types.SyncLinkSynced)
}
