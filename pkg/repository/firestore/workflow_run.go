package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/positonic/exponential-sync/pkg/domain/model"
	"google.golang.org/api/iterator"
)

type workflowRunRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newWorkflowRunRepository(client *firestore.Client) *workflowRunRepository {
	return &workflowRunRepository{client: client}
}

func (r *workflowRunRepository) runsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_workflow_runs"
	}
	return "workflow_runs"
}

func (r *workflowRunRepository) Create(ctx context.Context, run *model.WorkflowRun) (*model.WorkflowRun, error) {
	if run.ID == "" {
		return nil, goerr.New("workflow run ID is required")
	}
	if !run.Status.IsValid() {
		return nil, goerr.New("invalid run status", goerr.V("status", run.Status))
	}

	created := *run
	docRef := r.client.Collection(r.runsCollection()).Doc(created.ID)
	if _, err := docRef.Create(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create workflow run", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *workflowRunRepository) Get(ctx context.Context, id string) (*model.WorkflowRun, error) {
	docSnap, err := r.client.Collection(r.runsCollection()).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "workflow run not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get workflow run", goerr.V("id", id))
	}

	var run model.WorkflowRun
	if err := docSnap.DataTo(&run); err != nil {
		return nil, goerr.Wrap(err, "failed to decode workflow run", goerr.V("id", id))
	}

	return &run, nil
}

func (r *workflowRunRepository) ListByWorkflow(ctx context.Context, workflowID string) ([]*model.WorkflowRun, error) {
	iter := r.client.Collection(r.runsCollection()).
		Where("WorkflowID", "==", workflowID).
		OrderBy("StartedAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	runs := make([]*model.WorkflowRun, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate workflow runs", goerr.V("workflow_id", workflowID))
		}

		var run model.WorkflowRun
		if err := docSnap.DataTo(&run); err != nil {
			return nil, goerr.Wrap(err, "failed to decode workflow run", goerr.V("doc_id", docSnap.Ref.ID))
		}

		runs = append(runs, &run)
	}

	return runs, nil
}

func (r *workflowRunRepository) Update(ctx context.Context, run *model.WorkflowRun) (*model.WorkflowRun, error) {
	docRef := r.client.Collection(r.runsCollection()).Doc(run.ID)

	snap, err := docRef.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "workflow run not found", goerr.V("id", run.ID))
		}
		return nil, goerr.Wrap(err, "failed to check workflow run existence", goerr.V("id", run.ID))
	}

	var existing model.WorkflowRun
	if err := snap.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to decode workflow run", goerr.V("id", run.ID))
	}

	// A finalized run must not be finalized again
	if existing.Status.IsTerminal() {
		return nil, goerr.New("workflow run already finalized",
			goerr.V("id", run.ID), goerr.V("status", existing.Status))
	}

	updated := *run
	updated.StartedAt = existing.StartedAt

	if _, err := docRef.Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update workflow run", goerr.V("id", run.ID))
	}

	return &updated, nil
}
