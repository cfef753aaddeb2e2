package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/positonic/exponential-sync/pkg/domain/model"
	"google.golang.org/api/iterator"
)

type workflowRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newWorkflowRepository(client *firestore.Client) *workflowRepository {
	return &workflowRepository{client: client}
}

func (r *workflowRepository) workflowsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_workflows"
	}
	return "workflows"
}

func (r *workflowRepository) Put(ctx context.Context, workflow *model.Workflow) (*model.Workflow, error) {
	if err := workflow.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid workflow")
	}

	now := time.Now().UTC()
	stored := *workflow
	stored.UpdatedAt = now

	docRef := r.client.Collection(r.workflowsCollection()).Doc(workflow.ID)
	snap, err := docRef.Get(ctx)
	switch {
	case err == nil:
		var existing model.Workflow
		if err := snap.DataTo(&existing); err != nil {
			return nil, goerr.Wrap(err, "failed to decode workflow", goerr.V("id", workflow.ID))
		}
		stored.CreatedAt = existing.CreatedAt
	case isNotFound(err):
		stored.CreatedAt = now
	default:
		return nil, goerr.Wrap(err, "failed to check workflow existence", goerr.V("id", workflow.ID))
	}

	if _, err := docRef.Set(ctx, &stored); err != nil {
		return nil, goerr.Wrap(err, "failed to put workflow", goerr.V("id", workflow.ID))
	}

	return &stored, nil
}

func (r *workflowRepository) Get(ctx context.Context, id string) (*model.Workflow, error) {
	docSnap, err := r.client.Collection(r.workflowsCollection()).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "workflow not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get workflow", goerr.V("id", id))
	}

	var w model.Workflow
	if err := docSnap.DataTo(&w); err != nil {
		return nil, goerr.Wrap(err, "failed to decode workflow", goerr.V("id", id))
	}

	return &w, nil
}

func (r *workflowRepository) List(ctx context.Context) ([]*model.Workflow, error) {
	iter := r.client.Collection(r.workflowsCollection()).Documents(ctx)
	defer iter.Stop()

	workflows := make([]*model.Workflow, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate workflows")
		}

		var w model.Workflow
		if err := docSnap.DataTo(&w); err != nil {
			return nil, goerr.Wrap(err, "failed to decode workflow", goerr.V("doc_id", docSnap.Ref.ID))
		}

		workflows = append(workflows, &w)
	}

	return workflows, nil
}
