package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/positonic/exponential-sync/pkg/domain/interfaces"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = goerr.New("record not found")

type Firestore struct {
	client      *firestore.Client
	action      *actionRepository
	syncLink    *syncLinkRepository
	project     *projectRepository
	workflow    *workflowRepository
	workflowRun *workflowRunRepository
	userMapping *userMappingRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces every collection, used to isolate test
// data in a shared project.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.action.collectionPrefix = prefix
		f.syncLink.collectionPrefix = prefix
		f.project.collectionPrefix = prefix
		f.workflow.collectionPrefix = prefix
		f.workflowRun.collectionPrefix = prefix
		f.userMapping.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:      client,
		action:      newActionRepository(client),
		syncLink:    newSyncLinkRepository(client),
		project:     newProjectRepository(client),
		workflow:    newWorkflowRepository(client),
		workflowRun: newWorkflowRunRepository(client),
		userMapping: newUserMappingRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Action() interfaces.ActionRepository {
	return f.action
}

func (f *Firestore) SyncLink() interfaces.SyncLinkRepository {
	return f.syncLink
}

func (f *Firestore) Project() interfaces.ProjectRepository {
	return f.project
}

func (f *Firestore) Workflow() interfaces.WorkflowRepository {
	return f.workflow
}

func (f *Firestore) WorkflowRun() interfaces.WorkflowRunRepository {
	return f.workflowRun
}

func (f *Firestore) UserMapping() interfaces.UserMappingRepository {
	return f.userMapping
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// nextCounterValue allocates the next int64 ID for a counter document,
// creating the counter on first use.
func nextCounterValue(ctx context.Context, client *firestore.Client, collection, doc string) (int64, error) {
	counterRef := client.Collection(collection).Doc(doc)

	var nextID int64
	err := client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(counterRef)
		if err != nil {
			if isNotFound(err) {
				nextID = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": nextID,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		currentValue, err := snap.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}

		val, ok := currentValue.(int64)
		if !ok {
			return goerr.New("counter value is not of type int64", goerr.V("value", currentValue))
		}
		nextID = val + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: nextID},
		})
	})

	if err != nil {
		return 0, goerr.Wrap(err, "failed to get next ID", goerr.V("counter", doc))
	}

	return nextID, nil
}
