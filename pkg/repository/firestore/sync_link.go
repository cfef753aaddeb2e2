package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/positonic/exponential-sync/pkg/domain/model"
	"github.com/positonic/exponential-sync/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type syncLinkRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSyncLinkRepository(client *firestore.Client) *syncLinkRepository {
	return &syncLinkRepository{client: client}
}

func (r *syncLinkRepository) linksCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_sync_links"
	}
	return "sync_links"
}

func (r *syncLinkRepository) counterCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_counters"
	}
	return "counters"
}

func (r *syncLinkRepository) queryOne(ctx context.Context, q firestore.Query) (*model.SyncLink, error) {
	iter := q.Limit(1).Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query sync links")
	}

	var link model.SyncLink
	if err := docSnap.DataTo(&link); err != nil {
		return nil, goerr.Wrap(err, "failed to decode sync link", goerr.V("doc_id", docSnap.Ref.ID))
	}
	return &link, nil
}

func (r *syncLinkRepository) Find(ctx context.Context, actionID int64, provider types.Provider) (*model.SyncLink, error) {
	link, err := r.queryOne(ctx, r.client.Collection(r.linksCollection()).
		Where("ActionID", "==", actionID).
		Where("Provider", "==", provider.String()).
		Where("Invalidated", "==", false))
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, goerr.Wrap(ErrNotFound, "sync link not found",
			goerr.V("action_id", actionID), goerr.V("provider", provider))
	}
	return link, nil
}

func (r *syncLinkRepository) FindByExternalID(ctx context.Context, provider types.Provider, externalID string) (*model.SyncLink, error) {
	link, err := r.queryOne(ctx, r.client.Collection(r.linksCollection()).
		Where("Provider", "==", provider.String()).
		Where("ExternalID", "==", externalID).
		Where("Invalidated", "==", false))
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, goerr.Wrap(ErrNotFound, "sync link not found",
			goerr.V("provider", provider), goerr.V("external_id", externalID))
	}
	return link, nil
}

func (r *syncLinkRepository) ListByProvider(ctx context.Context, provider types.Provider) ([]*model.SyncLink, error) {
	iter := r.client.Collection(r.linksCollection()).
		Where("Provider", "==", provider.String()).
		Where("Invalidated", "==", false).
		Documents(ctx)
	defer iter.Stop()

	links := make([]*model.SyncLink, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate sync links", goerr.V("provider", provider))
		}

		var link model.SyncLink
		if err := docSnap.DataTo(&link); err != nil {
			return nil, goerr.Wrap(err, "failed to decode sync link", goerr.V("doc_id", docSnap.Ref.ID))
		}

		links = append(links, &link)
	}

	return links, nil
}

func (r *syncLinkRepository) Upsert(ctx context.Context, link *model.SyncLink) (*model.SyncLink, error) {
	if !link.Status.IsValid() {
		return nil, goerr.New("invalid sync link status", goerr.V("status", link.Status))
	}

	// Supersede any prior active link for the same (action, provider)
	prior, err := r.queryOne(ctx, r.client.Collection(r.linksCollection()).
		Where("ActionID", "==", link.ActionID).
		Where("Provider", "==", link.Provider.String()).
		Where("Invalidated", "==", false))
	if err != nil {
		return nil, err
	}
	if prior != nil {
		if err := r.Invalidate(ctx, prior.ID); err != nil {
			return nil, goerr.Wrap(err, "failed to supersede prior sync link", goerr.V("id", prior.ID))
		}
	}

	nextID, err := nextCounterValue(ctx, r.client, r.counterCollection(), "sync_link_counter")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get next sync link ID")
	}

	created := *link
	created.ID = nextID
	created.Invalidated = false
	created.UpdatedAt = time.Now().UTC()

	docID := fmt.Sprintf("%d", created.ID)
	if _, err := r.client.Collection(r.linksCollection()).Doc(docID).Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create sync link", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *syncLinkRepository) MarkDeletedRemotely(ctx context.Context, id int64) error {
	docID := fmt.Sprintf("%d", id)
	docRef := r.client.Collection(r.linksCollection()).Doc(docID)

	if _, err := docRef.Get(ctx); err != nil {
		if isNotFound(err) {
			return goerr.Wrap(ErrNotFound, "sync link not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to check sync link existence", goerr.V("id", id))
	}

	if _, err := docRef.Update(ctx, []firestore.Update{
		{Path: "Status", Value: types.SyncLinkDeletedRemotely.String()},
		{Path: "UpdatedAt", Value: time.Now().UTC()},
	}); err != nil {
		return goerr.Wrap(err, "failed to mark sync link deleted remotely", goerr.V("id", id))
	}

	return nil
}

func (r *syncLinkRepository) Invalidate(ctx context.Context, id int64) error {
	docID := fmt.Sprintf("%d", id)
	docRef := r.client.Collection(r.linksCollection()).Doc(docID)

	if _, err := docRef.Get(ctx); err != nil {
		if isNotFound(err) {
			return goerr.Wrap(ErrNotFound, "sync link not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to check sync link existence", goerr.V("id", id))
	}

	if _, err := docRef.Update(ctx, []firestore.Update{
		{Path: "Invalidated", Value: true},
		{Path: "UpdatedAt", Value: time.Now().UTC()},
	}); err != nil {
		return goerr.Wrap(err, "failed to invalidate sync link", goerr.V("id", id))
	}

	return nil
}
