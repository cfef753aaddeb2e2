package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/positonic/exponential-sync/pkg/domain/model"
	"google.golang.org/api/iterator"
)

type userMappingRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newUserMappingRepository(client *firestore.Client) *userMappingRepository {
	return &userMappingRepository{client: client}
}

func (r *userMappingRepository) mappingsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_user_mappings"
	}
	return "user_mappings"
}

// mappingDocID keys the document on its natural key so Put is an
// idempotent replace.
func mappingDocID(integrationID, externalUserID string) string {
	return fmt.Sprintf("%s:%s", integrationID, externalUserID)
}

func (r *userMappingRepository) Put(ctx context.Context, mapping *model.UserMapping) (*model.UserMapping, error) {
	if mapping.IntegrationID == "" || mapping.ExternalUserID == "" {
		return nil, goerr.New("integration ID and external user ID are required")
	}

	created := *mapping
	created.CreatedAt = time.Now().UTC()

	docID := mappingDocID(mapping.IntegrationID, mapping.ExternalUserID)
	if _, err := r.client.Collection(r.mappingsCollection()).Doc(docID).Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to put user mapping", goerr.V("doc_id", docID))
	}

	return &created, nil
}

func (r *userMappingRepository) Find(ctx context.Context, integrationID, externalUserID string) (*model.UserMapping, error) {
	docID := mappingDocID(integrationID, externalUserID)
	docSnap, err := r.client.Collection(r.mappingsCollection()).Doc(docID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "user mapping not found",
				goerr.V("integration_id", integrationID),
				goerr.V("external_user_id", externalUserID))
		}
		return nil, goerr.Wrap(err, "failed to get user mapping", goerr.V("doc_id", docID))
	}

	var m model.UserMapping
	if err := docSnap.DataTo(&m); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user mapping", goerr.V("doc_id", docID))
	}

	return &m, nil
}

func (r *userMappingRepository) ListByIntegration(ctx context.Context, integrationID string) ([]*model.UserMapping, error) {
	iter := r.client.Collection(r.mappingsCollection()).
		Where("IntegrationID", "==", integrationID).
		Documents(ctx)
	defer iter.Stop()

	mappings := make([]*model.UserMapping, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate user mappings", goerr.V("integration_id", integrationID))
		}

		var m model.UserMapping
		if err := docSnap.DataTo(&m); err != nil {
			return nil, goerr.Wrap(err, "failed to decode user mapping", goerr.V("doc_id", docSnap.Ref.ID))
		}

		mappings = append(mappings, &m)
	}

	return mappings, nil
}
