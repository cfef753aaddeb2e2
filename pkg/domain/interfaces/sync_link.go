package interfaces

import (
	"context"

	"github.com/positonic/exponential-sync/pkg/domain/model"
	"github.com/positonic/exponential-sync/pkg/domain/types"
)

// SyncLinkRepository is the sync state store: the authoritative link
// between one local action and one external record. All lookups return
// active links only; invalidated links are retained for audit but never
// surfaced.
type SyncLinkRepository interface {
	// Find retrieves the active link for (actionID, provider)
	Find(ctx context.Context, actionID int64, provider types.Provider) (*model.SyncLink, error)

	// FindByExternalID retrieves the active link for (provider, externalID)
	FindByExternalID(ctx context.Context, provider types.Provider, externalID string) (*model.SyncLink, error)

	// ListByProvider retrieves all active links for a provider
	ListByProvider(ctx context.Context, provider types.Provider) ([]*model.SyncLink, error)

	// Upsert creates or replaces the active link for the link's
	// (ActionID, Provider) pair, superseding any prior link
	Upsert(ctx context.Context, link *model.SyncLink) (*model.SyncLink, error)

	// MarkDeletedRemotely transitions a link to deleted_remotely
	MarkDeletedRemotely(ctx context.Context, id int64) error

	// Invalidate retires a link without deleting it
	Invalidate(ctx context.Context, id int64) error
}
