package interfaces

import (
	"context"

	"github.com/positonic/exponential-sync/pkg/domain/model"
)

// ProviderClient is the uniform contract every external task management
// system implements. The engines depend on this interface only; concrete
// clients are selected by the provider factory.
//
// Pagination is handled inside the client: ListRecords returns the full
// record set for a scope as a flat list.
type ProviderClient interface {
	// ListRecords retrieves all records in a scope, optionally filtered
	ListRecords(ctx context.Context, scopeID string, filter *model.RecordFilter) ([]*model.ExternalRecord, error)

	// CreateRecord creates a record in the scope
	CreateRecord(ctx context.Context, scopeID string, title string, properties map[string]any) (*model.ExternalRecord, error)

	// UpdateRecord replaces the mapped properties of a record
	UpdateRecord(ctx context.Context, externalID string, properties map[string]any) error

	// ArchiveRecord archives (soft-deletes) a record
	ArchiveRecord(ctx context.Context, externalID string) error

	// TestConnection verifies the credentials reach the provider
	TestConnection(ctx context.Context) error
}
