package monday

import (
	"context"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/positonic/exponential-sync/pkg/domain/interfaces"
	"github.com/positonic/exponential-sync/pkg/domain/model"
)

const apiEndpoint = "https://api.monday.com/v2"

// client implements the ProviderClient contract against the Monday
// GraphQL API
type client struct {
	token      string
	endpoint   string
	httpClient *http.Client
	// boardID is the board targeted by item updates; the GraphQL
	// mutation for column values requires it alongside the item ID.
	boardID string
	// projectColumn tags which external project an item belongs to,
	// used for scope filtering.
	projectColumn string
}

var _ interfaces.ProviderClient = &client{}

// Option configures the Monday client
type Option func(*client)

// WithBoard sets the board used when updating item column values
func WithBoard(boardID string) Option {
	return func(c *client) {
		c.boardID = boardID
	}
}

// WithProjectColumn overrides the column used for external project
// filtering (default "project_id")
func WithProjectColumn(columnID string) Option {
	return func(c *client) {
		c.projectColumn = columnID
	}
}

// WithEndpoint overrides the API endpoint, for tests
func WithEndpoint(endpoint string) Option {
	return func(c *client) {
		c.endpoint = endpoint
	}
}

// New creates a new Monday provider client with the provided API token
func New(token string, opts ...Option) (interfaces.ProviderClient, error) {
	if token == "" {
		return nil, goerr.New("Monday API token is required")
	}

	c := &client{
		token:    token,
		endpoint: apiEndpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		projectColumn: "project_id",
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// ListRecords retrieves all items of a board as a flat list, paginating
// with the items_page cursor.
func (c *client) ListRecords(ctx context.Context, scopeID string, filter *model.RecordFilter) ([]*model.ExternalRecord, error) {
	var records []*model.ExternalRecord
	var cursor *string

	for {
		var resp itemsPageResponse
		if err := c.query(ctx, listItemsQuery, map[string]any{
			"board":  []string{scopeID},
			"cursor": cursor,
		}, &resp); err != nil {
			return nil, goerr.Wrap(err, "failed to list board items", goerr.V("scope_id", scopeID))
		}

		if len(resp.Boards) == 0 {
			return nil, goerr.New("board not found", goerr.V("scope_id", scopeID))
		}

		page := resp.Boards[0].ItemsPage
		for _, item := range page.Items {
			record := item.toRecord()
			if filter != nil && filter.ExternalProjectID != "" &&
				record.Property(c.projectColumn) != filter.ExternalProjectID {
				continue
			}
			records = append(records, record)
		}

		if page.Cursor == nil || *page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}

	return records, nil
}

// CreateRecord creates an item on the board
func (c *client) CreateRecord(ctx context.Context, scopeID string, title string, properties map[string]any) (*model.ExternalRecord, error) {
	columns, err := buildColumnValues(properties)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode column values")
	}

	var resp createItemResponse
	if err := c.query(ctx, createItemMutation, map[string]any{
		"board":   scopeID,
		"name":    title,
		"columns": columns,
	}, &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to create item",
			goerr.V("scope_id", scopeID), goerr.V("title", title))
	}

	return resp.CreateItem.toRecord(), nil
}

// UpdateRecord replaces the mapped column values of an item
func (c *client) UpdateRecord(ctx context.Context, externalID string, properties map[string]any) error {
	if c.boardID == "" {
		return goerr.New("Monday client requires a board ID for updates")
	}

	columns, err := buildColumnValues(properties)
	if err != nil {
		return goerr.Wrap(err, "failed to encode column values")
	}

	var resp updateItemResponse
	if err := c.query(ctx, updateItemMutation, map[string]any{
		"item":    externalID,
		"board":   c.boardID,
		"columns": columns,
	}, &resp); err != nil {
		return goerr.Wrap(err, "failed to update item", goerr.V("item_id", externalID))
	}

	return nil
}

// ArchiveRecord archives an item
func (c *client) ArchiveRecord(ctx context.Context, externalID string) error {
	var resp archiveItemResponse
	if err := c.query(ctx, archiveItemMutation, map[string]any{
		"item": externalID,
	}, &resp); err != nil {
		return goerr.Wrap(err, "failed to archive item", goerr.V("item_id", externalID))
	}
	return nil
}

// TestConnection verifies the token by fetching the authenticated user
func (c *client) TestConnection(ctx context.Context) error {
	var resp meResponse
	if err := c.query(ctx, meQuery, nil, &resp); err != nil {
		return goerr.Wrap(err, "failed to reach Monday API")
	}
	if resp.Me.ID == "" {
		return goerr.New("Monday API returned no authenticated user")
	}
	return nil
}
