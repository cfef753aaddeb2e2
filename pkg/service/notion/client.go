package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/m-mizutani/goerr/v2"
	"github.com/positonic/exponential-sync/pkg/domain/interfaces"
	"github.com/positonic/exponential-sync/pkg/domain/model"
)

// client implements the ProviderClient contract against the Notion API
type client struct {
	api *notionapi.Client
	// projectProperty is the database property that tags which project
	// an external page belongs to, used for scope filtering.
	projectProperty string
}

var _ interfaces.ProviderClient = &client{}

// Option configures the Notion client
type Option func(*client)

// WithProjectProperty overrides the property used for external project
// filtering (default "Project ID")
func WithProjectProperty(name string) Option {
	return func(c *client) {
		c.projectProperty = name
	}
}

// New creates a new Notion provider client with the provided API token
func New(token string, opts ...Option) (interfaces.ProviderClient, error) {
	if token == "" {
		return nil, goerr.New("Notion API token is required")
	}

	c := &client{
		api: notionapi.NewClient(
			notionapi.Token(token),
			notionapi.WithRetry(3), // Retry up to 3 times on rate limit (HTTP 429)
		),
		projectProperty: "Project ID",
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// ListRecords retrieves all pages of a database as a flat list, paginating
// with the query cursor.
func (c *client) ListRecords(ctx context.Context, scopeID string, filter *model.RecordFilter) ([]*model.ExternalRecord, error) {
	var records []*model.ExternalRecord
	var cursor notionapi.Cursor

	req := &notionapi.DatabaseQueryRequest{
		PageSize: 100,
	}
	if filter != nil && filter.ExternalProjectID != "" {
		req.Filter = notionapi.PropertyFilter{
			Property: c.projectProperty,
			RichText: &notionapi.TextFilterCondition{
				Equals: filter.ExternalProjectID,
			},
		}
	}

	for {
		req.StartCursor = cursor
		resp, err := c.api.Database.Query(ctx, notionapi.DatabaseID(scopeID), req)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to query database", goerr.V("scope_id", scopeID))
		}

		for _, page := range resp.Results {
			records = append(records, pageToRecord(&page))
		}

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return records, nil
}

// CreateRecord creates a page in the database
func (c *client) CreateRecord(ctx context.Context, scopeID string, title string, properties map[string]any) (*model.ExternalRecord, error) {
	props := buildProperties(properties)
	if !hasTitleProperty(props) {
		props["Name"] = notionapi.TitleProperty{
			Title: richText(title),
		}
	}

	page, err := c.api.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(scopeID),
		},
		Properties: props,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create page",
			goerr.V("scope_id", scopeID), goerr.V("title", title))
	}

	return pageToRecord(page), nil
}

// UpdateRecord replaces the mapped properties of a page
func (c *client) UpdateRecord(ctx context.Context, externalID string, properties map[string]any) error {
	_, err := c.api.Page.Update(ctx, notionapi.PageID(externalID), &notionapi.PageUpdateRequest{
		Properties: buildProperties(properties),
	})
	if err != nil {
		return goerr.Wrap(err, "failed to update page", goerr.V("page_id", externalID))
	}
	return nil
}

// ArchiveRecord archives a page
func (c *client) ArchiveRecord(ctx context.Context, externalID string) error {
	_, err := c.api.Page.Update(ctx, notionapi.PageID(externalID), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{},
		Archived:   true,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to archive page", goerr.V("page_id", externalID))
	}
	return nil
}

// TestConnection verifies the token by fetching the bot user
func (c *client) TestConnection(ctx context.Context) error {
	if _, err := c.api.User.Me(ctx); err != nil {
		return goerr.Wrap(err, "failed to reach Notion API")
	}
	return nil
}
