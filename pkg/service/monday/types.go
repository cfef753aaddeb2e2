package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/positonic/exponential-sync/pkg/domain/model"
	"github.com/positonic/exponential-sync/pkg/utils/safe"
)

const (
	listItemsQuery = `query ($board: [ID!], $cursor: String) {
  boards(ids: $board) {
    items_page(limit: 100, cursor: $cursor) {
      cursor
      items {
        id
        name
        url
        column_values { id text }
      }
    }
  }
}`

	createItemMutation = `mutation ($board: ID!, $name: String!, $columns: JSON) {
  create_item(board_id: $board, item_name: $name, column_values: $columns) {
    id
    name
    url
    column_values { id text }
  }
}`

	updateItemMutation = `mutation ($item: ID!, $board: ID!, $columns: JSON!) {
  change_multiple_column_values(item_id: $item, board_id: $board, column_values: $columns) {
    id
  }
}`

	archiveItemMutation = `mutation ($item: ID!) {
  archive_item(item_id: $item) { id }
}`

	meQuery = `query { me { id } }`
)

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

// query posts a GraphQL document and decodes the data payload into out
func (c *client) query(ctx context.Context, document string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{
		Query:     document,
		Variables: variables,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to marshal GraphQL request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return goerr.Wrap(err, "failed to create HTTP request")
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to send request")
	}
	defer safe.Close(ctx, httpResp.Body)

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return goerr.Wrap(err, "failed to read response body")
	}

	if httpResp.StatusCode != http.StatusOK {
		return goerr.New("unexpected status code from Monday API",
			goerr.V("status_code", httpResp.StatusCode),
			goerr.V("body", string(respBody)))
	}

	var resp graphqlResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return goerr.Wrap(err, "failed to decode GraphQL response")
	}
	if len(resp.Errors) > 0 {
		return goerr.New("Monday API returned errors",
			goerr.V("message", resp.Errors[0].Message),
			goerr.V("error_count", len(resp.Errors)))
	}

	if err := json.Unmarshal(resp.Data, out); err != nil {
		return goerr.Wrap(err, "failed to decode GraphQL data")
	}

	return nil
}

type columnValue struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type item struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	URL          string        `json:"url"`
	ColumnValues []columnValue `json:"column_values"`
}

type itemsPage struct {
	Cursor *string `json:"cursor"`
	Items  []item  `json:"items"`
}

type itemsPageResponse struct {
	Boards []struct {
		ItemsPage itemsPage `json:"items_page"`
	} `json:"boards"`
}

type createItemResponse struct {
	CreateItem item `json:"create_item"`
}

type updateItemResponse struct {
	ChangeMultipleColumnValues struct {
		ID string `json:"id"`
	} `json:"change_multiple_column_values"`
}

type archiveItemResponse struct {
	ArchiveItem struct {
		ID string `json:"id"`
	} `json:"archive_item"`
}

type meResponse struct {
	Me struct {
		ID string `json:"id"`
	} `json:"me"`
}

func (x item) toRecord() *model.ExternalRecord {
	record := &model.ExternalRecord{
		ID:         x.ID,
		Title:      x.Name,
		URL:        x.URL,
		Properties: make(map[string]any, len(x.ColumnValues)),
	}
	for _, cv := range x.ColumnValues {
		if cv.Text == "" {
			continue
		}
		record.Properties[cv.ID] = cv.Text
	}
	return record
}

// buildColumnValues encodes mapped property values into the JSON string
// the column values mutation expects, keyed by column ID.
func buildColumnValues(properties map[string]any) (string, error) {
	columns := make(map[string]any, len(properties))

	for columnID, value := range properties {
		switch v := value.(type) {
		case model.Title:
			columns[columnID] = string(v)
		case model.Text:
			columns[columnID] = string(v)
		case string:
			columns[columnID] = v
		case model.Select:
			columns[columnID] = map[string]any{"label": string(v)}
		case model.Date:
			columns[columnID] = map[string]any{"date": time.Time(v).Format("2006-01-02")}
		case time.Time:
			columns[columnID] = map[string]any{"date": v.Format("2006-01-02")}
		case model.Person:
			columns[columnID] = personColumn(string(v))
		default:
			return "", goerr.New("unsupported property value",
				goerr.V("column_id", columnID), goerr.V("value", value))
		}
	}

	encoded, err := json.Marshal(columns)
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal column values")
	}
	return string(encoded), nil
}

func personColumn(userID string) map[string]any {
	entry := map[string]any{"kind": "person"}
	if id, err := strconv.ParseInt(userID, 10, 64); err == nil {
		entry["id"] = id
	} else {
		entry["id"] = userID
	}
	return map[string]any{"personsAndTeams": []map[string]any{entry}}
}
