package notion_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/positonic/exponential-sync/pkg/service/notion"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{
			name:    "valid token",
			token:   "test-token",
			wantErr: false,
		},
		{
			name:    "empty token",
			token:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := notion.New(tt.token)
			if tt.wantErr {
				gt.Value(t, err).NotNil()
				return
			}
			gt.NoError(t, err)
			gt.Value(t, svc).NotNil()
		})
	}
}

func TestListRecords_Integration(t *testing.T) {
	token := os.Getenv("TEST_NOTION_API_TOKEN")
	if token == "" {
		t.Skip("TEST_NOTION_API_TOKEN environment variable not set")
	}

	dbID := os.Getenv("TEST_NOTION_DATABASE_ID")
	if dbID == "" {
		t.Skip("TEST_NOTION_DATABASE_ID environment variable not set")
	}

	svc, err := notion.New(token)
	gt.NoError(t, err).Required()

	ctx := context.Background()
	gt.NoError(t, svc.TestConnection(ctx)).Required()

	records, err := svc.ListRecords(ctx, dbID, nil)
	gt.NoError(t, err).Required()

	for _, record := range records {
		gt.Value(t, record.ID).NotEqual("")
		gt.Value(t, record.Properties).NotNil()
		t.Logf("record %s: title=%q url=%s", record.ID, record.Title, record.URL)
	}
}
