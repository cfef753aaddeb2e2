package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/positonic/exponential-sync/pkg/cli/config"
	"github.com/positonic/exponential-sync/pkg/domain/types"
)

func TestLoadWorkflow(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{
			name: "full configuration",
			content: `
id = "wf-notion-tasks"
name = "Notion task sync"
provider = "notion"
direction = "bidirectional"
scope_id = "db-12345678"
project_id = 42
external_project_id = "proj-abc"
sync_strategy = "auto_pull_then_push"
deletion_policy = "archive"
conflict_policy = "remote_wins"
skip_provider_sourced = true

[field_mapping]
priority_fallback = "Low"

[field_mapping.properties]
name = "Task"
status = "State"
priority = "Urgency"
dueDate = "Due"
project = "Project ID"

[field_mapping.priorities]
"1st Priority" = "High"
"2nd Priority" = "Medium"

[field_mapping.statuses]
"ACTIVE" = "In Progress"
"COMPLETED" = "Done"
`,
			wantErr: false,
		},
		{
			name: "defaults applied for optional fields",
			content: `
id = "wf-minimal"
provider = "monday"
scope_id = "board-99"
`,
			wantErr: false,
		},
		{
			name:    "file not found",
			content: "",
			wantErr: true,
		},
		{
			name: "unknown provider",
			content: `
id = "wf-bad"
provider = "jira"
scope_id = "proj-1"
`,
			wantErr: true,
		},
		{
			name: "unknown direction",
			content: `
id = "wf-bad"
provider = "notion"
direction = "sideways"
scope_id = "db-1"
`,
			wantErr: true,
		},
		{
			name: "missing scope",
			content: `
id = "wf-bad"
provider = "notion"
`,
			wantErr: true,
		},
		{
			name: "invalid sync strategy",
			content: `
id = "wf-bad"
provider = "notion"
scope_id = "db-1"
sync_strategy = "whenever"
`,
			wantErr: true,
		},
		{
			name: "unknown local field in mapping",
			content: `
id = "wf-bad"
provider = "notion"
scope_id = "db-1"

[field_mapping.properties]
color = "Color"
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			workflowPath := filepath.Join(tmpDir, "workflow.toml")

			// Only create file if content is not empty
			if tt.content != "" {
				err := os.WriteFile(workflowPath, []byte(tt.content), 0644)
				gt.NoError(t, err).Required()
			}

			workflow, err := config.LoadWorkflow(workflowPath)

			if tt.wantErr {
				gt.Value(t, err).NotNil()
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, workflow).NotNil()
		})
	}
}

func TestLoadWorkflowFields(t *testing.T) {
	tmpDir := t.TempDir()
	workflowPath := filepath.Join(tmpDir, "workflow.toml")

	content := `
id = "wf-notion-tasks"
name = "Notion task sync"
provider = "notion"
scope_id = "db-12345678"
project_id = 42
sync_strategy = "notion_canonical"
conflict_policy = "remote_wins"

[field_mapping.properties]
name = "Task"
priority = "Urgency"

[field_mapping.priorities]
"1st Priority" = "High"
`
	gt.NoError(t, os.WriteFile(workflowPath, []byte(content), 0644)).Required()

	workflow, err := config.LoadWorkflow(workflowPath)
	gt.NoError(t, err).Required()

	gt.Value(t, workflow.ID).Equal("wf-notion-tasks")
	gt.Value(t, workflow.Provider).Equal(types.ProviderNotion)
	gt.Value(t, workflow.Direction).Equal(types.SyncDirectionBidirectional)
	gt.Value(t, workflow.ScopeID).Equal("db-12345678")
	gt.Value(t, *workflow.ProjectID).Equal(int64(42))
	gt.Value(t, workflow.Strategy()).Equal(types.SyncStrategyNotionCanonical)
	gt.Value(t, workflow.Conflict()).Equal(types.ConflictPolicyRemoteWins)
	gt.Value(t, workflow.Deletion()).Equal(types.DeletionPolicyMarkDeleted)

	prop, ok := workflow.Mapping().PropertyFor("priority")
	gt.B(t, ok).True()
	gt.Value(t, prop).Equal("Urgency")

	translated, ok := workflow.Mapping().TranslatePriority(types.PriorityFirst)
	gt.B(t, ok).True()
	gt.Value(t, translated).Equal("High")
}
