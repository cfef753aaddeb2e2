package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/positonic/exponential-sync/pkg/domain/model"
	domainConfig "github.com/positonic/exponential-sync/pkg/domain/model/config"
	"github.com/positonic/exponential-sync/pkg/domain/types"
)

// WorkflowConfig is the TOML representation of one workflow. Strategy
// and policy fields are optional; the domain defaults apply when they
// are omitted. Credentials never appear here.
type WorkflowConfig struct {
	ID                  string                     `toml:"id"`
	Name                string                     `toml:"name"`
	Provider            string                     `toml:"provider"`
	Direction           string                     `toml:"direction"`
	ScopeID             string                     `toml:"scope_id"`
	ProjectID           *int64                     `toml:"project_id"`
	ExternalProjectID   string                     `toml:"external_project_id"`
	SyncStrategy        string                     `toml:"sync_strategy"`
	DeletionPolicy      string                     `toml:"deletion_policy"`
	ConflictPolicy      string                     `toml:"conflict_policy"`
	SkipProviderSourced bool                       `toml:"skip_provider_sourced"`
	FieldMapping        *domainConfig.FieldMapping `toml:"field_mapping"`
}

// ToWorkflow converts the configuration into a validated domain
// workflow.
func (c *WorkflowConfig) ToWorkflow() (*model.Workflow, error) {
	provider, err := types.ParseProvider(c.Provider)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid provider", goerr.V("workflow_id", c.ID))
	}

	direction := types.SyncDirectionBidirectional
	if c.Direction != "" {
		direction, err = types.ParseSyncDirection(c.Direction)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid direction", goerr.V("workflow_id", c.ID))
		}
	}

	workflow := &model.Workflow{
		ID:                  c.ID,
		Name:                c.Name,
		Provider:            provider,
		Direction:           direction,
		ScopeID:             c.ScopeID,
		ProjectID:           c.ProjectID,
		ExternalProjectID:   c.ExternalProjectID,
		SyncStrategy:        types.SyncStrategy(c.SyncStrategy),
		DeletionPolicy:      types.DeletionPolicy(c.DeletionPolicy),
		ConflictPolicy:      types.ConflictPolicy(c.ConflictPolicy),
		FieldMapping:        c.FieldMapping,
		SkipProviderSourced: c.SkipProviderSourced,
	}

	if err := workflow.Validate(); err != nil {
		return nil, goerr.Wrap(err, "workflow validation failed", goerr.V("workflow_id", c.ID))
	}

	return workflow, nil
}

// LoadWorkflow loads and validates a workflow from a TOML file
func LoadWorkflow(path string) (*model.Workflow, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read workflow file", goerr.V("path", path))
	}

	var cfg WorkflowConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML workflow", goerr.V("path", path))
	}

	return cfg.ToWorkflow()
}
