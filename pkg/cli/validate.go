package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/positonic/exponential-sync/pkg/cli/config"
	"github.com/positonic/exponential-sync/pkg/repository/memory"
	"github.com/positonic/exponential-sync/pkg/usecase"
	"github.com/positonic/exponential-sync/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var workflowPath string
	var notionCfg config.Notion
	var mondayCfg config.Monday

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "workflow-config",
			Aliases:     []string{"w"},
			Usage:       "Path to workflow TOML file (required)",
			Required:    true,
			Sources:     cli.EnvVars("EXPONENTIAL_SYNC_WORKFLOW_CONFIG"),
			Destination: &workflowPath,
		},
	}

	// Add shared config flags
	flags = append(flags, notionCfg.Flags()...)
	flags = append(flags, mondayCfg.Flags()...)

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate a workflow file and verify provider credentials",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			workflow, err := config.LoadWorkflow(workflowPath)
			if err != nil {
				return goerr.Wrap(err, "failed to load workflow configuration")
			}

			// Validation never touches persisted state, so no Firestore
			// configuration is required here.
			uc := usecase.New(memory.New())

			token := tokenFor(workflow, &notionCfg, &mondayCfg)
			if err := uc.Sync.ValidateWorkflow(ctx, workflow, token); err != nil {
				return goerr.Wrap(err, "workflow validation failed",
					goerr.V("workflow_id", workflow.ID))
			}

			logging.Default().Info("workflow is valid",
				"workflow_id", workflow.ID,
				"provider", workflow.Provider,
				"scope_id", workflow.ScopeID,
			)
			return nil
		},
	}
}
