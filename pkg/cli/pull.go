package cli

import (
	"context"

	"github.com/positonic/exponential-sync/pkg/cli/config"
	"github.com/positonic/exponential-sync/pkg/domain/model"
	"github.com/positonic/exponential-sync/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdPull() *cli.Command {
	var workflowPath string
	var repoCfg config.Repository
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
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, notionCfg.Flags()...)
	flags = append(flags, mondayCfg.Flags()...)

	return &cli.Command{
		Name:  "pull",
		Usage: "Import external records into the local action store",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			return runWorkflowCommand(ctx, workflowPath, &repoCfg, func(ctx context.Context, uc *usecase.UseCases, workflow *model.Workflow) (*model.SyncResult, error) {
				opts := &usecase.SyncOptions{
					Token: tokenFor(workflow, &notionCfg, &mondayCfg),
				}
				return uc.Sync.RunPull(ctx, workflow.ID, opts)
			})
		},
	}
}
