package cli

import (
	"context"

	"github.com/positonic/exponential-sync/pkg/cli/config"
	"github.com/positonic/exponential-sync/pkg/domain/model"
	"github.com/positonic/exponential-sync/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdPush() *cli.Command {
	var workflowPath string
	var projectID int
	var rawActionIDs []string
	var overwrite bool
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
		&cli.IntFlag{
			Name:        "project-id",
			Usage:       "Limit the push to actions of one local project",
			Destination: &projectID,
		},
		&cli.StringSliceFlag{
			Name:        "action-id",
			Usage:       "Push only the specified action IDs (can be specified multiple times)",
			Destination: &rawActionIDs,
		},
		&cli.BoolFlag{
			Name:        "overwrite",
			Usage:       "Update already synced records, recreate remotely deleted ones, and archive orphaned remote records",
			Destination: &overwrite,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, notionCfg.Flags()...)
	flags = append(flags, mondayCfg.Flags()...)

	return &cli.Command{
		Name:  "push",
		Usage: "Export local actions to the external provider",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			return runWorkflowCommand(ctx, workflowPath, &repoCfg, func(ctx context.Context, uc *usecase.UseCases, workflow *model.Workflow) (*model.SyncResult, error) {
				opts, err := buildSyncOptions(workflow, &notionCfg, &mondayCfg, projectID, rawActionIDs, overwrite)
				if err != nil {
					return nil, err
				}
				return uc.Sync.RunPush(ctx, workflow.ID, opts)
			})
		},
	}
}
