package cli

import (
	"context"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/positonic/exponential-sync/pkg/cli/config"
	"github.com/positonic/exponential-sync/pkg/domain/model"
	"github.com/positonic/exponential-sync/pkg/domain/types"
	"github.com/positonic/exponential-sync/pkg/usecase"
	"github.com/positonic/exponential-sync/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdSync() *cli.Command {
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
			Usage:       "Limit the push side to actions of one local project",
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
		Name:    "sync",
		Aliases: []string{"s"},
		Usage:   "Run a workflow end to end according to its sync strategy",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			return runWorkflowCommand(ctx, workflowPath, &repoCfg, func(ctx context.Context, uc *usecase.UseCases, workflow *model.Workflow) (*model.SyncResult, error) {
				opts, err := buildSyncOptions(workflow, &notionCfg, &mondayCfg, projectID, rawActionIDs, overwrite)
				if err != nil {
					return nil, err
				}
				return uc.Sync.RunSync(ctx, workflow.ID, opts)
			})
		},
	}
}

// runWorkflowCommand shares the setup sequence of the sync, pull and
// push commands: load the workflow file, open the repository, register
// the workflow, run the engine and report the outcome.
func runWorkflowCommand(ctx context.Context, workflowPath string, repoCfg *config.Repository, fn func(ctx context.Context, uc *usecase.UseCases, workflow *model.Workflow) (*model.SyncResult, error)) error {
	workflow, err := config.LoadWorkflow(workflowPath)
	if err != nil {
		return goerr.Wrap(err, "failed to load workflow configuration")
	}

	repo, err := repoCfg.Configure(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to initialize repository")
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logging.Default().Error("failed to close repository", "error", err.Error())
		}
	}()

	if _, err := repo.Workflow().Put(ctx, workflow); err != nil {
		return goerr.Wrap(err, "failed to register workflow",
			goerr.V("workflow_id", workflow.ID))
	}

	uc := usecase.New(repo)

	result, err := fn(ctx, uc, workflow)
	if err != nil {
		return goerr.Wrap(err, "sync run failed",
			goerr.V("workflow_id", workflow.ID))
	}

	logSyncResult(workflow, result)
	return nil
}

func buildSyncOptions(workflow *model.Workflow, notionCfg *config.Notion, mondayCfg *config.Monday, projectID int, rawActionIDs []string, overwrite bool) (*usecase.SyncOptions, error) {
	opts := &usecase.SyncOptions{
		Token:         tokenFor(workflow, notionCfg, mondayCfg),
		OverwriteMode: overwrite,
	}

	if projectID != 0 {
		id := int64(projectID)
		opts.ProjectID = &id
	}

	for _, raw := range rawActionIDs {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid action ID", goerr.V("action_id", raw))
		}
		opts.ActionIDs = append(opts.ActionIDs, id)
	}

	return opts, nil
}

func tokenFor(workflow *model.Workflow, notionCfg *config.Notion, mondayCfg *config.Monday) string {
	switch workflow.Provider {
	case types.ProviderNotion:
		return notionCfg.Token()
	case types.ProviderMonday:
		return mondayCfg.Token()
	default:
		return ""
	}
}

func logSyncResult(workflow *model.Workflow, result *model.SyncResult) {
	logger := logging.Default()
	logger.Info("sync run finished",
		"workflow_id", workflow.ID,
		"run_id", result.RunID,
		"processed", result.ItemsProcessed,
		"created", result.ItemsCreated,
		"updated", result.ItemsUpdated,
		"skipped", result.ItemsSkipped,
		"already_synced", result.ItemsAlreadySynced,
		"deleted", result.ItemsDeleted,
		"failed", result.ItemsFailedToSync,
	)
	for _, reason := range result.SkipReasons {
		logger.Warn("item not synced", "reason", reason)
	}
}
