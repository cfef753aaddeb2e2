package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"
)

// Notion holds CLI flags for the Notion integration
type Notion struct {
	token string
}

func (x *Notion) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "notion-api-token",
			Usage:       "Notion API integration token",
			Category:    "Notion",
			Sources:     cli.EnvVars("EXPONENTIAL_SYNC_NOTION_API_TOKEN"),
			Destination: &x.token,
		},
	}
}

func (x Notion) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("token.len", len(x.token)),
	)
}

// Token returns the configured API token
func (x *Notion) Token() string {
	return x.token
}
