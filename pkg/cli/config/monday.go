package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"
)

// Monday holds CLI flags for the Monday integration
type Monday struct {
	token string
}

func (x *Monday) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "monday-api-token",
			Usage:       "Monday API token",
			Category:    "Monday",
			Sources:     cli.EnvVars("EXPONENTIAL_SYNC_MONDAY_API_TOKEN"),
			Destination: &x.token,
		},
	}
}

func (x Monday) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("token.len", len(x.token)),
	)
}

// Token returns the configured API token
func (x *Monday) Token() string {
	return x.token
}
