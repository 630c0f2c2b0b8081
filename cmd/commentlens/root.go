package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/spacesedan/commentlens/config"
	"github.com/spacesedan/commentlens/internal/clients"
	"github.com/spacesedan/commentlens/internal/logging"
)

type commandContext struct {
	config config.Config
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "commentlens",
		Short:         "Sentiment and extractive summaries for YouTube comments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			env := os.Getenv("APP_ENV")
			if env == "" {
				env = "dev"
			}
			config.LoadEnv(env)

			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			logging.InitLogger(cfg.LogLevel)
			ctx.config = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newAnalyzeCommand(ctx))

	return rootCmd
}

// commentSource builds the YouTube source, wrapped in the Valkey cache when
// one is configured. It returns a nil source when no credentials are set.
func (c *commandContext) commentSource(ctx context.Context) (clients.CommentSource, func(), error) {
	cfg := c.config
	noop := func() {}
	if cfg.YouTubeAPIKey == "" && cfg.YouTubeToken == "" {
		slog.Warn("[Main] No YouTube credentials configured, video lookups disabled")
		return nil, noop, nil
	}

	yt, err := clients.NewYouTubeClient(ctx, clients.YouTubeConfig{
		APIKey:      cfg.YouTubeAPIKey,
		AccessToken: cfg.YouTubeToken,
		MaxComments: cfg.MaxComments,
	})
	if err != nil {
		return nil, noop, err
	}
	if cfg.ValkeyAddr == "" {
		return yt, noop, nil
	}

	cache, err := clients.NewValkeyClient(ctx, clients.ValkeyConfig{
		Address:  cfg.ValkeyAddr,
		Password: cfg.ValkeyPassword,
		UseTLS:   cfg.ValkeyTLS,
		TTL:      cfg.CommentCacheTTL,
	})
	if err != nil {
		slog.Warn("[Main] Valkey unavailable, comment cache disabled",
			slog.String("error", err.Error()))
		return yt, noop, nil
	}
	return clients.NewCachedSource(yt, cache), cache.Close, nil
}
