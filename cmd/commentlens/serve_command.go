package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spacesedan/commentlens/internal/pipeline"
	"github.com/spacesedan/commentlens/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config
			if addr == "" {
				addr = cfg.HTTPAddr
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			source, cleanup, err := ctx.commentSource(runCtx)
			if err != nil {
				return err
			}
			defer cleanup()

			analyzer, err := pipeline.NewDefaultAnalyzer(pipeline.Options{
				SentenceCount:     cfg.SummarySentences,
				IncludeZeroCounts: cfg.IncludeZeroCounts,
				Markdown:          cfg.MarkdownComments,
				Parallel:          true,
			})
			if err != nil {
				return err
			}

			return server.NewServer(addr, analyzer, source, cfg.MaxComments).ListenAndServe(runCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to HTTP_ADDR)")
	return cmd
}
