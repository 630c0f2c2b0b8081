package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spacesedan/commentlens/internal/clients"
	"github.com/spacesedan/commentlens/internal/pipeline"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var (
		file        string
		sentences   int
		includeZero bool
		markdown    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [video-url-or-id]",
		Short: "Analyze a video's comments, or comments read from a file",
		Long: "Analyze fetches the comments of a YouTube video and prints the sentiment tally and summary as JSON.\n" +
			"With --file, comments are read one per line from the file instead (\"-\" reads stdin).",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config
			if !cmd.Flags().Changed("sentences") {
				sentences = cfg.SummarySentences
			}
			if !cmd.Flags().Changed("include-zero") {
				includeZero = cfg.IncludeZeroCounts
			}
			if !cmd.Flags().Changed("markdown") {
				markdown = cfg.MarkdownComments
			}

			var comments []string
			switch {
			case file != "" && len(args) > 0:
				return errors.New("pass either a video or --file, not both")
			case file != "":
				lines, err := readComments(cmd.InOrStdin(), file)
				if err != nil {
					return err
				}
				comments = lines
			case len(args) == 1:
				videoID, err := clients.ParseVideoID(args[0])
				if err != nil {
					return err
				}
				source, cleanup, err := ctx.commentSource(cmd.Context())
				if err != nil {
					return err
				}
				defer cleanup()
				if source == nil {
					return errors.New("YOUTUBE_API_KEY or YOUTUBE_ACCESS_TOKEN is required to fetch comments")
				}
				comments, err = source.FetchComments(cmd.Context(), videoID)
				if err != nil && !errors.Is(err, clients.ErrCommentsDisabled) {
					return err
				}
			default:
				return errors.New("a video url/id or --file is required")
			}

			analyzer, err := pipeline.NewDefaultAnalyzer(pipeline.Options{
				SentenceCount:     sentences,
				IncludeZeroCounts: includeZero,
				Markdown:          markdown,
			})
			if err != nil {
				return err
			}
			result, err := analyzer.Analyze(comments)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result.ToResponse())
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read comments from a file, one per line (\"-\" for stdin)")
	cmd.Flags().IntVarP(&sentences, "sentences", "n", 3, "Number of summary sentences")
	cmd.Flags().BoolVar(&includeZero, "include-zero", false, "Report all sentiment labels, including zero counts")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Treat comments as markdown instead of plain text")
	return cmd
}

func readComments(stdin io.Reader, path string) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open comments file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var comments []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		comments = append(comments, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read comments: %w", err)
	}
	return comments, nil
}
