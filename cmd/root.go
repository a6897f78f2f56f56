package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"ewintr.nl/ytideas/config"
	"ewintr.nl/ytideas/fetch"
	"ewintr.nl/ytideas/process"
	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "ytideas",
	Short: "Turns YouTube comments into scored video ideas",
	Long: `ytideas reads the comments under YouTube videos, picks out the viewer
requests, turns them into video ideas, researches how similar videos perform
and scores every idea.

Examples:
  ytideas serve
  ytideas generate --video dQw4w9WgXcQ
  ytideas generate --channel UC_x5XG1OV2P6uZZ5FSM9Ttw
  ytideas search "cat videos" --max 5
  ytideas mcp`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(resetSchemaCmd)
}

// Execute runs the root command until it is done or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
}

func newYoutube(ctx context.Context, cfg *config.Config) (*fetch.Youtube, error) {
	yt, err := fetch.NewYoutube(ctx, cfg.Youtube())
	if err != nil {
		return nil, fmt.Errorf("unable to create youtube lookup: %w", err)
	}
	return yt, nil
}

func newSteps(cfg *config.Config, lookup process.VideoLookup) (*process.Steps, error) {
	defs, err := process.LoadDefinitions(cfg.AgentsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to load agents: %w", err)
	}

	oaConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		oaConfig.BaseURL = cfg.OpenAIBaseURL
	}
	llm := process.NewOpenAI(openai.NewClientWithConfig(oaConfig), cfg.OpenAIModel)

	return process.NewSteps(llm, defs, lookup, cfg.ResearchResults), nil
}

func printJSON(w io.Writer, v any) error {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(body))
	return err
}
