package cmd

import (
	"ewintr.nl/ytideas/config"
	"ewintr.nl/ytideas/model"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [keyword]",
	Short: "Search YouTube videos with their view counts",
	Long: `Search YouTube for a keyword and print title, view count and url of
every hit as JSON, in the order YouTube ranks them.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int64P("max", "m", model.DefaultMaxResults, "Maximum number of results to return (1-50)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	max, _ := cmd.Flags().GetInt64("max")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	yt, err := newYoutube(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	videos, err := yt.SearchVideosWithDetails(cmd.Context(), model.SearchQuery{Keyword: args[0], MaxResults: max})
	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), videos)
}
