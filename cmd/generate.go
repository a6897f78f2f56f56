package cmd

import (
	"errors"
	"fmt"
	"strings"

	"ewintr.nl/ytideas/config"
	"ewintr.nl/ytideas/model"
	"ewintr.nl/ytideas/process"
	"ewintr.nl/ytideas/storage"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate scored video ideas from the comments of videos",
	Long: `Fetch the comments of one or more videos, or of the latest uploads of a
channel, run them through the idea pipeline and print the scored ideas as
JSON. Nothing is stored.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringSliceP("video", "v", nil, "Id of a video to read comments from, can be repeated")
	generateCmd.Flags().StringP("channel", "c", "", "Id of a channel whose latest uploads are read")
	generateCmd.Flags().Int64("uploads", 5, "Number of channel uploads to read")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	videoIDs, _ := cmd.Flags().GetStringSlice("video")
	channelID, _ := cmd.Flags().GetString("channel")
	uploads, _ := cmd.Flags().GetInt64("uploads")
	if len(videoIDs) == 0 && channelID == "" {
		return errors.New("either --video or --channel is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cmd)
	yt, err := newYoutube(ctx, cfg)
	if err != nil {
		return err
	}

	var ids []model.YoutubeVideoID
	for _, id := range videoIDs {
		ids = append(ids, model.YoutubeVideoID(id))
	}
	if channelID != "" {
		channelVideos, err := yt.ChannelVideos(ctx, model.YoutubeChannelID(channelID), uploads)
		if err != nil {
			return fmt.Errorf("could not list uploads of channel %s: %w", channelID, err)
		}
		ids = append(ids, channelVideos...)
	}

	var comments []model.Comment
	for _, id := range ids {
		videoComments, err := yt.CommentThreads(ctx, id, cfg.MaxComments)
		if err != nil {
			return fmt.Errorf("could not fetch comments of video %s: %w", id, err)
		}
		comments = append(comments, videoComments...)
	}
	logger.Info("fetched comments", slog.Int("videos", len(ids)), slog.Int("comments", len(comments)))

	steps, err := newSteps(cfg, yt)
	if err != nil {
		return err
	}
	pipeline := process.NewPipeline(nil, steps, storage.NewMemoryRunRepository(), nil, logger)

	run := model.NewRun(generateSource(videoIDs, channelID), comments)
	if err := pipeline.Process(ctx, run); err != nil {
		return err
	}

	ideas := run.Ideas
	if ideas == nil {
		ideas = []model.VideoIdea{}
	}
	return printJSON(cmd.OutOrStdout(), model.VideoIdeasList{VideoIdeas: ideas})
}

func generateSource(videoIDs []string, channelID string) string {
	var parts []string
	if len(videoIDs) > 0 {
		parts = append(parts, "video:"+strings.Join(videoIDs, ","))
	}
	if channelID != "" {
		parts = append(parts, "channel:"+channelID)
	}
	return strings.Join(parts, " ")
}
