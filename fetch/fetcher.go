package fetch

import (
	"context"
	"fmt"
	"time"

	"ewintr.nl/ytideas/model"
	"ewintr.nl/ytideas/storage"
	"golang.org/x/exp/slog"
)

type CommentSource interface {
	CommentThreads(ctx context.Context, videoID model.YoutubeVideoID, max int64) ([]model.Comment, error)
}

// Fetcher turns unread feed entries into pipeline runs, one run per video
// with its top comments.
type Fetcher struct {
	interval    time.Duration
	maxComments int64
	runRepo     storage.RunRelRepository
	feedReader  FeedReader
	comments    CommentSource
	out         chan *model.Run
	logger      *slog.Logger
}

func NewFetcher(runRepo storage.RunRelRepository, feedReader FeedReader, comments CommentSource, interval time.Duration, maxComments int64, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		interval:    interval,
		maxComments: maxComments,
		runRepo:     runRepo,
		feedReader:  feedReader,
		comments:    comments,
		out:         make(chan *model.Run, 10),
		logger:      logger,
	}
}

func (f *Fetcher) Out() chan *model.Run {
	return f.out
}

// Run requeues unfinished runs, then reads the feeds on every tick until the
// context is cancelled. The out channel is closed on return.
func (f *Fetcher) Run(ctx context.Context) {
	defer close(f.out)

	f.FindUnprocessed(ctx)

	f.logger.Info("started feed reader", slog.String("interval", f.interval.String()))
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			f.logger.Info("stopped feed reader")
			return
		case <-ticker.C:
			if err := f.ReadFeeds(ctx); err != nil {
				f.logger.Error("failed to read feeds", slog.String("error", err.Error()))
			}
		}
	}
}

func (f *Fetcher) FindUnprocessed(ctx context.Context) {
	f.logger.Info("looking for unprocessed runs")
	runs, err := f.runRepo.FindByStatus(model.RunStatusNew, model.RunStatusFiltered, model.RunStatusGenerated, model.RunStatusResearched)
	if err != nil {
		f.logger.Error("failed to fetch unprocessed runs", slog.String("error", err.Error()))
		return
	}
	f.logger.Info("found unprocessed runs", slog.Int("count", len(runs)))
	for _, run := range runs {
		if !f.emit(ctx, run) {
			return
		}
	}
}

func (f *Fetcher) ReadFeeds(ctx context.Context) error {
	entries, err := f.feedReader.Unread()
	if err != nil {
		return fmt.Errorf("failed to fetch unread entries: %w", err)
	}
	f.logger.Info("fetched unread entries", slog.Int("count", len(entries)))

	for _, entry := range entries {
		videoID := model.YoutubeVideoID(entry.YoutubeID)
		comments, err := f.comments.CommentThreads(ctx, videoID, f.maxComments)
		if err != nil {
			f.logger.Error("failed to fetch comments", slog.String("video", string(videoID)), slog.String("error", err.Error()))
			if !Permanent(err) {
				// try again on the next tick
				continue
			}
			comments = nil
		}

		if len(comments) > 0 {
			run := model.NewRun(fmt.Sprintf("video:%s", videoID), comments)
			if err := f.runRepo.Save(run); err != nil {
				f.logger.Error("failed to save run", slog.String("video", string(videoID)), slog.String("error", err.Error()))
				continue
			}
			f.logger.Info("created run", slog.String("run", run.ID.String()), slog.String("video", string(videoID)), slog.Int("comments", len(comments)))
			if !f.emit(ctx, run) {
				return ctx.Err()
			}
		}

		if err := f.feedReader.MarkRead(entry.EntryID); err != nil {
			f.logger.Error("failed to mark entry as read", slog.Int64("entry", entry.EntryID), slog.String("error", err.Error()))
		}
	}

	return nil
}

func (f *Fetcher) emit(ctx context.Context, run *model.Run) bool {
	select {
	case f.out <- run:
		return true
	case <-ctx.Done():
		return false
	}
}
