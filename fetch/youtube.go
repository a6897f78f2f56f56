package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ewintr.nl/ytideas/metrics"
	"ewintr.nl/ytideas/model"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const DefaultTimeout = 10 * time.Second

type YoutubeInfo struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
	// RequestsPerSecond limits outbound calls to save API quota. Zero means no limit.
	RequestsPerSecond float64
}

type Youtube struct {
	client  *youtube.Service
	timeout time.Duration
	limiter *rate.Limiter
	now     func() time.Time
}

func NewYoutube(ctx context.Context, info YoutubeInfo) (*Youtube, error) {
	if strings.TrimSpace(info.APIKey) == "" {
		return nil, fmt.Errorf("%w: missing api key", ErrConfiguration)
	}

	opts := []option.ClientOption{option.WithAPIKey(info.APIKey)}
	if info.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(info.Endpoint))
	}
	client, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	y := &Youtube{
		client:  client,
		timeout: info.Timeout,
		now:     time.Now,
	}
	if y.timeout <= 0 {
		y.timeout = DefaultTimeout
	}
	if info.RequestsPerSecond > 0 {
		y.limiter = rate.NewLimiter(rate.Limit(info.RequestsPerSecond), 1)
	}

	return y, nil
}

// SearchVideosWithDetails searches for videos matching the keyword and
// fetches title and view count for each hit. The result keeps the order of
// the search response. The first failing detail call fails the whole lookup.
func (y *Youtube) SearchVideosWithDetails(ctx context.Context, query model.SearchQuery) ([]model.VideoDetails, error) {
	summaries, err := y.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	details := make([]model.VideoDetails, len(summaries))
	g, gctx := errgroup.WithContext(ctx)
	for i, summary := range summaries {
		i, id := i, summary.VideoID
		g.Go(func() error {
			d, err := y.Details(gctx, id)
			if err != nil {
				return err
			}
			details[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return details, nil
}

func (y *Youtube) Search(ctx context.Context, query model.SearchQuery) ([]model.VideoSummary, error) {
	query = query.Normalize()
	if err := query.Validate(); err != nil {
		return nil, err
	}

	call := y.client.Search.
		List([]string{"snippet"}).
		Q(query.Keyword).
		MaxResults(query.MaxResults).
		Type("video")

	var response *youtube.SearchListResponse
	if err := y.do(ctx, "search", func(ctx context.Context) (err error) {
		response, err = call.Context(ctx).Do()
		return err
	}); err != nil {
		return nil, err
	}

	items := response.Items
	if int64(len(items)) > query.MaxResults {
		items = items[:query.MaxResults]
	}
	summaries := make([]model.VideoSummary, 0, len(items))
	for i, item := range items {
		if item.Id == nil || item.Id.VideoId == "" {
			return nil, &MalformedResponseError{Op: "search", Reason: fmt.Sprintf("item %d has no video id", i)}
		}
		summary := model.VideoSummary{VideoID: model.YoutubeVideoID(item.Id.VideoId)}
		if item.Snippet != nil {
			summary.Title = item.Snippet.Title
			summary.ChannelID = model.YoutubeChannelID(item.Snippet.ChannelId)
			summary.ChannelTitle = item.Snippet.ChannelTitle
			summary.DaysSincePublished = y.daysSince(item.Snippet.PublishedAt)
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func (y *Youtube) Details(ctx context.Context, id model.YoutubeVideoID) (model.VideoDetails, error) {
	call := y.client.Videos.
		List([]string{"snippet", "statistics"}).
		Id(string(id))

	var response *youtube.VideoListResponse
	if err := y.do(ctx, "videos", func(ctx context.Context) (err error) {
		response, err = call.Context(ctx).Do()
		return err
	}); err != nil {
		return model.VideoDetails{}, err
	}

	if len(response.Items) == 0 {
		return model.VideoDetails{}, &NotFoundError{VideoID: id}
	}
	item := response.Items[0]
	switch {
	case item.Snippet == nil:
		return model.VideoDetails{}, &MalformedResponseError{Op: "videos", Reason: fmt.Sprintf("video %s has no snippet", id)}
	case item.Statistics == nil:
		return model.VideoDetails{}, &MalformedResponseError{Op: "videos", Reason: fmt.Sprintf("video %s has no statistics", id)}
	}

	return model.VideoDetails{
		Title:     item.Snippet.Title,
		ViewCount: item.Statistics.ViewCount,
		URL:       id.WatchURL(),
	}, nil
}

// CommentThreads returns the top level comments of a video, most relevant first.
func (y *Youtube) CommentThreads(ctx context.Context, videoID model.YoutubeVideoID, max int64) ([]model.Comment, error) {
	call := y.client.CommentThreads.
		List([]string{"snippet"}).
		VideoId(string(videoID)).
		MaxResults(max).
		Order("relevance").
		TextFormat("plainText")

	var response *youtube.CommentThreadListResponse
	if err := y.do(ctx, "commentThreads", func(ctx context.Context) (err error) {
		response, err = call.Context(ctx).Do()
		return err
	}); err != nil {
		return nil, err
	}

	comments := make([]model.Comment, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Snippet == nil || item.Snippet.TopLevelComment == nil || item.Snippet.TopLevelComment.Snippet == nil {
			continue
		}
		snippet := item.Snippet.TopLevelComment.Snippet
		comments = append(comments, model.Comment{
			CommentID: item.Id,
			VideoID:   videoID,
			Author:    snippet.AuthorDisplayName,
			Text:      snippet.TextDisplay,
			LikeCount: snippet.LikeCount,
		})
	}

	return comments, nil
}

// ChannelVideos returns the ids of the most recent uploads of a channel.
func (y *Youtube) ChannelVideos(ctx context.Context, channelID model.YoutubeChannelID, max int64) ([]model.YoutubeVideoID, error) {
	call := y.client.Search.
		List([]string{"id"}).
		MaxResults(max).
		Type("video").
		Order("date").
		ChannelId(string(channelID))

	var response *youtube.SearchListResponse
	if err := y.do(ctx, "search", func(ctx context.Context) (err error) {
		response, err = call.Context(ctx).Do()
		return err
	}); err != nil {
		return nil, err
	}

	ids := make([]model.YoutubeVideoID, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		ids = append(ids, model.YoutubeVideoID(item.Id.VideoId))
	}

	return ids, nil
}

func (y *Youtube) do(ctx context.Context, endpoint string, call func(context.Context) error) error {
	if y.limiter != nil {
		if err := y.limiter.Wait(ctx); err != nil {
			return &TransportError{Op: endpoint, Err: err}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, y.timeout)
	defer cancel()

	start := time.Now()
	err := call(ctx)
	metrics.ObserveYoutubeRequest(endpoint, start, err)
	if err != nil {
		return classify(endpoint, err)
	}

	return nil
}

func (y *Youtube) daysSince(publishedAt string) int {
	published, err := time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		return 0
	}
	days := int(y.now().Sub(published).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
