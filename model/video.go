package model

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultMaxResults = 3
	MaxMaxResults     = 50

	watchURLPrefix = "https://youtube.com/watch?v="
)

var ErrInvalidQuery = errors.New("invalid search query")

type YoutubeVideoID string

type YoutubeChannelID string

// WatchURL returns the canonical watch URL for the video.
func (id YoutubeVideoID) WatchURL() string {
	return watchURLPrefix + string(id)
}

type SearchQuery struct {
	Keyword    string `json:"keyword"`
	MaxResults int64  `json:"max_results"`
}

// Normalize fills in the default result cap and trims the keyword.
func (q SearchQuery) Normalize() SearchQuery {
	q.Keyword = strings.TrimSpace(q.Keyword)
	if q.MaxResults == 0 {
		q.MaxResults = DefaultMaxResults
	}
	return q
}

func (q SearchQuery) Validate() error {
	if q.Keyword == "" {
		return fmt.Errorf("%w: keyword is empty", ErrInvalidQuery)
	}
	if q.MaxResults < 1 || q.MaxResults > MaxMaxResults {
		return fmt.Errorf("%w: max results must be between 1 and %d, got %d", ErrInvalidQuery, MaxMaxResults, q.MaxResults)
	}
	return nil
}

// VideoSummary is a single search hit, before details are fetched.
type VideoSummary struct {
	VideoID            YoutubeVideoID   `json:"video_id"`
	Title              string           `json:"title"`
	ChannelID          YoutubeChannelID `json:"channel_id"`
	ChannelTitle       string           `json:"channel_title"`
	DaysSincePublished int              `json:"days_since_published"`
}

type VideoDetails struct {
	Title     string `json:"title"`
	ViewCount uint64 `json:"view_count"`
	URL       string `json:"url"`
}

type Comment struct {
	CommentID string         `json:"comment_id"`
	VideoID   YoutubeVideoID `json:"video_id"`
	Author    string         `json:"author,omitempty"`
	Text      string         `json:"text"`
	LikeCount int64          `json:"like_count,omitempty"`
}
