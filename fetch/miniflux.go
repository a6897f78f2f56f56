package fetch

import (
	"strings"

	"miniflux.app/client"
)

type FeedEntry struct {
	EntryID          int64
	FeedID           int64
	YoutubeChannelID string
	YoutubeID        string
}

type FeedReader interface {
	Unread() ([]FeedEntry, error)
	MarkRead(entryID int64) error
}

type MinifluxInfo struct {
	Endpoint string
	ApiKey   string
}

type Miniflux struct {
	client *client.Client
}

func NewMiniflux(mflInfo MinifluxInfo) *Miniflux {
	return &Miniflux{
		client: client.New(mflInfo.Endpoint, mflInfo.ApiKey),
	}
}

func (m *Miniflux) Unread() ([]FeedEntry, error) {
	result, err := m.client.Entries(&client.Filter{Status: "unread"})
	if err != nil {
		return nil, err
	}

	entries := make([]FeedEntry, 0, len(result.Entries))
	for _, entry := range result.Entries {
		if !strings.HasPrefix(entry.URL, "https://www.youtube.com/watch?v=") {
			continue
		}
		fe := FeedEntry{
			EntryID:   entry.ID,
			FeedID:    entry.FeedID,
			YoutubeID: strings.TrimPrefix(entry.URL, "https://www.youtube.com/watch?v="),
		}
		if entry.Feed != nil {
			fe.YoutubeChannelID = strings.TrimPrefix(entry.Feed.FeedURL, "https://www.youtube.com/feeds/videos.xml?channel_id=")
		}
		entries = append(entries, fe)
	}

	return entries, nil
}

func (m *Miniflux) MarkRead(entryID int64) error {
	if err := m.client.UpdateEntries([]int64{entryID}, "read"); err != nil {
		return err
	}

	return nil
}
