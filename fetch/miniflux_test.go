package fetch

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiniflux(t *testing.T) {
	var marked struct {
		EntryIDs []int64 `json:"entry_ids"`
		Status   string  `json:"status"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Auth-Token"))
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "unread", r.URL.Query().Get("status"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"total": 2, "entries": [
				{"id": 11, "feed_id": 3, "url": "https://www.youtube.com/watch?v=abc", "feed": {"id": 3, "feed_url": "https://www.youtube.com/feeds/videos.xml?channel_id=chan"}},
				{"id": 12, "feed_id": 4, "url": "https://example.com/blog/post", "feed": {"id": 4, "feed_url": "https://example.com/feed"}}
			]}`))
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&marked))
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	mflx := NewMiniflux(MinifluxInfo{Endpoint: srv.URL, ApiKey: "secret"})

	entries, err := mflx.Unread()
	require.NoError(t, err)
	exp := []FeedEntry{{EntryID: 11, FeedID: 3, YoutubeChannelID: "chan", YoutubeID: "abc"}}
	assert.Equal(t, exp, entries)

	require.NoError(t, mflx.MarkRead(11))
	assert.Equal(t, []int64{11}, marked.EntryIDs)
	assert.Equal(t, "read", marked.Status)
}
