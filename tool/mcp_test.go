package tool

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"ewintr.nl/ytideas/fetch"
	"ewintr.nl/ytideas/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type fakeLookup struct {
	videos []model.VideoDetails
	err    error
	query  model.SearchQuery
}

func (f *fakeLookup) SearchVideosWithDetails(_ context.Context, query model.SearchQuery) ([]model.VideoDetails, error) {
	f.query = query
	return f.videos, f.err
}

func connect(t *testing.T, lookup *fakeLookup) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	server := NewServer(lookup, "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { serverSession.Close() })

	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientSession.Close() })

	return clientSession
}

func TestSearchTool(t *testing.T) {
	lookup := &fakeLookup{videos: []model.VideoDetails{
		{Title: "Cats!", ViewCount: 500, URL: "https://youtube.com/watch?v=abc"},
		{Title: "Cats 2", ViewCount: 10, URL: "https://youtube.com/watch?v=def"},
	}}
	session := connect(t, lookup)

	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, tools.Tools, 1)
	assert.Equal(t, SearchToolName, tools.Tools[0].Name)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      SearchToolName,
		Arguments: map[string]any{"keyword": "cat videos", "max_results": 2},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, model.SearchQuery{Keyword: "cat videos", MaxResults: 2}, lookup.query)

	raw, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	assert.JSONEq(t, `{"videos": [
		{"title": "Cats!", "view_count": 500, "url": "https://youtube.com/watch?v=abc"},
		{"title": "Cats 2", "view_count": 10, "url": "https://youtube.com/watch?v=def"}
	]}`, string(raw))
}

func TestSearchToolDefaultMax(t *testing.T) {
	lookup := &fakeLookup{}
	session := connect(t, lookup)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      SearchToolName,
		Arguments: map[string]any{"keyword": "cats"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, int64(0), lookup.query.MaxResults)

	raw, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	assert.JSONEq(t, `{"videos": []}`, string(raw))
}

func TestSearchToolError(t *testing.T) {
	lookup := &fakeLookup{err: &fetch.NotFoundError{VideoID: "gone"}}
	session := connect(t, lookup)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      SearchToolName,
		Arguments: map[string]any{"keyword": "cats"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "video gone not found")
}
