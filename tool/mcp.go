package tool

import (
	"context"

	"ewintr.nl/ytideas/model"
	"ewintr.nl/ytideas/process"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/exp/slog"
)

const SearchToolName = "search_youtube_videos"

type SearchArgs struct {
	Keyword    string `json:"keyword" jsonschema:"The search keyword."`
	MaxResults int64  `json:"max_results,omitempty" jsonschema:"The maximum number of results to return. Defaults to 3."`
}

type SearchResult struct {
	Videos []model.VideoDetails `json:"videos"`
}

// NewServer returns an MCP server that offers the YouTube lookup as a tool
// to agent frameworks.
func NewServer(lookup process.VideoLookup, version string, logger *slog.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "ytideas", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        SearchToolName,
		Description: "Searches YouTube videos based on a keyword and retrieves title, view count and url for each video.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, SearchResult, error) {
		query := model.SearchQuery{Keyword: args.Keyword, MaxResults: args.MaxResults}
		videos, err := lookup.SearchVideosWithDetails(ctx, query)
		if err != nil {
			logger.Error("tool call failed", slog.String("tool", SearchToolName), slog.String("keyword", args.Keyword), slog.String("error", err.Error()))
			return nil, SearchResult{}, err
		}
		if videos == nil {
			videos = []model.VideoDetails{}
		}
		logger.Info("tool call served", slog.String("tool", SearchToolName), slog.String("keyword", args.Keyword), slog.Int("count", len(videos)))

		return nil, SearchResult{Videos: videos}, nil
	})

	return server
}
