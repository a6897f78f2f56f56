package cmd

import (
	"ewintr.nl/ytideas/config"
	"ewintr.nl/ytideas/tool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the YouTube search tool over MCP on stdin and stdout",
	Args:  cobra.NoArgs,
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	yt, err := newYoutube(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	// stdout carries the protocol, logs go to stderr
	server := tool.NewServer(yt, version, newLogger(cmd))
	return server.Run(cmd.Context(), &mcp.StdioTransport{})
}
