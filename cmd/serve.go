package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ewintr.nl/ytideas/config"
	"ewintr.nl/ytideas/fetch"
	"ewintr.nl/ytideas/handler"
	"ewintr.nl/ytideas/process"
	"ewintr.nl/ytideas/storage"
	"ewintr.nl/ytideas/tool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Read feeds, process runs and serve the api",
	Long: `Read unread YouTube entries from Miniflux, turn the comments of every
video into a run, process the runs and serve the results over HTTP. The
YouTube search is also offered as an MCP tool under /mcp.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := newLogger(cmd)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	postgres, err := storage.NewPostgres(cfg.Postgres())
	if err != nil {
		return fmt.Errorf("unable to connect to postgres: %w", err)
	}
	defer postgres.Close()
	runRepo := storage.NewPostgresRunRepository(postgres)

	var ideaRepo storage.IdeaVecRepository
	if cfg.WeaviateHost != "" {
		wv, err := storage.NewWeaviate(cfg.Weaviate())
		if err != nil {
			return fmt.Errorf("unable to create weaviate client: %w", err)
		}
		ideaRepo = wv
	}

	yt, err := newYoutube(ctx, cfg)
	if err != nil {
		return err
	}
	steps, err := newSteps(cfg, yt)
	if err != nil {
		return err
	}

	mflx := fetch.NewMiniflux(cfg.Miniflux())
	fetcher := fetch.NewFetcher(runRepo, mflx, yt, cfg.FetchInterval, cfg.MaxComments, logger)
	pipeline := process.NewPipeline(fetcher.Out(), steps, runRepo, ideaRepo, logger)
	go fetcher.Run(ctx)
	go pipeline.Run(ctx)
	logger.Info("fetch service started")

	mcpServer := tool.NewServer(yt, version, logger)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpServer
	}, nil))
	mux.Handle("/", handler.NewServer(runRepo, yt, logger))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.APIPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	logger.Info("http server started", slog.Int("port", cfg.APIPort))

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("unable to stop http server", slog.String("error", err.Error()))
	}
	logger.Info("service stopped")

	return nil
}
