package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"folio/internal/domain"
	"folio/internal/server"
	"folio/internal/service"
	"folio/internal/stream"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat endpoint",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Missing credentials are reported per request, not at startup.
		var emb domain.Embedder
		if e, err := newEmbedder(ctx, appCfg.Embedder); err == nil {
			emb = e
		} else if errors.Is(err, domain.ErrConfiguration) {
			log.Warn("embedding provider not configured", "error", err)
		} else {
			return err
		}
		var gen domain.Generator
		if g, err := newGenerator(ctx, appCfg.Generator); err == nil {
			gen = g
		} else if errors.Is(err, domain.ErrConfiguration) {
			log.Warn("generation provider not configured", "error", err)
		} else {
			return err
		}

		store, err := newVectorStore(appCfg.VectorStore)
		if err != nil {
			return err
		}
		svc := service.NewQueryService(service.QueryConfig{
			Embedder:    emb,
			Generator:   gen,
			Loader:      service.NewStoreLoader(store, appCfg.Artifact.Path, log),
			Owner:       appCfg.Site.Owner,
			Temperature: appCfg.Generator.Temperature,
			MaxTokens:   appCfg.Generator.MaxTokens,
			Logger:      log,
		})
		srv, err := server.New(server.Config{
			Answerer: svc,
			Framing:  stream.Framing(appCfg.Server.Framing),
			Logger:   log,
		})
		if err != nil {
			return err
		}
		return srv.Run(ctx, appCfg.Server.Addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
