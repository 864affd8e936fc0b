package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"folio/internal/service"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Embed all site content and write the embeddings file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		emb, err := newEmbedder(ctx, appCfg.Embedder)
		if err != nil {
			return err
		}
		b := service.NewBuilder(service.BuilderConfig{
			Sources:      newSources(appCfg.Content),
			Embedder:     emb,
			ArtifactPath: appCfg.Artifact.Path,
			MaxLength:    appCfg.Normalizer.MaxLength,
			Delay:        time.Duration(appCfg.Builder.DelayMillis) * time.Millisecond,
			Logger:       log,
		})
		report, err := b.Build(ctx)
		if err != nil {
			return err
		}
		cmd.Printf("Embedded %d/%d documents into %s\n", report.Succeeded, report.Total, appCfg.Artifact.Path)
		for _, title := range report.Failed {
			cmd.Printf("  skipped: %s\n", title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
