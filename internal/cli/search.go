package cli

import (
	"github.com/spf13/cobra"

	"folio/internal/embedding"
	"folio/internal/service"
)

var searchTopK int

var searchCmd = &cobra.Command{
	Use:   "search <question> [question...]",
	Short: "Show the documents retrieved for each question, without generating an answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		emb, err := newEmbedder(ctx, appCfg.Embedder)
		if err != nil {
			return err
		}
		backend, err := newVectorStore(appCfg.VectorStore)
		if err != nil {
			return err
		}
		store, err := service.NewStoreLoader(backend, appCfg.Artifact.Path, log).Store(ctx)
		if err != nil {
			return err
		}

		vectors, err := embedding.EmbedBatch(ctx, emb, args)
		if err != nil {
			return err
		}
		for i, q := range args {
			results, err := store.Search(ctx, vectors[i], searchTopK)
			if err != nil {
				return err
			}
			cmd.Printf("%s\n", q)
			if len(results) == 0 {
				cmd.Println("  no documents")
			}
			for rank, r := range results {
				md := r.Document.Metadata
				cmd.Printf("  %d. %.3f  [%s] %s", rank+1, r.Similarity, md.Type, md.Title)
				if md.URL != "" {
					cmd.Printf("  %s", md.URL)
				}
				cmd.Println()
			}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top", "k", service.DefaultTopK, "number of documents per question")
	rootCmd.AddCommand(searchCmd)
}
