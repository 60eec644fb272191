package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/partsdesk/internal/config"
	"github.com/lehigh-university-libraries/partsdesk/internal/semantic"
)

func newIndexCmd(root *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the semantic index into the configured vector store",
		Long: `Embeds every catalog part and writes the vectors to the configured vector
store (memory, qdrant, pgvector, or sqlite). An already populated store is
left alone unless --force is given.`,
		Example: `  partsdesk index
  partsdesk index --force --config partsdesk.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cat, err := loadCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if cat.Len() == 0 {
				return fmt.Errorf("catalog is empty; nothing to index")
			}

			index, err := semantic.FromConfig(cfg)
			if err != nil {
				return err
			}
			if index == nil {
				return fmt.Errorf("vector store type is %q; nothing to index", cfg.VectorStore.Type)
			}
			defer index.Close()

			written, err := index.Build(cmd.Context(), cat.All(), force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d parts into %s\n", written, index.Name())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Clear and rebuild an existing index")
	return cmd
}
