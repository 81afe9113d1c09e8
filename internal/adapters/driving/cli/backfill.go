package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/profiledex/profiledex-cli/internal/adapters/driven/embedding/openai"
	"github.com/profiledex/profiledex-cli/internal/adapters/driven/index/flat"
	"github.com/profiledex/profiledex-cli/internal/adapters/driven/storage/sqlite"
	"github.com/profiledex/profiledex-cli/internal/core/domain"
	"github.com/profiledex/profiledex-cli/internal/core/services"
)

var (
	backfillDBPath    string
	backfillIndexDir  string
	backfillModel     string
	backfillBatchSize int
	backfillMode      string
	backfillJSON      bool
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Embed stored profiles and build a vector index artifact",
	Long: `Selects stored profiles, flattens and embeds them, writes one flat
index artifact, and attaches the artifact reference to every selected
record. Mode "full" re-embeds everything into a fresh artifact; mode
"missing" only covers records no artifact references yet.`,
	Args: cobra.NoArgs,
	RunE: runBackfill,
}

func init() {
	backfillCmd.Flags().StringVar(&backfillDBPath, "db", "", "profile database path (default ~/.profiledex/data/profiles.db)")
	backfillCmd.Flags().StringVar(&backfillIndexDir, "index-dir", "", "directory for index artifacts (default ~/.profiledex/indexes)")
	backfillCmd.Flags().StringVar(&backfillModel, "model", "", "embedding model (default "+openai.DefaultModel+")")
	backfillCmd.Flags().IntVar(&backfillBatchSize, "batch-size", 0, "texts per embedding request")
	backfillCmd.Flags().StringVar(&backfillMode, "mode", "full", "which records to embed: full or missing")
	backfillCmd.Flags().BoolVar(&backfillJSON, "json", false, "output the summary as JSON")
	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, _ []string) error {
	mode, err := domain.ParseBackfillMode(backfillMode)
	if err != nil {
		return err
	}

	dbPath := fallback(cmd, "db", backfillDBPath, cfg.Store.Path)
	store, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	embedder, err := newEmbedder(cmd, "model", backfillModel, "batch-size", backfillBatchSize)
	if err != nil {
		return err
	}

	artifacts := flat.NewArtifacts(indexDir(cmd, backfillIndexDir))

	svc := services.NewBackfillService(store, embedder, artifacts)
	summary, err := svc.Backfill(cmd.Context(), mode)
	if err != nil {
		return err
	}

	if backfillJSON {
		return printJSON(cmd, summary)
	}

	if summary.SelectedCount == 0 {
		cmd.Printf("No records to backfill (mode %s)\n", summary.Mode)
		return nil
	}
	cmd.Printf("Backfilled %d of %d record(s) (mode %s)\n",
		summary.ProcessedCount, summary.SelectedCount, summary.Mode)
	cmd.Printf("Artifact: %s\n", summary.ArtifactPath)
	return nil
}

// openStore opens an existing profile database; backfill and query never
// create one, that is ingest's job.
func openStore(dbPath string) (*sqlite.Store, error) {
	store, err := sqlite.OpenStore(resolvedDBPath(dbPath))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return store, nil
}

// resolvedDBPath expands an empty path to the default location so
// OpenStore can stat it.
func resolvedDBPath(dbPath string) string {
	if dbPath != "" {
		return dbPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return dbPath
	}
	return filepath.Join(home, ".profiledex", "data", "profiles.db")
}

// indexDir resolves the artifact directory from flag, config, default.
func indexDir(cmd *cobra.Command, flagVal string) string {
	dir := fallback(cmd, "index-dir", flagVal, cfg.Index.Dir)
	if dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "indexes"
	}
	return filepath.Join(home, ".profiledex", "indexes")
}

// newEmbedder builds the OpenAI embedder from flags, config and
// environment.
func newEmbedder(cmd *cobra.Command, modelFlag, modelVal, batchFlag string, batchVal int) (*openai.Embedder, error) {
	return openai.NewEmbedder(openai.Config{
		APIKey:            os.Getenv("OPENAI_API_KEY"),
		Model:             fallback(cmd, modelFlag, modelVal, cfg.Embedding.Model),
		BatchSize:         fallbackInt(cmd, batchFlag, batchVal, cfg.Embedding.BatchSize),
		RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
	})
}
