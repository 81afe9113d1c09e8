package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/profiledex/profiledex-cli/internal/adapters/driven/storage/sqlite"
	"github.com/profiledex/profiledex-cli/internal/core/services"
)

var (
	ingestDBPath    string
	ingestExtractor string
	ingestJSON      bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Load extracted resume profiles into the store",
	Long: `Parses each profile JSON file and upserts it into the profile store,
keyed by the file stem. Re-ingesting a file overwrites the stored
profile in place.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestDBPath, "db", "", "profile database path (default ~/.profiledex/data/profiles.db)")
	ingestCmd.Flags().StringVar(&ingestExtractor, "extractor", "manual", "tag naming the extraction pipeline that produced the files")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the summary as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	store, err := sqlite.NewStore(fallback(cmd, "db", ingestDBPath, cfg.Store.Path))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	svc := services.NewIngestService(store)
	summary, err := svc.Ingest(cmd.Context(), args, ingestExtractor)
	if err != nil {
		return err
	}

	if ingestJSON {
		return printJSON(cmd, summary)
	}

	cmd.Printf("Ingested %d profile(s) into %s\n", summary.Succeeded, store.Path())
	for _, f := range summary.Failures {
		cmd.Printf("  failed %s: %s\n", f.Path, f.Error)
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", summary.Failed, summary.Succeeded+summary.Failed)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
