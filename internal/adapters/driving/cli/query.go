package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/profiledex/profiledex-cli/internal/adapters/driven/embedding/openai"
	"github.com/profiledex/profiledex-cli/internal/adapters/driven/index/flat"
	"github.com/profiledex/profiledex-cli/internal/core/domain"
	"github.com/profiledex/profiledex-cli/internal/core/ports/driven"
	"github.com/profiledex/profiledex-cli/internal/core/services"
)

var (
	queryProfile   string
	queryVector    string
	queryArtifact  string
	queryDBPath    string
	queryModel     string
	queryBatchSize int
	queryTopN      int
	queryJSON      bool
	queryNoResolve bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Find nearest neighbours in an index artifact",
	Long: `Searches a flat index artifact for the nearest stored profiles.
The query is either a profile JSON file (flattened and embedded the same
way backfill embeds stored profiles) or a raw vector. Positions are
resolved to record identities through the profile store unless
--no-resolve is given.`,
	Args: cobra.NoArgs,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryProfile, "profile", "", "profile JSON file to embed as the query")
	queryCmd.Flags().StringVar(&queryVector, "vector", "", "raw query vector as a JSON array of numbers")
	queryCmd.Flags().StringVar(&queryArtifact, "index", "", "index artifact path (required)")
	queryCmd.Flags().StringVar(&queryDBPath, "db", "", "profile database path (default ~/.profiledex/data/profiles.db)")
	queryCmd.Flags().StringVar(&queryModel, "model", "", "embedding model (default "+openai.DefaultModel+")")
	queryCmd.Flags().IntVar(&queryBatchSize, "batch-size", 0, "texts per embedding request")
	queryCmd.Flags().IntVarP(&queryTopN, "top-n", "n", 5, "number of neighbours to return")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output neighbours as JSON")
	queryCmd.Flags().BoolVar(&queryNoResolve, "no-resolve", false, "skip the store lookup, output positions only")
	_ = queryCmd.MarkFlagRequired("index")
	queryCmd.MarkFlagsMutuallyExclusive("profile", "vector")
	queryCmd.MarkFlagsOneRequired("profile", "vector")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, _ []string) error {
	vector, err := queryEmbedding(cmd)
	if err != nil {
		return err
	}

	var store driven.ProfileStore
	if !queryNoResolve {
		s, err := openStore(fallback(cmd, "db", queryDBPath, cfg.Store.Path))
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}

	// The artifact path names the file directly; the searcher's base
	// directory is irrelevant here.
	svc := services.NewQueryService(store, flat.NewArtifacts(""))
	neighbors, err := svc.Resolve(cmd.Context(), vector, queryArtifact, queryTopN)
	if err != nil {
		return err
	}

	if queryJSON {
		return printJSON(cmd, neighbors)
	}
	printNeighbors(cmd, neighbors)
	return nil
}

// queryEmbedding produces the query vector from either flag form.
func queryEmbedding(cmd *cobra.Command) ([]float32, error) {
	if queryVector != "" {
		var vec []float32
		if err := json.Unmarshal([]byte(queryVector), &vec); err != nil {
			return nil, fmt.Errorf("%w: parsing --vector: %v", domain.ErrInvalidInput, err)
		}
		return vec, nil
	}

	data, err := os.ReadFile(queryProfile)
	if err != nil {
		return nil, fmt.Errorf("reading query profile: %w", err)
	}
	profile, err := domain.ParseProfile(data)
	if err != nil {
		return nil, err
	}
	text := profile.Flatten()
	if text == "" {
		return nil, fmt.Errorf("%w: query profile flattens to nothing", domain.ErrEmptyProfile)
	}

	embedder, err := newEmbedder(cmd, "model", queryModel, "batch-size", queryBatchSize)
	if err != nil {
		return nil, err
	}
	vectors, err := embedder.EmbedBatch(cmd.Context(), []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func printNeighbors(cmd *cobra.Command, neighbors []domain.Neighbor) {
	if len(neighbors) == 0 {
		cmd.Println("No neighbours found.")
		return
	}
	for _, n := range neighbors {
		if n.Resolved {
			name := n.FullName
			if name == "" {
				name = n.ExternalID
			}
			cmd.Printf("[%d] distance=%.6f position=%d id=%d %s\n",
				n.Rank, n.Distance, n.Position, n.RecordID, name)
			continue
		}
		cmd.Printf("[%d] distance=%.6f position=%d (unresolved)\n",
			n.Rank, n.Distance, n.Position)
	}
}
