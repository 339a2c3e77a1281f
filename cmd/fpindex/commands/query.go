package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/soundhash/fpindex/config"
	"github.com/soundhash/fpindex/index"
	"github.com/soundhash/fpindex/metrics"
)

var (
	queryConfigFlag      string
	queryCodesFlag       string
	queryKFlag           int
	querySimilarityFlag  string
	queryPushgatewayFlag string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Score a set of fingerprint codes against a configured index and print the top matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(queryConfigFlag)
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}

		if queryCodesFlag == "" {
			return fmt.Errorf("query: --codes is required")
		}
		data, err := os.ReadFile(queryCodesFlag)
		if err != nil {
			return fmt.Errorf("query: reading %s: %w", queryCodesFlag, err)
		}
		var codes []uint32
		if err := json.Unmarshal(data, &codes); err != nil {
			return fmt.Errorf("query: parsing %s: %w", queryCodesFlag, err)
		}

		simStr := querySimilarityFlag
		if simStr == "" {
			simStr = cfg.DefaultSimilarity
		}
		sim, err := config.ParseSimilarity(simStr)
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}

		k := queryKFlag
		if k <= 0 {
			k = cfg.DefaultK
		}

		ix, err := index.Load(cfg.BlockPaths)
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}
		defer ix.Close()

		reg := prometheus.NewRegistry()
		m := metrics.New(reg)

		start := time.Now()
		results := index.Query(ix, codes, sim, k)
		m.QueryDuration.Observe(time.Since(start).Seconds())
		m.QueryResults.Observe(float64(len(results)))

		pushMetrics(log, reg, queryPushgatewayFlag, "fpindex_query")

		for _, r := range results {
			fmt.Printf("%d\t%.4f\n", r.SongID, r.Score)
		}
		return nil
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryConfigFlag, "config", "fpindex.yaml", "path to the fpindex config file")
	queryCmd.Flags().StringVar(&queryCodesFlag, "codes", "", "path to a JSON array of uint32 query codes (required)")
	queryCmd.Flags().IntVar(&queryKFlag, "k", 0, "number of results to return (default: config's default_k)")
	queryCmd.Flags().StringVar(&querySimilarityFlag, "similarity", "", "jaccard, set_intersection, or set_intersection_norm_by_query_len (default: config's default_similarity)")
	queryCmd.Flags().StringVar(&queryPushgatewayFlag, "pushgateway", "", "Prometheus Pushgateway URL to push query metrics to (optional, since a one-shot command has no /metrics endpoint of its own)")
}
