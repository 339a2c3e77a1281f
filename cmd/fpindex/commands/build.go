package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/soundhash/fpindex/index"
	"github.com/soundhash/fpindex/metrics"
)

var (
	buildFromFlag        string
	buildSortedFlag      bool
	buildPushgatewayFlag string
)

var buildCmd = &cobra.Command{
	Use:   "build <output-block-path>",
	Short: "Build an index block from a JSON file of per-song codes",
	Long: `Build reads a JSON array of arrays of uint32 fingerprint codes,
one inner array per song, and writes a single index block file in
the order the songs appear in the input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath := args[0]

		if buildFromFlag == "" {
			return fmt.Errorf("build: --from is required")
		}
		data, err := os.ReadFile(buildFromFlag)
		if err != nil {
			return fmt.Errorf("build: reading %s: %w", buildFromFlag, err)
		}

		var songs [][]uint32
		if err := json.Unmarshal(data, &songs); err != nil {
			return fmt.Errorf("build: parsing %s: %w", buildFromFlag, err)
		}

		reg := prometheus.NewRegistry()
		m := metrics.New(reg)

		start := time.Now()
		err = index.BuildAndWriteBlock(songs, outPath, buildSortedFlag)
		m.BuildDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			return fmt.Errorf("build: %w", err)
		}

		pushMetrics(log, reg, buildPushgatewayFlag, "fpindex_build")

		log.Info("built block", "path", outPath, "songs", len(songs))
		fmt.Printf("wrote %s (%d songs)\n", outPath, len(songs))
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildFromFlag, "from", "", "path to a JSON file of per-song code arrays (required)")
	buildCmd.Flags().BoolVar(&buildSortedFlag, "sorted", false, "skip sort+dedup because input codes are already ascending and distinct per song")
	buildCmd.Flags().StringVar(&buildPushgatewayFlag, "pushgateway", "", "Prometheus Pushgateway URL to push build metrics to (optional, since a one-shot command has no /metrics endpoint of its own)")
}
