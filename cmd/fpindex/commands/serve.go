package commands

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/soundhash/fpindex/cache"
	"github.com/soundhash/fpindex/config"
	"github.com/soundhash/fpindex/index"
	"github.com/soundhash/fpindex/metrics"
	"github.com/soundhash/fpindex/server"
)

var (
	serveConfigFlag    string
	serveCacheSizeFlag int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve POST /query, POST /build, and GET /metrics over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(serveConfigFlag)
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}

		m := metrics.New(prometheus.DefaultRegisterer)

		c, err := cache.NewManager(serveCacheSizeFlag, m)
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}

		paths := cfg.BlockPaths
		resolve := func() (*index.Index, error) { return c.Get(paths) }
		onBuild := func(string) { c.Invalidate(paths) }
		srv := server.New(log, resolve, m, onBuild)

		log.Info("serving", "addr", cfg.ListenAddr)
		return http.ListenAndServe(cfg.ListenAddr, srv.Handler())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigFlag, "config", "fpindex.yaml", "path to the fpindex config file")
	serveCmd.Flags().IntVar(&serveCacheSizeFlag, "cache-size", 4, "maximum number of loaded indexes kept resident")
}
