package commands

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/soundhash/fpindex/config"
	"github.com/soundhash/fpindex/index"
	"github.com/soundhash/fpindex/metrics"
	"github.com/soundhash/fpindex/server"
	"github.com/soundhash/fpindex/watch"
)

var (
	watchConfigFlag   string
	watchDebounceFlag time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Serve the index like 'serve', but reload it whenever its block files change on disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(watchConfigFlag)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}

		w, err := watch.New(log, cfg.BlockPaths, watchDebounceFlag)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		defer w.Stop()

		m := metrics.New(prometheus.DefaultRegisterer)

		resolve := func() (*index.Index, error) {
			if ix := w.Current(); ix != nil {
				return ix, nil
			}
			return nil, fmt.Errorf("watch: index not yet loaded")
		}
		srv := server.New(log, resolve, m, nil)
		httpSrv := &http.Server{Addr: cfg.ListenAddr, Handler: srv.Handler()}

		go func() {
			<-ctx.Done()
			httpSrv.Close()
		}()

		log.Info("watching and serving", "addr", cfg.ListenAddr, "paths", cfg.BlockPaths)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("watch: %w", err)
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchConfigFlag, "config", "fpindex.yaml", "path to the fpindex config file")
	watchCmd.Flags().DurationVar(&watchDebounceFlag, "debounce", 500*time.Millisecond, "debounce period for coalescing rapid file change events")
}
