package commands

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// pushMetrics pushes reg's collected samples to a Prometheus Pushgateway
// under job, if url is non-empty. One-shot commands like build and
// query exit before a scrape could ever reach them, so this is the
// only way their metrics reach Prometheus at all. A push failure is
// logged and swallowed rather than failing the command — the build or
// query itself already succeeded.
func pushMetrics(log *slog.Logger, reg *prometheus.Registry, url, job string) {
	if url == "" {
		return
	}
	if err := push.New(url, job).Gatherer(reg).Push(); err != nil {
		log.Warn("pushgateway push failed", "url", url, "job", job, "err", err)
	}
}
