package metrics

import (
	"database/sql"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func registerDBMetrics(db *sql.DB, logger *slog.Logger) {
	prometheus.MustRegister(collectors.NewDBStatsCollector(db, "helperhub"))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "setting_changes_pending",
			Help: "Scheduled setting changes not yet in force",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM setting_changes WHERE status = 'pending'")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "payouts_active",
			Help: "Payouts waiting for a bank outcome",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM payouts WHERE status IN ('REQUESTED', 'SENT')")
		},
	))
}

func queryCount(db *sql.DB, logger *slog.Logger, query string) float64 {
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		if logger != nil {
			logger.Warn("metrics query failed", "error", err)
		}
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}
