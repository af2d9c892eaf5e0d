package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NewPool opens a MySQL connection pool and verifies connectivity before
// returning it.
func NewPool(ctx context.Context, dsn string) (*sql.DB, error) {
	pool, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql pool: %w", err)
	}

	pool.SetConnMaxLifetime(3 * time.Minute)
	pool.SetMaxOpenConns(10)
	pool.SetMaxIdleConns(10)

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	return pool, nil
}

// RegisterPoolMetrics exposes connection pool gauges. Call it once per
// process; duplicate registration panics.
func RegisterPoolMetrics(pool *sql.DB) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "mysql_pool_open_connections",
		Help: "Open connections, in use and idle.",
	}, func() float64 { return float64(pool.Stats().OpenConnections) })

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "mysql_pool_in_use_connections",
		Help: "Connections currently executing statements.",
	}, func() float64 { return float64(pool.Stats().InUse) })

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "mysql_pool_wait_count_total",
		Help: "Times a request had to wait for a free connection.",
	}, func() float64 { return float64(pool.Stats().WaitCount) })
}
