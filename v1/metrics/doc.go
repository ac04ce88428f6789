// Package metrics exposes sqlshim operations to Prometheus.
//
// *Metrics implements observability.Observer. Passing it to a database client or
// a snapshot store backend turns every reported operation into counters and a
// latency histogram:
//
//	m := metrics.NewMetrics(metrics.Config{
//		Address:                 ":9090",
//		EnableDefaultCollectors: true,
//		ServiceName:             "billing",
//	})
//	go m.Server.ListenAndServe()
//
//	db, err := database.Open(ctx, cfg, database.WithObserver(m))
//
// Database executions are labelled by statement kind (execute_query,
// execute_insert, ...). Every error record of a failed cycle increments
// sqlshim_statement_errors_total with its kind and SQLSTATE, so a burst of
// login failures (28000) or deadlocks (40001) is visible without parsing logs.
//
// # Configuration
//
//	METRICS_ADDRESS=:9090
//	METRICS_ENABLE_DEFAULT_COLLECTORS=true
//	METRICS_NAMESPACE=billing
//	METRICS_SERVICE_NAME=invoice-api
//
// Additional application metrics can be registered through CreateCounter,
// CreateHistogram and CreateGauge; they share the namespace and service label.
//
// All methods are safe for concurrent use.
package metrics
